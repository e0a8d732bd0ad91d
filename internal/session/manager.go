// Package session issues shopper session ids and owns one cart engine per
// live session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/logging"
)

const (
	DefaultTTL = 30 * 24 * time.Hour
	// InitTimeout bounds the first cart load of a new session.
	InitTimeout = 15 * time.Second
)

// EngineFactory builds the cart engine for a session. notices receives the
// session's toasts.
type EngineFactory func(sessionID string, notices cart.Notifier) *cart.Engine

type Session struct {
	ID      string
	Engine  *cart.Engine
	Notices *cart.Queue

	expiresAt time.Time
}

type Manager struct {
	ttl     time.Duration
	factory EngineFactory
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(ttl time.Duration, factory EngineFactory, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		ttl:      ttl,
		factory:  factory,
		logger:   logging.OrNop(logger),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Open returns the live session for id, or starts one. A well-formed id that
// is not live (for example after a restart) is reused so the stored cart id
// can be found again; anything else gets a fresh id. New sessions are
// initialized before Open returns, detached from ctx's cancellation; a failed
// load stays in the engine state.
func (m *Manager) Open(ctx context.Context, id string) (*Session, bool) {
	if s, ok := m.lookup(id); ok {
		return s, false
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		s.expiresAt = m.now().Add(m.ttl)
		m.mu.Unlock()
		return s, false
	}
	notices := cart.NewQueue(cart.DefaultQueueSize)
	s := &Session{
		ID:        id,
		Engine:    m.factory(id, notices),
		Notices:   notices,
		expiresAt: m.now().Add(m.ttl),
	}
	m.sessions[id] = s
	m.mu.Unlock()

	// The first load outlives the request that opened the session, so a
	// client that disconnects early does not leave the cart unloaded.
	initCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), InitTimeout)
	defer cancel()
	if err := s.Engine.Initialize(initCtx); err != nil {
		m.logger.Warn("session cart load failed", zap.String("session", id), zap.Error(err))
	}
	m.logger.Debug("session opened", zap.String("session", id))
	return s, true
}

// lookup finds a live session and extends its expiry.
func (m *Manager) lookup(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	now := m.now()
	if now.After(s.expiresAt) {
		delete(m.sessions, id)
		return nil, false
	}
	s.expiresAt = now.Add(m.ttl)
	return s, true
}

// Sweep drops expired sessions and reports how many went.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if now.After(s.expiresAt) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunSweeper sweeps every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("expired sessions swept", zap.Int("count", n))
			}
		}
	}
}
