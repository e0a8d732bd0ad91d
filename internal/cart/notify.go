package cart

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/internal/logging"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

const (
	noticeAdded   = "Added to cart!"
	noticeUpdated = "Cart updated!"
	noticeRemoved = "Removed from cart!"
)

type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives transient shopper-facing messages.
type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// LogNotifier writes notices to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logging.OrNop(logger)}
}

func (l *LogNotifier) Notify(n Notice) {
	if n.Level == LevelError {
		l.logger.Warn("cart notice", zap.String("message", n.Message))
		return
	}
	l.logger.Debug("cart notice", zap.String("message", n.Message))
}

// DefaultQueueSize bounds a Queue; the oldest notices are dropped first.
const DefaultQueueSize = 20

// Queue buffers notices until a client drains them.
type Queue struct {
	mu    sync.Mutex
	items []Notice
	max   int
}

func NewQueue(max int) *Queue {
	if max <= 0 {
		max = DefaultQueueSize
	}
	return &Queue{max: max}
}

func (q *Queue) Notify(n Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
	if over := len(q.items) - q.max; over > 0 {
		q.items = append([]Notice(nil), q.items[over:]...)
	}
}

// Drain returns the buffered notices oldest first and empties the queue.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

type tee []Notifier

func (t tee) Notify(n Notice) {
	for _, x := range t {
		x.Notify(n)
	}
}

// Tee fans a notice out to every non-nil notifier.
func Tee(notifiers ...Notifier) Notifier {
	out := make(tee, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
