// Package cart keeps one shopper's cart in step with the commerce backend.
// Every change goes through reduce; operations call out to the selected
// backend and adopt whatever cart it returns.
package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/storage"
)

type Options struct {
	// Storage holds the cart id between sessions. Nil keeps it in memory.
	Storage storage.Storage
	// StorageKey defaults to config.DefaultCartStorageKey.
	StorageKey string
	Notifier   Notifier
	Logger     *zap.Logger
}

type Engine struct {
	selector Selector
	store    storage.Storage
	key      string
	notifier Notifier
	logger   *zap.Logger

	// ops serializes operations so the last issued mutation wins.
	ops sync.Mutex

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

func New(selector Selector, opts Options) *Engine {
	if opts.Storage == nil {
		opts.Storage = storage.NewMemory()
	}
	if opts.StorageKey == "" {
		opts.StorageKey = config.DefaultCartStorageKey
	}
	if opts.Notifier == nil {
		opts.Notifier = NewLogNotifier(opts.Logger)
	}
	return &Engine{
		selector: selector,
		store:    opts.Storage,
		key:      opts.StorageKey,
		notifier: opts.Notifier,
		logger:   logging.OrNop(opts.Logger),
		state:    initialState(),
		subs:     make(map[int]func(State)),
	}
}

// State returns a snapshot; callers may keep it.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Subscribe registers fn to run after every transition and returns a func
// that removes it.
func (e *Engine) Subscribe(fn func(State)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Engine) dispatch(ev event) {
	e.mu.Lock()
	e.state = reduce(e.state, ev)
	snapshot := e.state.clone()
	subs := make([]func(State), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// cartID returns the current cart id when mode issued it. An id from the
// other backend means nothing to this one.
func (e *Engine) cartID(mode Mode) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.mode != mode {
		return ""
	}
	return e.state.ID
}

// Initialize loads the session's cart. In mock mode the mock cart is adopted
// as is. In remote mode the stored id is fetched; an id the backend no
// longer knows is forgotten, while a transport failure keeps it.
func (e *Engine) Initialize(ctx context.Context) error {
	e.ops.Lock()
	defer e.ops.Unlock()

	backend, mode := e.selector()
	e.dispatch(loading{on: true})

	if mode == ModeMock {
		c, err := backend.GetCart(ctx, "")
		if err != nil {
			return e.fail(LoadFailed, err, false)
		}
		e.dispatch(adopted{cart: *c, mode: mode})
		return nil
	}

	id, ok := e.loadID(ctx)
	if !ok {
		e.dispatch(loading{on: false})
		return nil
	}
	c, err := backend.GetCart(ctx, id)
	if e.forgetStale(ctx, mode, id, err) {
		return nil
	}
	if err != nil {
		return e.fail(LoadFailed, err, false)
	}
	e.dispatch(adopted{cart: *c, mode: mode})
	return nil
}

// AddToCart creates the cart on first use, otherwise adds to it. The backend
// decides whether a repeated variant merges into its existing line. A remote
// cart that has expired is forgotten and replaced by a new one.
func (e *Engine) AddToCart(ctx context.Context, variantID string, quantity int) error {
	if variantID == "" || quantity < 1 {
		return ErrInvalidLine
	}
	e.ops.Lock()
	defer e.ops.Unlock()

	backend, mode := e.selector()
	lines := []commerce.LineInput{{MerchandiseID: variantID, Quantity: quantity}}
	e.dispatch(loading{on: true})

	id := e.cartID(mode)
	if mode == ModeRemote && id == "" {
		return e.createCart(ctx, backend, lines)
	}

	c, err := backend.AddLines(ctx, id, lines)
	if e.forgetStale(ctx, mode, id, err) {
		e.dispatch(loading{on: true})
		return e.createCart(ctx, backend, lines)
	}
	if err != nil {
		return e.fail(AddFailed, err, true)
	}
	e.succeed(*c, mode, noticeAdded)
	return nil
}

// createCart starts a remote cart and stores its id before adopting it.
func (e *Engine) createCart(ctx context.Context, backend Backend, lines []commerce.LineInput) error {
	c, err := backend.CreateCart(ctx, lines)
	if err != nil {
		return e.fail(CreateFailed, err, true)
	}
	e.saveID(ctx, c.ID)
	e.succeed(*c, ModeRemote, noticeAdded)
	return nil
}

// UpdateCartItem sets a line's quantity. A quantity of zero or less removes
// the line.
func (e *Engine) UpdateCartItem(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return e.RemoveFromCart(ctx, lineID)
	}
	e.ops.Lock()
	defer e.ops.Unlock()

	backend, mode := e.selector()
	id := e.cartID(mode)
	if mode == ModeRemote && id == "" {
		return nil
	}
	e.dispatch(loading{on: true})
	c, err := backend.UpdateLines(ctx, id, []commerce.LineUpdate{{ID: lineID, Quantity: quantity}})
	if err != nil {
		e.forgetStale(ctx, mode, id, err)
		return e.fail(UpdateFailed, err, true)
	}
	e.succeed(*c, mode, noticeUpdated)
	return nil
}

func (e *Engine) RemoveFromCart(ctx context.Context, lineID string) error {
	e.ops.Lock()
	defer e.ops.Unlock()

	backend, mode := e.selector()
	id := e.cartID(mode)
	if mode == ModeRemote && id == "" {
		return nil
	}
	e.dispatch(loading{on: true})
	c, err := backend.RemoveLines(ctx, id, []string{lineID})
	if err != nil {
		e.forgetStale(ctx, mode, id, err)
		return e.fail(RemoveFailed, err, true)
	}
	e.succeed(*c, mode, noticeRemoved)
	return nil
}

// RefreshCart re-reads the current cart. It does nothing without a cart id.
func (e *Engine) RefreshCart(ctx context.Context) error {
	e.ops.Lock()
	defer e.ops.Unlock()

	backend, mode := e.selector()
	id := e.cartID(mode)
	if id == "" {
		return nil
	}
	e.dispatch(loading{on: true})
	c, err := backend.GetCart(ctx, id)
	if e.forgetStale(ctx, mode, id, err) {
		return nil
	}
	if err != nil {
		return e.fail(RefreshFailed, err, false)
	}
	e.dispatch(adopted{cart: *c, mode: mode})
	return nil
}

// ClearCart forgets the cart locally without telling the backend.
func (e *Engine) ClearCart(ctx context.Context) {
	e.ops.Lock()
	defer e.ops.Unlock()

	e.forgetID(ctx)
	e.dispatch(cleared{})
}

func (e *Engine) CartItemQuantity(variantID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, line := range e.state.Items {
		if line.VariantID == variantID {
			return line.Quantity
		}
	}
	return 0
}

func (e *Engine) IsInCart(variantID string) bool {
	return e.CartItemQuantity(variantID) > 0
}

func (e *Engine) succeed(c domain.Cart, mode Mode, message string) {
	e.dispatch(adopted{cart: c, mode: mode})
	e.notify(LevelSuccess, message)
}

// fail records kind in state, keeping the cart as it was.
func (e *Engine) fail(kind ErrorKind, err error, toast bool) error {
	e.logger.Warn("cart operation failed", zap.Stringer("kind", kind), zap.Error(err))
	e.dispatch(failed{message: kind.Message()})
	if toast {
		e.notify(LevelError, kind.Toast())
	}
	return &OpError{Kind: kind, Err: err}
}

func (e *Engine) notify(level Level, message string) {
	e.notifier.Notify(Notice{Level: level, Message: message, At: time.Now().UTC()})
}

// forgetStale drops a remote cart id the backend no longer resolves and
// resets the state. It reports whether it did.
func (e *Engine) forgetStale(ctx context.Context, mode Mode, id string, err error) bool {
	if mode != ModeRemote || !errors.Is(err, domain.ErrCartNotFound) {
		return false
	}
	e.logger.Info("stored cart no longer exists", zap.String("cart_id", id))
	e.forgetID(ctx)
	e.dispatch(cleared{})
	return true
}

// Storage failures are logged and otherwise ignored.
func (e *Engine) loadID(ctx context.Context) (string, bool) {
	id, ok, err := e.store.Get(ctx, e.key)
	if err != nil {
		e.logger.Warn("cart id read failed", zap.String("key", e.key), zap.Error(err))
		return "", false
	}
	return id, ok && id != ""
}

func (e *Engine) saveID(ctx context.Context, id string) {
	if err := e.store.Set(ctx, e.key, id); err != nil {
		e.logger.Warn("cart id write failed", zap.String("key", e.key), zap.Error(err))
	}
}

func (e *Engine) forgetID(ctx context.Context) {
	if err := e.store.Delete(ctx, e.key); err != nil {
		e.logger.Warn("cart id delete failed", zap.String("key", e.key), zap.Error(err))
	}
}
