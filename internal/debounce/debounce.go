// Package debounce delays a call until its input has been quiet for a window.
// Only the latest argument within the window is delivered.
package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiet period used for search-as-you-type.
const DefaultWindow = 300 * time.Millisecond

// Debouncer schedules fn after the window elapses without a newer Call.
type Debouncer[T any] struct {
	window time.Duration
	fn     func(T)

	mu      sync.Mutex
	pending *task
	stopped bool
}

// task is a cancellable delayed invocation.
type task struct {
	timer    *time.Timer
	canceled bool
}

func New[T any](window time.Duration, fn func(T)) *Debouncer[T] {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer[T]{window: window, fn: fn}
}

// Call replaces any pending invocation with one carrying arg.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.cancelLocked()

	t := &task{}
	t.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if t.canceled || d.pending != t {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()
		d.fn(arg)
	})
	d.pending = t
}

// Cancel drops the pending invocation, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	d.cancelLocked()
	d.mu.Unlock()
}

// Stop cancels the pending invocation and ignores later calls.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.cancelLocked()
	d.mu.Unlock()
}

func (d *Debouncer[T]) cancelLocked() {
	if d.pending == nil {
		return
	}
	d.pending.canceled = true
	d.pending.timer.Stop()
	d.pending = nil
}
