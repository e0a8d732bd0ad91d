package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}, 10)}
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.calls = append(r.calls, v)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestLatestCallWins(t *testing.T) {
	rec := newRecorder()
	d := New(20*time.Millisecond, rec.record)

	d.Call("h")
	d.Call("he")
	d.Call("hea")

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"hea"}, rec.snapshot())
}

func TestSeparateWindowsFireSeparately(t *testing.T) {
	rec := newRecorder()
	d := New(10*time.Millisecond, rec.record)

	d.Call("a")
	<-rec.done
	d.Call("b")
	<-rec.done
	require.Equal(t, []string{"a", "b"}, rec.snapshot())
}

func TestStopDiscardsPending(t *testing.T) {
	rec := newRecorder()
	d := New(10*time.Millisecond, rec.record)

	d.Call("x")
	d.Stop()
	d.Call("y")
	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestCancelDropsPendingOnly(t *testing.T) {
	rec := newRecorder()
	d := New(10*time.Millisecond, rec.record)

	d.Call("x")
	d.Cancel()
	d.Call("y")
	<-rec.done
	assert.Equal(t, []string{"y"}, rec.snapshot())
}

func TestDefaultWindow(t *testing.T) {
	d := New(0, func(string) {})
	assert.Equal(t, DefaultWindow, d.window)
}
