// Package platform connects the switcher packages to the host's UI thread.
//
// Everything in this module runs on one cooperative thread. Work that
// finishes elsewhere (an awaited navigation gate, an image decode) is handed
// back through [Dispatch], which the host wires to its frame loop.
package platform

import "sync"

var (
	dispatchMu   sync.RWMutex
	dispatchFunc func(callback func())
)

// RegisterDispatch sets the dispatch function used to schedule callbacks on
// the UI thread and returns the previous one. Pass nil to unregister.
func RegisterDispatch(fn func(callback func())) func(callback func()) {
	dispatchMu.Lock()
	prev := dispatchFunc
	dispatchFunc = fn
	dispatchMu.Unlock()
	return prev
}

// Dispatch schedules a callback to run on the UI thread.
// Returns true if the callback was successfully scheduled, false if no dispatch function
// is registered or the callback is nil.
func Dispatch(callback func()) bool {
	dispatchMu.RLock()
	fn := dispatchFunc
	dispatchMu.RUnlock()
	if fn == nil || callback == nil {
		return false
	}
	fn(callback)
	return true
}

// Queue is a FIFO of callbacks drained once per frame. It is safe to push
// from any goroutine; Drain must run on the UI thread.
type Queue struct {
	mu    sync.Mutex
	items []func()
}

// Push appends a callback.
func (q *Queue) Push(fn func()) {
	q.mu.Lock()
	q.items = append(q.items, fn)
	q.mu.Unlock()
}

// Len returns the number of queued callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain runs the callbacks queued before the call. Callbacks queued while
// draining run on the next Drain.
func (q *Queue) Drain() int {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	for _, fn := range items {
		fn()
	}
	return len(items)
}
