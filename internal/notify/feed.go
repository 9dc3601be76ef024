// Package notify provides synchronous, copy-on-write event feeds.
//
// A Feed delivers each published value to every handler registered at the
// time of publication, on the publisher's goroutine. Handlers registered or
// removed concurrently with a publish take effect for the next one.
package notify

import (
	"sync"
	"sync/atomic"
)

// Feed is a typed fan-out point. The zero value is ready to use.
type Feed[T any] struct {
	mu       sync.Mutex
	handlers atomic.Pointer[[]*entry[T]]
}

type entry[T any] struct {
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it. The returned
// function is idempotent and safe to call from within a handler.
func (f *Feed[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	e := &entry[T]{fn: fn}

	f.mu.Lock()
	cur := f.load()
	next := make([]*entry[T], len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, e)
	f.handlers.Store(&next)
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { f.remove(e) })
	}
}

func (f *Feed[T]) remove(e *entry[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur := f.load()
	next := make([]*entry[T], 0, len(cur))
	for _, h := range cur {
		if h != e {
			next = append(next, h)
		}
	}
	f.handlers.Store(&next)
}

// Publish delivers v to the current handlers in registration order.
func (f *Feed[T]) Publish(v T) {
	for _, h := range f.load() {
		h.fn(v)
	}
}

// Len returns the number of registered handlers.
func (f *Feed[T]) Len() int {
	return len(f.load())
}

func (f *Feed[T]) load() []*entry[T] {
	if p := f.handlers.Load(); p != nil {
		return *p
	}
	return nil
}
