package job

import (
	"context"
	"sync"

	"github.com/agbru/copyqueue/internal/results"
)

// Handle tracks one Start call. Started closes once execution has begun and
// Done closes once the job resolved; both close at most once.
type Handle struct {
	started   chan struct{}
	startOnce sync.Once
	done      chan struct{}
	doneOnce  sync.Once

	result *results.Snapshot
	err    error
}

// NewHandle returns an unresolved handle.
func NewHandle() *Handle {
	return &Handle{started: make(chan struct{}), done: make(chan struct{})}
}

// ResolvedHandle returns a handle that is already started and resolved.
func ResolvedHandle(res *results.Snapshot, err error) *Handle {
	h := NewHandle()
	h.MarkStarted()
	h.Resolve(res, err)
	return h
}

// MarkStarted records that execution has begun.
func (h *Handle) MarkStarted() {
	h.startOnce.Do(func() { close(h.started) })
}

// Resolve records the outcome. Only the first call has an effect. A non-nil
// err marks the run as faulted; res may still carry partial results.
func (h *Handle) Resolve(res *results.Snapshot, err error) {
	h.doneOnce.Do(func() {
		h.result, h.err = res, err
		close(h.done)
	})
}

// Started is closed once execution has begun.
func (h *Handle) Started() <-chan struct{} { return h.started }

// Done is closed once the job resolved.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Result returns the outcome. It is only meaningful after Done is closed.
func (h *Handle) Result() (*results.Snapshot, error) {
	select {
	case <-h.done:
		return h.result, h.err
	default:
		return nil, nil
	}
}

// Wait blocks until the job resolves or ctx is done.
func (h *Handle) Wait(ctx context.Context) (*results.Snapshot, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
