package orchestration

import (
	"context"
	"sync"
)

// slotGate is a counting semaphore whose capacity can change while callers
// wait. A limit of zero means unlimited. Waiters block on a broadcast channel
// that is closed and replaced on every release or resize.
type slotGate struct {
	mu      sync.Mutex
	limit   int
	inUse   int
	changed chan struct{}
}

func newSlotGate(limit int) *slotGate {
	return &slotGate{limit: limit, changed: make(chan struct{})}
}

// Acquire takes a slot, blocking until one is free or ctx is done.
func (g *slotGate) Acquire(ctx context.Context) error {
	for {
		g.mu.Lock()
		if g.limit == 0 || g.inUse < g.limit {
			g.inUse++
			g.mu.Unlock()
			return nil
		}
		wait := g.changed
		g.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Release returns a slot.
func (g *slotGate) Release() {
	g.mu.Lock()
	if g.inUse > 0 {
		g.inUse--
	}
	g.broadcastLocked()
	g.mu.Unlock()
}

// SetLimit changes the capacity. Slots already held are kept even when the
// new limit is below the number in use.
func (g *slotGate) SetLimit(n int) {
	g.mu.Lock()
	g.limit = n
	g.broadcastLocked()
	g.mu.Unlock()
}

func (g *slotGate) Limit() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.limit
}

func (g *slotGate) InUse() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inUse
}

func (g *slotGate) broadcastLocked() {
	close(g.changed)
	g.changed = make(chan struct{})
}
