package stats

import (
	"sync"

	"github.com/agbru/copyqueue/internal/notify"
)

// Change describes a counter transition. It is raised only when Old != New.
type Change struct {
	Kind Kind
	Old  Values
	New  Values
}

// CounterView is the read-only face of a Counter handed to consumers.
type CounterView interface {
	Kind() Kind
	Values() Values
	Tally() Tally
	Subscribe(fn func(Change)) (unsubscribe func())
}

// Counter is a mutable, kind-tagged tally. The kind is fixed at construction.
//
// Combining or subtracting a tally of another kind is rejected: the call
// returns false and neither mutates the counter nor raises a notification.
// Subtract also refuses any operation that would leave a field negative, so a
// caller that loses track of what it combined can detect it and recompute.
type Counter struct {
	kind Kind

	mu     sync.Mutex
	values Values

	changes notify.Feed[Change]
}

var _ CounterView = (*Counter)(nil)

// NewCounter returns a zeroed counter of the given kind.
func NewCounter(kind Kind) *Counter {
	return &Counter{kind: kind}
}

// Kind returns the counter's fixed kind tag.
func (c *Counter) Kind() Kind { return c.kind }

// Values returns the current values.
func (c *Counter) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// Tally returns the current values as an immutable Tally.
func (c *Counter) Tally() Tally { return Tally{Kind: c.kind, Values: c.Values()} }

// Subscribe registers fn for change notifications.
func (c *Counter) Subscribe(fn func(Change)) (unsubscribe func()) {
	return c.changes.Subscribe(fn)
}

// Set overwrites the values.
func (c *Counter) Set(v Values) {
	c.apply(func(Values) (Values, bool) { return v, true })
}

// Reset zeroes the counter.
func (c *Counter) Reset() { c.Set(Values{}) }

// Combine adds t to the counter. It returns false when t has another kind.
func (c *Counter) Combine(t Tally) bool {
	if t.Kind != c.kind {
		return false
	}
	return c.apply(func(cur Values) (Values, bool) { return cur.Add(t.Values), true })
}

// CombineMany adds every tally of matching kind and raises at most one
// notification for the whole batch. It returns the number of tallies applied.
func (c *Counter) CombineMany(ts []Tally) int {
	applied := 0
	c.apply(func(cur Values) (Values, bool) {
		for _, t := range ts {
			if t.Kind == c.kind {
				cur = cur.Add(t.Values)
				applied++
			}
		}
		return cur, applied > 0
	})
	return applied
}

// Subtract reverses a previous Combine of t. It returns false, leaving the
// counter untouched, when t has another kind or when the result would contain
// a negative field.
func (c *Counter) Subtract(t Tally) bool {
	if t.Kind != c.kind {
		return false
	}
	return c.apply(func(cur Values) (Values, bool) {
		next := cur.Sub(t.Values)
		if next.HasNegative() {
			return cur, false
		}
		return next, true
	})
}

// SubtractMany reverses a batch of combinations with one notification. It is
// all-or-nothing: if any tally has another kind or the running result would go
// negative, nothing is applied and it returns false.
func (c *Counter) SubtractMany(ts []Tally) bool {
	return c.apply(func(cur Values) (Values, bool) {
		next := cur
		for _, t := range ts {
			if t.Kind != c.kind {
				return cur, false
			}
			next = next.Sub(t.Values)
			if next.HasNegative() {
				return cur, false
			}
		}
		return next, true
	})
}

// apply runs fn under the lock and publishes a Change after releasing it when
// fn accepted the update and the values differ. The returned bool is fn's.
func (c *Counter) apply(fn func(Values) (Values, bool)) bool {
	c.mu.Lock()
	old := c.values
	next, ok := fn(old)
	if ok {
		c.values = next
	}
	c.mu.Unlock()

	if ok && next != old {
		c.changes.Publish(Change{Kind: c.kind, Old: old, New: next})
	}
	return ok
}
