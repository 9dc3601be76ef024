package snaplist

import (
	"fmt"
	"iter"
	"slices"
	"sync"
	"sync/atomic"

	apperrors "github.com/agbru/copyqueue/internal/errors"
	"github.com/agbru/copyqueue/internal/notify"
)

// ChangeKind classifies a structural change.
type ChangeKind int

const (
	Add ChangeKind = iota
	Remove
	Replace
	Move
	Reset
)

func (k ChangeKind) String() string {
	switch k {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Replace:
		return "replace"
	case Move:
		return "move"
	case Reset:
		return "reset"
	default:
		return fmt.Sprintf("change(%d)", int(k))
	}
}

// Change describes one structural mutation. Index fields are -1 when they do
// not apply. Item slices are shared with the list and must not be modified.
//
//   - Add: NewItems inserted at NewIndex.
//   - Remove: OldItems removed from OldIndex.
//   - Replace: OldItems[0] replaced by NewItems[0] at NewIndex.
//   - Move: the single item moved from OldIndex to NewIndex.
//   - Reset: the whole content changed from OldItems to NewItems.
type Change[T any] struct {
	Kind     ChangeKind
	NewItems []T
	OldItems []T
	NewIndex int
	OldIndex int
}

// List is a copy-on-write ordered list. The zero value is an empty list
// ready to use.
type List[T any] struct {
	mu        sync.Mutex
	items     atomic.Pointer[[]T]
	resetOnly bool

	changes notify.Feed[Change[T]]
}

// New returns a list holding a copy of items.
func New[T any](items ...T) *List[T] {
	l := &List[T]{}
	if len(items) > 0 {
		cp := slices.Clone(items)
		l.items.Store(&cp)
	}
	return l
}

func (l *List[T]) load() []T {
	if p := l.items.Load(); p != nil {
		return *p
	}
	return nil
}

// Len returns the current number of items.
func (l *List[T]) Len() int { return len(l.load()) }

// At returns the item at i and whether i was in range.
func (l *List[T]) At(i int) (T, bool) {
	cur := l.load()
	if i < 0 || i >= len(cur) {
		var zero T
		return zero, false
	}
	return cur[i], true
}

// Snapshot returns a copy of the current items.
func (l *List[T]) Snapshot() []T { return slices.Clone(l.load()) }

// All iterates over the items of the state current when All was called.
func (l *List[T]) All() iter.Seq2[int, T] {
	cur := l.load()
	return func(yield func(int, T) bool) {
		for i, v := range cur {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Subscribe registers fn for change notifications.
func (l *List[T]) Subscribe(fn func(Change[T])) (unsubscribe func()) {
	return l.changes.Subscribe(fn)
}

// SetResetOnly toggles reset-only mode, in which every mutation raises
// exactly one Reset instead of granular changes.
func (l *List[T]) SetResetOnly(on bool) {
	l.mu.Lock()
	l.resetOnly = on
	l.mu.Unlock()
}

// ResetOnly reports whether reset-only mode is on.
func (l *List[T]) ResetOnly() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resetOnly
}

// Locked runs fn with the current items while holding the mutation gate, so
// no mutation or notification can interleave with it. fn must not mutate the
// list and must not retain items.
func (l *List[T]) Locked(fn func(items []T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.load())
}

// Add appends items.
func (l *List[T]) Add(items ...T) {
	if len(items) == 0 {
		return
	}
	added := slices.Clone(items)
	_ = l.mutate(func(cur []T) ([]T, []Change[T], error) {
		next := make([]T, 0, len(cur)+len(added))
		next = append(append(next, cur...), added...)
		return next, []Change[T]{{Kind: Add, NewItems: added, NewIndex: len(cur), OldIndex: -1}}, nil
	})
}

// Insert inserts items before position i. i may equal Len.
func (l *List[T]) Insert(i int, items ...T) error {
	added := slices.Clone(items)
	return l.mutate(func(cur []T) ([]T, []Change[T], error) {
		if i < 0 || i > len(cur) {
			return nil, nil, &apperrors.InvalidIndexError{Index: i, Len: len(cur)}
		}
		if len(added) == 0 {
			return nil, nil, nil
		}
		next := slices.Insert(slices.Clone(cur), i, added...)
		return next, []Change[T]{{Kind: Add, NewItems: added, NewIndex: i, OldIndex: -1}}, nil
	})
}

// RemoveAt removes and returns the item at i.
func (l *List[T]) RemoveAt(i int) (T, error) {
	var removed T
	err := l.mutate(func(cur []T) ([]T, []Change[T], error) {
		if i < 0 || i >= len(cur) {
			return nil, nil, &apperrors.InvalidIndexError{Index: i, Len: len(cur)}
		}
		removed = cur[i]
		next := slices.Delete(slices.Clone(cur), i, i+1)
		return next, []Change[T]{{Kind: Remove, OldItems: []T{removed}, NewIndex: -1, OldIndex: i}}, nil
	})
	return removed, err
}

// RemoveFunc removes every item for which pred returns true and returns how
// many were removed. One Remove is raised per item, from the highest index
// down, so each OldIndex is valid at the point it is applied.
func (l *List[T]) RemoveFunc(pred func(T) bool) int {
	removed := 0
	_ = l.mutate(func(cur []T) ([]T, []Change[T], error) {
		next := make([]T, 0, len(cur))
		var changes []Change[T]
		for i, v := range cur {
			if pred(v) {
				changes = append(changes, Change[T]{Kind: Remove, OldItems: []T{v}, NewIndex: -1, OldIndex: i})
				continue
			}
			next = append(next, v)
		}
		if len(changes) == 0 {
			return nil, nil, nil
		}
		slices.Reverse(changes)
		removed = len(changes)
		return next, changes, nil
	})
	return removed
}

// Replace swaps the item at i for item and returns the previous one.
func (l *List[T]) Replace(i int, item T) (T, error) {
	var old T
	err := l.mutate(func(cur []T) ([]T, []Change[T], error) {
		if i < 0 || i >= len(cur) {
			return nil, nil, &apperrors.InvalidIndexError{Index: i, Len: len(cur)}
		}
		old = cur[i]
		next := slices.Clone(cur)
		next[i] = item
		return next, []Change[T]{{Kind: Replace, NewItems: []T{item}, OldItems: []T{old}, NewIndex: i, OldIndex: i}}, nil
	})
	return old, err
}

// Sort stably reorders the list by cmp. If cmp panics the list is left
// untouched and the panic propagates.
func (l *List[T]) Sort(cmp func(a, b T) int) {
	_ = l.mutate(func(cur []T) ([]T, []Change[T], error) {
		perm := identity(len(cur))
		slices.SortStableFunc(perm, func(a, b int) int { return cmp(cur[a], cur[b]) })
		next, changes := permute(cur, perm)
		return next, changes, nil
	})
}

// Reverse reverses the order of the items.
func (l *List[T]) Reverse() {
	_ = l.mutate(func(cur []T) ([]T, []Change[T], error) {
		perm := identity(len(cur))
		slices.Reverse(perm)
		next, changes := permute(cur, perm)
		return next, changes, nil
	})
}

// Clear removes every item.
func (l *List[T]) Clear() { l.Reset(nil) }

// Reset replaces the whole content with items.
func (l *List[T]) Reset(items []T) {
	fresh := slices.Clone(items)
	_ = l.mutate(func(cur []T) ([]T, []Change[T], error) {
		if len(cur) == 0 && len(fresh) == 0 {
			return nil, nil, nil
		}
		return fresh, []Change[T]{{Kind: Reset, NewItems: fresh, OldItems: cur, NewIndex: -1, OldIndex: -1}}, nil
	})
}

// mutate runs fn under the gate. When fn returns changes, its result becomes
// the new backing slice and the changes are published before the gate is
// released. A nil change set means nothing happened.
func (l *List[T]) mutate(fn func(cur []T) ([]T, []Change[T], error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.load()
	next, changes, err := fn(cur)
	if err != nil || len(changes) == 0 {
		return err
	}
	l.items.Store(&next)

	if l.resetOnly {
		changes = []Change[T]{{Kind: Reset, NewItems: next, OldItems: cur, NewIndex: -1, OldIndex: -1}}
	}
	for _, c := range changes {
		l.changes.Publish(c)
	}
	return nil
}

func identity(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

// permute builds the reordered slice where next[j] = cur[perm[j]] and one Move
// per item whose position changed. Items are tracked by original position.
func permute[T any](cur []T, perm []int) ([]T, []Change[T]) {
	next := make([]T, len(cur))
	var changes []Change[T]
	for j, src := range perm {
		next[j] = cur[src]
		if src != j {
			item := []T{cur[src]}
			changes = append(changes, Change[T]{Kind: Move, NewItems: item, OldItems: item, NewIndex: j, OldIndex: src})
		}
	}
	return next, changes
}
