package results

import (
	"iter"
	"sync"

	"github.com/agbru/copyqueue/internal/notify"
	"github.com/agbru/copyqueue/internal/snaplist"
	"github.com/agbru/copyqueue/internal/stats"
)

// Set is an ordered, thread-safe collection of snapshots with aggregate views.
//
// Each view is uncomputed until first read. Reading it derives the value from
// the current members atomically with respect to mutations; from then on the
// view is adjusted on every structural change:
//
//   - Add combines the new tallies and speed samples and merges their status.
//   - Remove subtracts them, except for the status, which is recomputed from
//     the remaining members because the merge cannot be inverted.
//   - Replace is a remove followed by an add; Move changes nothing.
//   - Reset (Clear or a bulk replace) re-derives every realized view.
//
// If an incremental adjustment is rejected the view falls back to uncomputed
// and is derived again on the next read.
//
// Change handlers registered with Subscribe run while the set's mutation gate
// is held. They may read views that have already been realized but must not
// mutate the set or trigger a first realization.
type Set struct {
	list *snaplist.List[*Snapshot]

	// mu guards the realized flags, speed and status. Lock order is the list
	// gate first, then mu.
	mu            sync.Mutex
	counters      [len(stats.Kinds)]*stats.Counter
	counterReady  [len(stats.Kinds)]bool
	speed         stats.AverageSpeed
	speedReady    bool
	status        stats.CombinedStatus
	statusReady   bool
	speedChanges  notify.Feed[stats.SpeedSample]
	statusChanges notify.Feed[stats.CombinedStatus]
}

// NewSet returns a set holding snaps.
func NewSet(snaps ...*Snapshot) *Set {
	s := &Set{list: snaplist.New(snaps...)}
	for _, k := range stats.Kinds {
		s.counters[k] = stats.NewCounter(k)
	}
	s.list.Subscribe(s.onChange)
	return s
}

// Add appends snapshots.
func (s *Set) Add(snaps ...*Snapshot) { s.list.Add(snaps...) }

// Insert inserts snapshots before position i.
func (s *Set) Insert(i int, snaps ...*Snapshot) error { return s.list.Insert(i, snaps...) }

// Remove removes every occurrence of snap and reports whether any was found.
func (s *Set) Remove(snap *Snapshot) bool {
	return s.list.RemoveFunc(func(x *Snapshot) bool { return x == snap }) > 0
}

// RemoveAt removes and returns the snapshot at i.
func (s *Set) RemoveAt(i int) (*Snapshot, error) { return s.list.RemoveAt(i) }

// Replace swaps the snapshot at i.
func (s *Set) Replace(i int, snap *Snapshot) (*Snapshot, error) { return s.list.Replace(i, snap) }

// Clear removes every snapshot.
func (s *Set) Clear() { s.list.Clear() }

// Reset replaces the whole content.
func (s *Set) Reset(snaps []*Snapshot) { s.list.Reset(snaps) }

// Len returns the number of snapshots.
func (s *Set) Len() int { return s.list.Len() }

// At returns the snapshot at i.
func (s *Set) At(i int) (*Snapshot, bool) { return s.list.At(i) }

// Snapshots returns a copy of the current members.
func (s *Set) Snapshots() []*Snapshot { return s.list.Snapshot() }

// All iterates over the current members.
func (s *Set) All() iter.Seq2[int, *Snapshot] { return s.list.All() }

// Subscribe registers fn for structural changes.
func (s *Set) Subscribe(fn func(snaplist.Change[*Snapshot])) (unsubscribe func()) {
	return s.list.Subscribe(fn)
}

// SubscribeSpeed registers fn for average-speed changes of a realized view.
func (s *Set) SubscribeSpeed(fn func(stats.SpeedSample)) (unsubscribe func()) {
	return s.speedChanges.Subscribe(fn)
}

// SubscribeStatus registers fn for combined-status changes of a realized view.
func (s *Set) SubscribeStatus(fn func(stats.CombinedStatus)) (unsubscribe func()) {
	return s.statusChanges.Subscribe(fn)
}

// SetResetOnly toggles reset-only change notifications.
func (s *Set) SetResetOnly(on bool) { s.list.SetResetOnly(on) }

// Clone returns an independent set holding the current members. Snapshots
// are immutable and shared.
func (s *Set) Clone() *Set { return NewSet(s.list.Snapshot()...) }

// Directories returns the aggregate directory counter.
func (s *Set) Directories() stats.CounterView { return s.Counter(stats.Directories) }

// Files returns the aggregate file counter.
func (s *Set) Files() stats.CounterView { return s.Counter(stats.Files) }

// Bytes returns the aggregate byte counter.
func (s *Set) Bytes() stats.CounterView { return s.Counter(stats.Bytes) }

// Counter returns the aggregate counter of the given kind, realizing it if
// needed. The returned view stays live for the set's lifetime.
func (s *Set) Counter(kind stats.Kind) stats.CounterView {
	c := s.counters[kind]
	s.mu.Lock()
	ready := s.counterReady[kind]
	s.mu.Unlock()
	if ready {
		return c
	}

	s.list.Locked(func(items []*Snapshot) {
		s.mu.Lock()
		ready := s.counterReady[kind]
		s.mu.Unlock()
		if ready {
			return
		}
		c.Set(sumValues(items, kind))
		s.mu.Lock()
		s.counterReady[kind] = true
		s.mu.Unlock()
	})
	return c
}

// AverageSpeed returns the aggregate average speed, realizing it if needed.
func (s *Set) AverageSpeed() stats.AverageSpeed {
	s.mu.Lock()
	if s.speedReady {
		defer s.mu.Unlock()
		return s.speed
	}
	s.mu.Unlock()

	var avg stats.AverageSpeed
	s.list.Locked(func(items []*Snapshot) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.speedReady {
			s.speed = deriveSpeed(items)
			s.speedReady = true
		}
		avg = s.speed
	})
	return avg
}

// Speed returns the mean transfer rate over all members.
func (s *Set) Speed() stats.SpeedSample { return s.AverageSpeed().Average() }

// Status returns the combined exit status, realizing it if needed.
func (s *Set) Status() stats.CombinedStatus {
	s.mu.Lock()
	if s.statusReady {
		defer s.mu.Unlock()
		return s.status
	}
	s.mu.Unlock()

	var st stats.CombinedStatus
	s.list.Locked(func(items []*Snapshot) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.statusReady {
			s.status = deriveStatus(items)
			s.statusReady = true
		}
		st = s.status
	})
	return st
}

// onChange runs under the list gate for every structural change.
func (s *Set) onChange(ch snaplist.Change[*Snapshot]) {
	var added, removed []*Snapshot
	reset := false
	switch ch.Kind {
	case snaplist.Add:
		added = ch.NewItems
	case snaplist.Remove:
		removed = ch.OldItems
	case snaplist.Replace:
		added, removed = ch.NewItems, ch.OldItems
	case snaplist.Move:
		return
	case snaplist.Reset:
		reset = true
	}

	s.mu.Lock()
	ready := s.counterReady
	speedBefore, statusBefore := s.speed.Average(), s.status
	speedReady, statusReady := s.speedReady, s.statusReady

	if speedReady {
		if reset {
			s.speed = deriveSpeed(ch.NewItems)
		} else {
			for _, snap := range removed {
				if !s.speed.RemoveSample(snap.Speed()) {
					s.speedReady = false
					break
				}
			}
			for _, snap := range added {
				s.speed.AddSample(snap.Speed())
			}
		}
	}
	if statusReady {
		switch {
		case reset:
			s.status = deriveStatus(ch.NewItems)
		case len(removed) > 0:
			s.status = deriveStatus(s.list.Snapshot())
		default:
			for _, snap := range added {
				s.status = s.status.Merge(snap.Status())
			}
		}
	}
	speedAfter, statusAfter := s.speed.Average(), s.status
	speedReady, statusReady = s.speedReady, s.statusReady
	s.mu.Unlock()

	// Counters publish their own notifications, so they are adjusted without
	// holding mu to let handlers read other views.
	for _, k := range stats.Kinds {
		if !ready[k] {
			continue
		}
		c := s.counters[k]
		if reset {
			c.Set(sumValues(ch.NewItems, k))
			continue
		}
		if len(removed) > 0 && !c.SubtractMany(tallies(removed, k)) {
			s.mu.Lock()
			s.counterReady[k] = false
			s.mu.Unlock()
			continue
		}
		if len(added) > 0 {
			c.CombineMany(tallies(added, k))
		}
	}

	if speedReady && speedAfter != speedBefore {
		s.speedChanges.Publish(speedAfter)
	}
	if statusReady && statusAfter != statusBefore {
		s.statusChanges.Publish(statusAfter)
	}
}

func tallies(snaps []*Snapshot, kind stats.Kind) []stats.Tally {
	out := make([]stats.Tally, len(snaps))
	for i, snap := range snaps {
		out[i] = snap.Tally(kind)
	}
	return out
}

func sumValues(snaps []*Snapshot, kind stats.Kind) stats.Values {
	var v stats.Values
	for _, snap := range snaps {
		v = v.Add(snap.Tally(kind).Values)
	}
	return v
}

func deriveSpeed(snaps []*Snapshot) stats.AverageSpeed {
	var a stats.AverageSpeed
	for _, snap := range snaps {
		a.AddSample(snap.Speed())
	}
	return a
}

func deriveStatus(snaps []*Snapshot) stats.CombinedStatus {
	var c stats.CombinedStatus
	for _, snap := range snaps {
		c = c.Merge(snap.Status())
	}
	return c
}
