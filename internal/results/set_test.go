package results

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/copyqueue/internal/snaplist"
	"github.com/agbru/copyqueue/internal/stats"
)

func fileSnap(name string, copied, failed int64) *Snapshot {
	return NewSnapshot(Data{
		JobName: name,
		Files:   stats.Values{Total: copied + failed, Copied: copied, Failed: failed},
		Bytes:   stats.Values{Total: (copied + failed) * 1024, Copied: copied * 1024, Failed: failed * 1024},
		Speed:   stats.SpeedSample{BytesPerSec: float64(copied * 100)},
		Status:  statusFor(copied, failed),
	})
}

func statusFor(copied, failed int64) stats.ExitStatus {
	var s stats.ExitStatus
	if copied > 0 {
		s |= stats.FilesCopied
	}
	if failed > 0 {
		s |= stats.CopyErrors
	}
	return s
}

func TestSetAggregatesAndRemoveRestores(t *testing.T) {
	t.Parallel()
	set := NewSet()
	files := set.Files()

	a, b, c := fileSnap("a", 5, 0), fileSnap("b", 0, 2), fileSnap("c", 3, 0)
	set.Add(a, b, c)

	assert.Equal(t, int64(8), files.Values().Copied)
	assert.Equal(t, int64(2), files.Values().Failed)
	assert.True(t, set.Status().HasErrors())

	require.True(t, set.Remove(b))
	assert.Equal(t, int64(8), files.Values().Copied)
	assert.Equal(t, int64(0), files.Values().Failed)
	assert.False(t, set.Status().HasErrors(), "status is recomputed on removal")
	assert.Equal(t, 2, set.Len())
}

func TestSetBatchAddRaisesOneCounterNotification(t *testing.T) {
	t.Parallel()
	set := NewSet()
	var events int
	set.Files().Subscribe(func(stats.Change) { events++ })

	set.Add(fileSnap("a", 1, 0), fileSnap("b", 2, 0), fileSnap("c", 3, 0))
	assert.Equal(t, 1, events)
	assert.Equal(t, int64(6), set.Files().Values().Copied)
}

func TestSetViewsAreLazy(t *testing.T) {
	t.Parallel()
	set := NewSet(fileSnap("a", 1, 0))
	set.Add(fileSnap("b", 2, 0))

	set.mu.Lock()
	assert.False(t, set.counterReady[stats.Files])
	assert.False(t, set.speedReady)
	assert.False(t, set.statusReady)
	set.mu.Unlock()
	assert.True(t, set.counters[stats.Files].Values().IsZero(), "unread view is not maintained")

	assert.Equal(t, int64(3), set.Files().Values().Copied)
	set.mu.Lock()
	assert.True(t, set.counterReady[stats.Files])
	assert.False(t, set.counterReady[stats.Bytes])
	set.mu.Unlock()
}

func TestSetReplaceMoveAndReset(t *testing.T) {
	t.Parallel()
	set := NewSet(fileSnap("a", 1, 0), fileSnap("b", 2, 0))
	files := set.Files()
	_ = set.Status()

	_, err := set.Replace(0, fileSnap("a2", 10, 1))
	require.NoError(t, err)
	assert.Equal(t, stats.Values{Total: 13, Copied: 12, Failed: 1}, files.Values())
	assert.True(t, set.Status().HasErrors())

	set.list.Reverse()
	assert.Equal(t, stats.Values{Total: 13, Copied: 12, Failed: 1}, files.Values())

	set.Reset([]*Snapshot{fileSnap("z", 4, 0)})
	assert.Equal(t, stats.Values{Total: 4, Copied: 4}, files.Values())
	assert.False(t, set.Status().HasErrors())

	set.Clear()
	assert.True(t, files.Values().IsZero())
	assert.Zero(t, set.Speed().BytesPerSec)
	assert.Zero(t, set.Status().Count())
}

func TestSetResetOnlyMode(t *testing.T) {
	t.Parallel()
	set := NewSet()
	set.SetResetOnly(true)
	files := set.Files()
	var kinds []snaplist.ChangeKind
	set.Subscribe(func(c snaplist.Change[*Snapshot]) { kinds = append(kinds, c.Kind) })

	set.Add(fileSnap("a", 1, 0), fileSnap("b", 2, 0))
	set.RemoveAt(0)

	assert.Equal(t, []snaplist.ChangeKind{snaplist.Reset, snaplist.Reset}, kinds)
	assert.Equal(t, int64(2), files.Values().Copied)
}

func TestSetSpeedAndStatusNotifications(t *testing.T) {
	t.Parallel()
	set := NewSet()
	_ = set.Speed()
	_ = set.Status()

	var speeds []stats.SpeedSample
	var statuses []stats.CombinedStatus
	set.SubscribeSpeed(func(s stats.SpeedSample) { speeds = append(speeds, s) })
	set.SubscribeStatus(func(s stats.CombinedStatus) { statuses = append(statuses, s) })

	set.Add(fileSnap("a", 1, 0), fileSnap("b", 3, 0))
	require.Len(t, speeds, 1)
	assert.Equal(t, 200.0, speeds[0].BytesPerSec)
	require.Len(t, statuses, 1)
	assert.Equal(t, 2, statuses[0].Count())
}

func TestSetCloneIsIndependent(t *testing.T) {
	t.Parallel()
	set := NewSet(fileSnap("a", 5, 0), fileSnap("b", 0, 2))
	clone := set.Clone()

	set.Add(fileSnap("c", 3, 0))
	set.RemoveAt(0)

	assert.Equal(t, 2, clone.Len())
	assert.Equal(t, int64(5), clone.Files().Values().Copied)
	assert.Equal(t, int64(3), set.Files().Values().Copied)
}

func TestSetHandlerMayReadRealizedViews(t *testing.T) {
	t.Parallel()
	set := NewSet()
	files := set.Files()
	_ = set.Status()

	var seen []bool
	set.Files().Subscribe(func(stats.Change) {
		seen = append(seen, set.Status().HasErrors())
	})

	done := make(chan struct{})
	go func() {
		set.Add(fileSnap("a", 1, 1))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("deadlock: reading a view from a counter handler blocked")
	}
	require.Len(t, seen, 1)
	assert.True(t, seen[0], "status view is updated before counter handlers run")
	assert.Equal(t, int64(1), files.Values().Copied)
}

func TestSetConcurrentAddsLandExactlyOnce(t *testing.T) {
	t.Parallel()
	set := NewSet()
	files := set.Files()
	bytes := set.Bytes()

	const n = 64
	snaps := make([]*Snapshot, n)
	for i := range snaps {
		snaps[i] = fileSnap("job", int64(i%7), int64(i%3))
	}
	order := rand.Perm(n)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, i := range order {
		wg.Add(1)
		go func(s *Snapshot) {
			defer wg.Done()
			<-start
			set.Add(s)
		}(snaps[i])
	}
	close(start)
	wg.Wait()

	require.Equal(t, n, set.Len())
	assert.Equal(t, sumValues(snaps, stats.Files), files.Values())
	assert.Equal(t, sumValues(snaps, stats.Bytes), bytes.Values())
}

func TestSnapshotAccessorsCopy(t *testing.T) {
	t.Parallel()
	lines := []string{"one", "two"}
	s := NewSnapshot(Data{JobName: "j", LogLines: lines})
	lines[0] = "changed"
	assert.Equal(t, []string{"one", "two"}, s.LogLines())

	got := s.LogLines()
	got[1] = "mutated"
	assert.Equal(t, "two", s.LogLines()[1])
}

func TestCancelledAndFaultedSnapshots(t *testing.T) {
	t.Parallel()
	c := CancelledSnapshot("late")
	assert.True(t, c.Status().WasCancelled())
	assert.Equal(t, "late", c.JobName())

	partial := fileSnap("p", 2, 0)
	f := FaultedSnapshot("p", partial, errors.New("boom"))
	assert.Equal(t, stats.FilesCopied|stats.SeriousError, f.Status())
	assert.Equal(t, int64(2), f.Files().Values.Copied)
	assert.Contains(t, f.LogLines(), "fault: boom")

	bare := FaultedSnapshot("q", nil, nil)
	assert.Equal(t, stats.SeriousError, bare.Status())
	assert.True(t, bare.Files().Values.IsZero())
}

// TestSetMatchesBruteForce checks that realized views equal a recomputation
// over the members after arbitrary add/remove sequences.
func TestSetMatchesBruteForce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("aggregate views equal brute force", prop.ForAll(
		func(ops []int, realizeAt int) bool {
			set := NewSet()
			for i, op := range ops {
				if i == realizeAt%(len(ops)+1) {
					set.Files()
					set.Bytes()
					set.Directories()
					set.Speed()
					set.Status()
				}
				switch {
				case op >= 0:
					set.Add(NewSnapshot(Data{
						Directories: stats.Values{Total: int64(op % 3), Copied: int64(op % 3)},
						Files:       stats.Values{Total: int64(op), Copied: int64(op / 2), Failed: int64(op - op/2)},
						Bytes:       stats.Values{Total: int64(op) * 512, Skipped: int64(op) * 512},
						Speed:       stats.SpeedSample{BytesPerSec: float64(op)},
						Status:      stats.ExitStatus(op % 17),
					}))
				case set.Len() > 0:
					set.RemoveAt(-op % set.Len())
				}
			}

			members := set.Snapshots()
			for _, k := range stats.Kinds {
				if set.Counter(k).Values() != sumValues(members, k) {
					return false
				}
			}
			want := deriveSpeed(members)
			got := set.AverageSpeed()
			return got.Samples() == want.Samples() &&
				got.Average() == want.Average() &&
				set.Status() == deriveStatus(members)
		},
		gen.SliceOf(gen.IntRange(-40, 40)),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
