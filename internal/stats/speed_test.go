package stats

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func sampleOf(n int) SpeedSample {
	return SpeedSample{BytesPerSec: float64(n), MegaBytesPerMin: float64(n) / 4}
}

func averageOf(ns []int) AverageSpeed {
	var a AverageSpeed
	for _, n := range ns {
		a.AddSample(sampleOf(n))
	}
	return a
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestAverageSpeedMergeVersusAddAsSample(t *testing.T) {
	t.Parallel()
	small := averageOf([]int{100})
	large := averageOf([]int{10, 10, 10})

	merged := small
	merged.Merge(large)
	if got := merged.Average().BytesPerSec; got != 32.5 {
		t.Errorf("Merge average = %v, want 32.5", got)
	}
	if merged.Samples() != 4 {
		t.Errorf("Merge samples = %d, want 4", merged.Samples())
	}

	naive := small
	naive.AddAsSample(large)
	if got := naive.Average().BytesPerSec; got != 55 {
		t.Errorf("AddAsSample average = %v, want 55", got)
	}
	if naive.Samples() != 2 {
		t.Errorf("AddAsSample samples = %d, want 2", naive.Samples())
	}
}

func TestAverageSpeedRemove(t *testing.T) {
	t.Parallel()
	a := averageOf([]int{10, 20, 30})
	if !a.RemoveSample(sampleOf(30)) {
		t.Fatal("RemoveSample should succeed")
	}
	if got := a.Average().BytesPerSec; got != 15 {
		t.Errorf("average after remove = %v, want 15", got)
	}

	var empty AverageSpeed
	if empty.RemoveSample(sampleOf(1)) {
		t.Error("RemoveSample on empty average should fail")
	}
	if empty.Average() != (SpeedSample{}) {
		t.Error("empty average should be the zero sample")
	}

	b := averageOf([]int{1, 2})
	if b.Unmerge(averageOf([]int{1, 2, 3})) {
		t.Error("Unmerge of a larger average should fail")
	}
	if !b.Unmerge(averageOf([]int{1, 2})) || b.Samples() != 0 {
		t.Error("Unmerge of an identical average should empty it")
	}
}

func TestNewSpeedSample(t *testing.T) {
	t.Parallel()
	s := NewSpeedSample(1<<20, 1)
	if s.BytesPerSec != 1<<20 {
		t.Errorf("BytesPerSec = %v", s.BytesPerSec)
	}
	if s.MegaBytesPerMin != 60 {
		t.Errorf("MegaBytesPerMin = %v, want 60", s.MegaBytesPerMin)
	}
	if NewSpeedSample(100, 0) != (SpeedSample{}) {
		t.Error("zero duration should give the zero sample")
	}
}

// TestAverageSpeedWeightingLaw verifies that merging a k-sample average with an
// m-sample average equals building one directly from all k+m samples.
func TestAverageSpeedWeightingLaw(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("merge(k, m) == direct(k+m)", prop.ForAll(
		func(left, right []int) bool {
			merged := averageOf(left)
			merged.Merge(averageOf(right))
			direct := averageOf(append(append([]int{}, left...), right...))

			return merged.Samples() == direct.Samples() &&
				almostEqual(merged.Average().BytesPerSec, direct.Average().BytesPerSec) &&
				almostEqual(merged.Average().MegaBytesPerMin, direct.Average().MegaBytesPerMin)
		},
		gen.SliceOf(gen.IntRange(0, 1<<20)),
		gen.SliceOf(gen.IntRange(0, 1<<20)),
	))

	properties.Property("merge is associative", prop.ForAll(
		func(a, b, c []int) bool {
			left := averageOf(a)
			left.Merge(averageOf(b))
			left.Merge(averageOf(c))

			bc := averageOf(b)
			bc.Merge(averageOf(c))
			right := averageOf(a)
			right.Merge(bc)

			return left.Samples() == right.Samples() &&
				almostEqual(left.Average().BytesPerSec, right.Average().BytesPerSec)
		},
		gen.SliceOf(gen.IntRange(0, 10000)),
		gen.SliceOf(gen.IntRange(0, 10000)),
		gen.SliceOf(gen.IntRange(0, 10000)),
	))

	properties.TestingRun(t)
}
