package stats

import "fmt"

// SpeedSample is one transfer-rate observation.
type SpeedSample struct {
	BytesPerSec     float64
	MegaBytesPerMin float64
}

// NewSpeedSample derives a sample from a byte count and elapsed seconds.
// A non-positive duration yields the zero sample.
func NewSpeedSample(bytes int64, seconds float64) SpeedSample {
	if seconds <= 0 {
		return SpeedSample{}
	}
	bps := float64(bytes) / seconds
	return SpeedSample{BytesPerSec: bps, MegaBytesPerMin: bps * 60 / (1 << 20)}
}

func (s SpeedSample) String() string {
	return fmt.Sprintf("%.1f B/s (%.2f MB/min)", s.BytesPerSec, s.MegaBytesPerMin)
}

// AverageSpeed is a running average kept as a divisor and summed numerators so
// that averages of unequal-sized groups can be merged without bias.
//
// The zero value is an empty average. AverageSpeed is not safe for concurrent
// mutation.
type AverageSpeed struct {
	samples         int64
	bytesPerSec     float64
	megaBytesPerMin float64
}

// AddSample folds one raw sample into the average.
func (a *AverageSpeed) AddSample(s SpeedSample) {
	a.samples++
	a.bytesPerSec += s.BytesPerSec
	a.megaBytesPerMin += s.MegaBytesPerMin
}

// RemoveSample reverses a previous AddSample. It returns false and leaves the
// average untouched when no samples remain.
func (a *AverageSpeed) RemoveSample(s SpeedSample) bool {
	if a.samples == 0 {
		return false
	}
	a.samples--
	a.bytesPerSec -= s.BytesPerSec
	a.megaBytesPerMin -= s.MegaBytesPerMin
	if a.samples == 0 {
		a.bytesPerSec, a.megaBytesPerMin = 0, 0
	}
	return true
}

// Merge folds another average in, summing divisors and numerators.
func (a *AverageSpeed) Merge(o AverageSpeed) {
	a.samples += o.samples
	a.bytesPerSec += o.bytesPerSec
	a.megaBytesPerMin += o.megaBytesPerMin
}

// Unmerge reverses a previous Merge of o. It returns false when o holds more
// samples than a.
func (a *AverageSpeed) Unmerge(o AverageSpeed) bool {
	if o.samples > a.samples {
		return false
	}
	a.samples -= o.samples
	a.bytesPerSec -= o.bytesPerSec
	a.megaBytesPerMin -= o.megaBytesPerMin
	if a.samples == 0 {
		a.bytesPerSec, a.megaBytesPerMin = 0, 0
	}
	return true
}

// AddAsSample folds o in as if its current average were a single raw sample,
// regardless of how many samples o holds.
func (a *AverageSpeed) AddAsSample(o AverageSpeed) {
	if o.samples == 0 {
		return
	}
	a.AddSample(o.Average())
}

// Average returns the current mean, or the zero sample when empty.
func (a AverageSpeed) Average() SpeedSample {
	if a.samples == 0 {
		return SpeedSample{}
	}
	n := float64(a.samples)
	return SpeedSample{BytesPerSec: a.bytesPerSec / n, MegaBytesPerMin: a.megaBytesPerMin / n}
}

// Samples returns the divisor.
func (a AverageSpeed) Samples() int64 { return a.samples }

// Reset empties the average.
func (a *AverageSpeed) Reset() { *a = AverageSpeed{} }
