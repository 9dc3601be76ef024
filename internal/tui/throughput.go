package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/copyqueue/internal/format"
	"github.com/agbru/copyqueue/internal/progress"
)

// sparkBlocks maps levels 0..7 to Unicode block elements.
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sampleWindow is the number of throughput samples kept for the chart.
const sampleWindow = 120

// RingBuffer keeps the most recent float64 samples in a fixed capacity.
type RingBuffer struct {
	data  []float64
	head  int
	count int
}

// NewRingBuffer creates a ring buffer holding at least one sample.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{data: make([]float64, max(capacity, 1))}
}

// Push appends v, dropping the oldest sample when full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	r.count = min(r.count+1, len(r.data))
}

// Len returns the number of stored samples.
func (r *RingBuffer) Len() int { return r.count }

// Cap returns the capacity.
func (r *RingBuffer) Cap() int { return len(r.data) }

// Last returns the newest sample, or 0 when empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.data[(r.head-1+len(r.data))%len(r.data)]
}

// Peak returns the largest stored sample, or 0 when empty.
func (r *RingBuffer) Peak() float64 {
	peak := 0.0
	for _, v := range r.Slice() {
		peak = max(peak, v)
	}
	return peak
}

// Slice returns the samples oldest first.
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	start := (r.head - r.count + len(r.data)) % len(r.data)
	for i := range out {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// Reset drops every sample.
func (r *RingBuffer) Reset() {
	r.head = 0
	r.count = 0
}

// Normalize scales values to 0..100 against peak. A non-positive peak
// yields all zeros.
func Normalize(values []float64, peak float64) []float64 {
	out := make([]float64, len(values))
	if peak <= 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / peak * 100
	}
	return out
}

// RenderSparkline draws values in 0..100 as one line of block elements.
// Out-of-range values are clamped.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	for _, v := range values {
		v = min(max(v, 0), 100)
		b.WriteRune(sparkBlocks[min(int(v/100*7), 7)])
	}
	return b.String()
}

// ThroughputModel turns successive progress totals into a bytes-per-second
// history and renders it as a sparkline.
type ThroughputModel struct {
	samples     *RingBuffer
	lastBytes   int64
	lastElapsed time.Duration
	width       int
}

// NewThroughputModel creates an empty throughput panel.
func NewThroughputModel() ThroughputModel {
	return ThroughputModel{samples: NewRingBuffer(sampleWindow)}
}

// Observe records the copy rate since the previous observation. Updates that
// do not advance the clock are ignored.
func (m *ThroughputModel) Observe(t progress.Totals, elapsed time.Duration) {
	dt := elapsed - m.lastElapsed
	if dt <= 0 {
		return
	}
	rate := float64(t.Bytes.Copied-m.lastBytes) / dt.Seconds()
	m.samples.Push(max(rate, 0))
	m.lastBytes = t.Bytes.Copied
	m.lastElapsed = elapsed
}

// Rate returns the latest sampled rate in bytes per second.
func (m ThroughputModel) Rate() float64 { return m.samples.Last() }

// SetWidth updates the available width.
func (m *ThroughputModel) SetWidth(w int) { m.width = w }

// View renders the current rate and the history, newest on the right.
func (m ThroughputModel) View() string {
	label := fmt.Sprintf("%s %s  %s %s",
		metricLabelStyle.Render("now"), metricValueStyle.Render(format.FormatRate(m.Rate())),
		metricLabelStyle.Render("peak"), metricValueStyle.Render(format.FormatRate(m.samples.Peak())))

	values := m.samples.Slice()
	if w := m.width - 4; w > 0 && len(values) > w {
		values = values[len(values)-w:]
	}
	spark := RenderSparkline(Normalize(values, m.samples.Peak()))
	if spark == "" {
		spark = chartEmptyStyle.Render("waiting for data")
	} else {
		spark = chartBarStyle.Render(spark)
	}
	return label + "\n" + spark
}
