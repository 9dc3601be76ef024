package stats

import "fmt"

// Kind tags a tally with the quantity it counts.
type Kind int

const (
	Directories Kind = iota
	Files
	Bytes
)

// Kinds lists every kind in display order.
var Kinds = [...]Kind{Directories, Files, Bytes}

func (k Kind) String() string {
	switch k {
	case Directories:
		return "directories"
	case Files:
		return "files"
	case Bytes:
		return "bytes"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the already-classified result of processing one item.
type Outcome int

const (
	Copied Outcome = iota
	Skipped
	Mismatch
	Failed
	Extra
)

func (o Outcome) String() string {
	switch o {
	case Copied:
		return "copied"
	case Skipped:
		return "skipped"
	case Mismatch:
		return "mismatch"
	case Failed:
		return "failed"
	case Extra:
		return "extra"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Values is the six-field body of a tally.
type Values struct {
	Total    int64
	Copied   int64
	Skipped  int64
	Mismatch int64
	Failed   int64
	Extras   int64
}

// Add returns the field-wise sum of v and o.
func (v Values) Add(o Values) Values {
	return Values{
		Total:    v.Total + o.Total,
		Copied:   v.Copied + o.Copied,
		Skipped:  v.Skipped + o.Skipped,
		Mismatch: v.Mismatch + o.Mismatch,
		Failed:   v.Failed + o.Failed,
		Extras:   v.Extras + o.Extras,
	}
}

// Sub returns the field-wise difference v - o.
func (v Values) Sub(o Values) Values {
	return Values{
		Total:    v.Total - o.Total,
		Copied:   v.Copied - o.Copied,
		Skipped:  v.Skipped - o.Skipped,
		Mismatch: v.Mismatch - o.Mismatch,
		Failed:   v.Failed - o.Failed,
		Extras:   v.Extras - o.Extras,
	}
}

// IsZero reports whether every field is zero.
func (v Values) IsZero() bool { return v == Values{} }

// HasNegative reports whether any field is below zero.
func (v Values) HasNegative() bool {
	return v.Total < 0 || v.Copied < 0 || v.Skipped < 0 ||
		v.Mismatch < 0 || v.Failed < 0 || v.Extras < 0
}

// WithOutcome returns v with n added to Total and to the field matching o.
func (v Values) WithOutcome(o Outcome, n int64) Values {
	v.Total += n
	switch o {
	case Copied:
		v.Copied += n
	case Skipped:
		v.Skipped += n
	case Mismatch:
		v.Mismatch += n
	case Failed:
		v.Failed += n
	case Extra:
		v.Extras += n
	}
	return v
}

// Tally is an immutable kind-tagged set of values, the unit exchanged between
// snapshots and counters.
type Tally struct {
	Kind   Kind
	Values Values
}

// NewTally builds a Tally.
func NewTally(kind Kind, v Values) Tally { return Tally{Kind: kind, Values: v} }

func (t Tally) String() string {
	v := t.Values
	return fmt.Sprintf("%s{total=%d copied=%d skipped=%d mismatch=%d failed=%d extras=%d}",
		t.Kind, v.Total, v.Copied, v.Skipped, v.Mismatch, v.Failed, v.Extras)
}
