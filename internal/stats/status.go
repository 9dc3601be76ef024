package stats

import "strings"

// ExitStatus is the bit-flag result of one copy job. Negative values are
// reserved for cancellation.
type ExitStatus int

const (
	// NoChange means nothing needed copying.
	NoChange ExitStatus = 0
	// FilesCopied means at least one file was copied.
	FilesCopied ExitStatus = 1
	// ExtraFiles means the destination holds items absent from the source.
	ExtraFiles ExitStatus = 2
	// MismatchedItems means some items differ in type between source and destination.
	MismatchedItems ExitStatus = 4
	// CopyErrors means some items could not be copied.
	CopyErrors ExitStatus = 8
	// SeriousError means the job could not run to completion.
	SeriousError ExitStatus = 16
	// Cancelled marks a job that was stopped or never started.
	Cancelled ExitStatus = -1
)

const errorBits = CopyErrors | SeriousError

// WasCancelled reports whether s encodes a cancellation.
func (s ExitStatus) WasCancelled() bool { return s < 0 }

// HasErrors reports whether s carries a failure bit.
func (s ExitStatus) HasErrors() bool { return s >= 0 && s&errorBits != 0 }

// HasWarnings reports whether s carries a mismatch or extra-files bit.
func (s ExitStatus) HasWarnings() bool { return s >= 0 && s&(MismatchedItems|ExtraFiles) != 0 }

// Successful reports whether the job finished without cancellation or errors.
func (s ExitStatus) Successful() bool { return s >= 0 && s&errorBits == 0 }

func (s ExitStatus) String() string {
	if s.WasCancelled() {
		return "cancelled"
	}
	if s == NoChange {
		return "no-change"
	}
	var parts []string
	for _, f := range []struct {
		bit  ExitStatus
		name string
	}{
		{FilesCopied, "copied"},
		{ExtraFiles, "extra"},
		{MismatchedItems, "mismatch"},
		{CopyErrors, "errors"},
		{SeriousError, "serious"},
	} {
		if s&f.bit != 0 {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// CombinedStatus is the monotonic merge of many exit statuses. Flag bits are
// OR-ed together and cancellation is tracked separately, so merging cannot be
// undone; removing a member requires recomputing from the remaining ones.
type CombinedStatus struct {
	flags     ExitStatus
	cancelled bool
	count     int
}

// FromStatuses merges every status into a fresh CombinedStatus.
func FromStatuses(statuses ...ExitStatus) CombinedStatus {
	var c CombinedStatus
	for _, s := range statuses {
		c = c.Merge(s)
	}
	return c
}

// Merge returns c with s folded in.
func (c CombinedStatus) Merge(s ExitStatus) CombinedStatus {
	c.count++
	if s.WasCancelled() {
		c.cancelled = true
		return c
	}
	c.flags |= s
	return c
}

// Flags returns the OR of every non-cancelled status.
func (c CombinedStatus) Flags() ExitStatus { return c.flags }

// AnyCancelled reports whether any merged status was a cancellation.
func (c CombinedStatus) AnyCancelled() bool { return c.cancelled }

// Count returns the number of merged statuses.
func (c CombinedStatus) Count() int { return c.count }

// HasErrors reports whether any merged status carried a failure bit.
func (c CombinedStatus) HasErrors() bool { return c.flags.HasErrors() }

// Successful reports whether nothing was cancelled and no errors were merged.
func (c CombinedStatus) Successful() bool { return !c.cancelled && !c.flags.HasErrors() }

func (c CombinedStatus) String() string {
	s := c.flags.String()
	if c.cancelled {
		s += "+cancelled"
	}
	return s
}
