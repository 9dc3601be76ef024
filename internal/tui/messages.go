package tui

import (
	"time"

	"github.com/agbru/copyqueue/internal/progress"
	"github.com/agbru/copyqueue/internal/results"
	"github.com/agbru/copyqueue/internal/stats"
)

// ProgressMsg carries coalesced progress totals of the active run.
type ProgressMsg struct {
	Totals  progress.Totals
	Elapsed time.Duration
}

// ProgressDoneMsg signals that the progress feed published its final totals.
type ProgressDoneMsg struct{}

// JobStartedMsg reports that a job was started.
type JobStartedMsg struct {
	Name string
}

// JobCompletedMsg reports a job's final status.
type JobCompletedMsg struct {
	Name   string
	Status stats.ExitStatus
	Files  stats.Values
}

// JobFaultMsg reports a job that faulted.
type JobFaultMsg struct {
	Name string
	Err  error
}

// JobTableMsg carries every snapshot of a finished run.
type JobTableMsg struct {
	Snapshots []*results.Snapshot
}

// SummaryMsg carries the aggregate outcome of a finished run.
type SummaryMsg struct {
	Status  stats.CombinedStatus
	Speed   stats.SpeedSample
	Elapsed time.Duration
}

// ErrorMsg reports a run-level error.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// RunCompleteMsg signals the end of a run and its exit code.
type RunCompleteMsg struct {
	ExitCode int
}

// ContextCancelledMsg signals that the parent context was cancelled.
type ContextCancelledMsg struct {
	Err error
}

// TickMsg refreshes the elapsed timer.
type TickMsg time.Time
