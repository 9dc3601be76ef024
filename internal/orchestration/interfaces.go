package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/copyqueue/internal/results"
)

// ProgressReporter defines the interface for displaying run progress.
// This interface decouples the orchestration layer from the presentation layer:
// implementations handle the visual representation (spinners, dashboards)
// while the orchestration layer focuses on coordinating the jobs.
type ProgressReporter interface {
	// DisplayProgress shows progress for run until it is done. It should be
	// called in a separate goroutine and must call wg.Done when it returns.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - run: The run being displayed.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, run *Run, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, run *Run, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, run *Run, out io.Writer) {
	f(wg, run, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter. It waits
// for the run to finish without displaying anything. Useful for quiet mode or
// testing.
type NullProgressReporter struct{}

// DisplayProgress waits for the run without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, run *Run, _ io.Writer) {
	defer wg.Done()
	<-run.Done()
}

// ResultPresenter defines the interface for presenting run results. This
// allows different output formats without modifying the orchestration logic.
type ResultPresenter interface {
	// PresentJobTable displays one row per job snapshot.
	PresentJobTable(snaps []*results.Snapshot, out io.Writer)

	// PresentSummary displays the aggregate counters, speed and status.
	PresentSummary(set *results.Set, elapsed time.Duration, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler handles run errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
