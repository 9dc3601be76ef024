package orchestration

import (
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/copyqueue/internal/errors"
	"github.com/agbru/copyqueue/internal/results"
	"github.com/agbru/copyqueue/internal/stats"
)

// ExitCodeForStatus maps a combined run status to a process exit code.
// Cancellation wins over failures, and warnings (extra or mismatched items)
// still count as success.
func ExitCodeForStatus(status stats.CombinedStatus) int {
	switch {
	case status.AnyCancelled():
		return apperrors.ExitErrorCanceled
	case status.HasErrors():
		return apperrors.ExitErrorCopyFailures
	default:
		return apperrors.ExitSuccess
	}
}

// AnalyzeRunResults presents the per-job table and the aggregate summary of a
// finished run and returns the exit code it implies.
//
// Parameters:
//   - set: The run's result set.
//   - elapsed: The run's wall-clock duration.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeRunResults(set *results.Set, elapsed time.Duration, presenter ResultPresenter, out io.Writer) int {
	presenter.PresentJobTable(set.Snapshots(), out)
	presenter.PresentSummary(set, elapsed, out)

	status := set.Status()
	switch {
	case set.Len() == 0:
		fmt.Fprintf(out, "\nGlobal Status: Nothing to do. No job was configured.\n")
	case status.AnyCancelled():
		fmt.Fprintf(out, "\nGlobal Status: Cancelled. Some jobs did not run to completion.\n")
	case status.HasErrors():
		fmt.Fprintf(out, "\nGlobal Status: Failure. Some items could not be copied.\n")
	default:
		fmt.Fprintf(out, "\nGlobal Status: Success. All jobs completed.\n")
	}
	return ExitCodeForStatus(status)
}
