package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	apperrors "github.com/agbru/copyqueue/internal/errors"
	"github.com/agbru/copyqueue/internal/format"
	"github.com/agbru/copyqueue/internal/orchestration"
	"github.com/agbru/copyqueue/internal/results"
	"github.com/agbru/copyqueue/internal/stats"
	"github.com/agbru/copyqueue/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for CLI output.
// It wraps the DisplayProgress function to provide a spinner and progress bar
// display while the jobs run.
type CLIProgressReporter struct {
	// ExpectedFiles is the number of files the run should process.
	ExpectedFiles int64
}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for the running jobs.
func (r CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, run *orchestration.Run, out io.Writer) {
	DisplayProgress(wg, run, r.ExpectedFiles, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// It provides formatted, colorized output for run results in the
// command-line interface.
type CLIResultPresenter struct {
	// Verbose prints the log lines of every job after the tables.
	Verbose bool
}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// PresentJobTable displays one row per job with its status, file counts,
// copied bytes and duration. Uses manual padding to correctly handle ANSI
// color codes.
func (CLIResultPresenter) PresentJobTable(snaps []*results.Snapshot, out io.Writer) {
	fmt.Fprintf(out, "\n--- Job Summary ---\n")

	headers := []string{"Job", "Files", "Failed", "Copied", "Duration"}
	rows := make([][]string, len(snaps))
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for i, s := range snaps {
		files := s.Files().Values
		rows[i] = []string{
			s.JobName(),
			format.FormatNumber(files.Total),
			format.FormatNumber(files.Failed),
			format.FormatBytes(s.Bytes().Values.Copied),
			formatDuration(s.Duration()),
		}
		for j, cell := range rows[i] {
			widths[j] = max(widths[j], len([]rune(cell)))
		}
	}

	var b strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&b, "%s%s%s%s   ", ui.ColorUnderline(), h, ui.ColorReset(), padRight("", widths[i]-len(h)))
	}
	fmt.Fprintf(out, "%s%sStatus%s\n", b.String(), ui.ColorUnderline(), ui.ColorReset())

	for i, row := range rows {
		b.Reset()
		for j, cell := range row {
			color := ""
			if j == 0 {
				color = ui.ColorBlue()
			}
			fmt.Fprintf(&b, "%s%s%s%s   ", color, cell, ui.ColorReset(), padRight("", widths[j]-len([]rune(cell))))
		}
		fmt.Fprintf(out, "%s%s\n", b.String(), StatusLabel(snaps[i].Status()))
	}
}

// PresentSummary displays the aggregate counters per kind, the average speed
// and the combined status of the run.
func (p CLIResultPresenter) PresentSummary(set *results.Set, elapsed time.Duration, out io.Writer) {
	fmt.Fprintf(out, "\n--- Totals ---\n")
	fmt.Fprintf(out, "%-12s %10s %10s %10s %10s %10s %10s\n",
		"", "Total", "Copied", "Skipped", "Mismatch", "Failed", "Extras")
	for _, kind := range stats.Kinds {
		v := set.Counter(kind).Values()
		cell := format.FormatNumber
		if kind == stats.Bytes {
			cell = format.FormatBytes
		}
		fmt.Fprintf(out, "%-12s %10s %10s %10s %10s %10s %10s\n",
			kind, cell(v.Total), cell(v.Copied), cell(v.Skipped), cell(v.Mismatch), cell(v.Failed), cell(v.Extras))
	}

	speed := set.Speed()
	fmt.Fprintf(out, "\nAverage speed: %s%s%s (%.1f MB/min)\n",
		ui.ColorYellow(), format.FormatRate(speed.BytesPerSec), ui.ColorReset(), speed.MegaBytesPerMin)
	fmt.Fprintf(out, "Combined status: %s\n", set.Status())
	fmt.Fprintf(out, "Elapsed: %s%s%s\n", ui.ColorYellow(), formatDuration(elapsed), ui.ColorReset())

	if p.Verbose {
		for _, s := range set.Snapshots() {
			fmt.Fprintf(out, "\n%s--- Log: %s ---%s\n", ui.ColorBold(), s.JobName(), ui.ColorReset())
			for _, line := range s.LogLines() {
				fmt.Fprintf(out, "  %s\n", line)
			}
		}
	}
}

// StatusLabel renders an exit status with an icon and a color.
func StatusLabel(s stats.ExitStatus) string {
	switch {
	case s.WasCancelled():
		return fmt.Sprintf("%s⏹ Cancelled%s", ui.ColorYellow(), ui.ColorReset())
	case s.HasErrors():
		return fmt.Sprintf("%s❌ Failure (%s)%s", ui.ColorRed(), s, ui.ColorReset())
	case s.HasWarnings():
		return fmt.Sprintf("%s⚠ Warnings (%s)%s", ui.ColorYellow(), s, ui.ColorReset())
	default:
		return fmt.Sprintf("%s✅ Success (%s)%s", ui.ColorGreen(), s, ui.ColorReset())
	}
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + strings.Repeat(" ", length)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return format.FormatExecutionDuration(d)
}

// FormatDuration formats a duration for display using the CLI's standard
// duration formatting.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError reports a run-level error and returns the matching exit code.
// A nil error maps to success.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return HandleRunError(err, duration, out)
}

// HandleRunError prints a message for err and maps it to an exit code.
func HandleRunError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	var cfgErr apperrors.ConfigError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sRun timed out after %s.%s\n", ui.ColorRed(), formatDuration(duration), ui.ColorReset())
		return apperrors.ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sRun cancelled after %s.%s\n", ui.ColorYellow(), formatDuration(duration), ui.ColorReset())
		return apperrors.ExitErrorCanceled
	case errors.As(err, &cfgErr):
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorConfig
	default:
		fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
}
