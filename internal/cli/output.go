// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* and Print* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayQuietResult], [DisplayProgress], [PrintExecutionConfig].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.
//     Examples: [WriteReportToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/copyqueue/internal/results"
	"github.com/agbru/copyqueue/internal/stats"
	"github.com/agbru/copyqueue/internal/ui"
)

// WriteReportToFile writes a plain-text report of a finished run: one
// section per job with its counters, status and log lines, followed by the
// aggregate totals.
//
// Parameters:
//   - path: The destination file. Missing parent directories are created.
//   - set: The run's result set.
//   - elapsed: The run's duration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteReportToFile(path string, set *results.Set, elapsed time.Duration) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := writeReport(file, set, elapsed); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return file.Close()
}

func writeReport(w io.Writer, set *results.Set, elapsed time.Duration) error {
	ew := &errWriter{w: w}
	fmt.Fprintf(ew, "# copyqueue run report\n")
	fmt.Fprintf(ew, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(ew, "# Jobs: %d\n", set.Len())
	fmt.Fprintf(ew, "# Elapsed: %s\n", elapsed)
	fmt.Fprintf(ew, "# Status: %s\n", set.Status())

	for _, s := range set.Snapshots() {
		fmt.Fprintf(ew, "\n[%s]\n", s.JobName())
		fmt.Fprintf(ew, "status = %s\n", s.Status())
		for _, kind := range stats.Kinds {
			fmt.Fprintf(ew, "%s\n", s.Tally(kind))
		}
		fmt.Fprintf(ew, "speed = %.0f B/s\n", s.Speed().BytesPerSec)
		for _, line := range s.LogLines() {
			fmt.Fprintf(ew, "log: %s\n", line)
		}
	}

	fmt.Fprintf(ew, "\n[totals]\n")
	for _, kind := range stats.Kinds {
		fmt.Fprintf(ew, "%s\n", set.Counter(kind).Tally())
	}
	fmt.Fprintf(ew, "speed = %.0f B/s\n", set.Speed().BytesPerSec)
	return ew.err
}

// errWriter remembers the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// FormatQuietResult renders the one-line summary printed in quiet mode.
func FormatQuietResult(status stats.CombinedStatus, filesCopied int64, elapsed time.Duration) string {
	return fmt.Sprintf("%s %d %s", status, filesCopied, elapsed.Round(time.Millisecond))
}

// DisplayQuietResult outputs the quiet-mode summary line.
func DisplayQuietResult(out io.Writer, set *results.Set, elapsed time.Duration) {
	fmt.Fprintln(out, FormatQuietResult(set.Status(), set.Files().Values().Copied, elapsed))
}

// DisplayReportSaved confirms that a report was written.
func DisplayReportSaved(out io.Writer, path string) {
	fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
		ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
}
