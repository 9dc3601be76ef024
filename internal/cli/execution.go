package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/copyqueue/internal/config"
	"github.com/agbru/copyqueue/internal/job"
	"github.com/agbru/copyqueue/internal/ui"
)

// PrintExecutionConfig displays the current execution configuration to the user.
// It shows the job count, the concurrency ceiling, the timeout and the
// environment.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	ceiling := "unlimited"
	if cfg.MaxConcurrent > 0 {
		ceiling = fmt.Sprintf("%d", cfg.MaxConcurrent)
	}
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Queueing %s%d%s jobs of %s%d%s files with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.Jobs, ui.ColorReset(),
		ui.ColorMagenta(), cfg.FilesPerJob, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Concurrency ceiling: %s%s%s. Seed: %s%d%s.\n",
		ui.ColorCyan(), ceiling, ui.ColorReset(), ui.ColorCyan(), cfg.Seed, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
}

// PrintExecutionMode lists the jobs about to run.
//
// Parameters:
//   - jobs: The jobs that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(jobs []job.Job, out io.Writer) {
	switch len(jobs) {
	case 0:
		fmt.Fprintf(out, "Execution mode: nothing to run.\n")
	case 1:
		fmt.Fprintf(out, "Execution mode: single job %s%s%s.\n", ui.ColorGreen(), jobs[0].Name(), ui.ColorReset())
	default:
		fmt.Fprintf(out, "Execution mode: queue of %d jobs:", len(jobs))
		for _, j := range jobs {
			fmt.Fprintf(out, " %s%s%s", ui.ColorGreen(), j.Name(), ui.ColorReset())
		}
		fmt.Fprintln(out, ".")
	}
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
