package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/agbru/copyqueue/internal/cli"
	apperrors "github.com/agbru/copyqueue/internal/errors"
	"github.com/agbru/copyqueue/internal/orchestration"
)

// runQueue runs every member of o with terminal output and returns the exit
// code of the run.
func (a *Application) runQueue(ctx context.Context, o *orchestration.Orchestrator, out io.Writer) int {
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(o.Jobs(), out)
	}

	// Choose progress reporter based on quiet mode
	var reporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		reporter = orchestration.NullProgressReporter{}
	} else {
		reporter = cli.CLIProgressReporter{ExpectedFiles: int64(o.Len()) * int64(a.Config.FilesPerJob)}
	}

	presenter := cli.CLIResultPresenter{Verbose: a.Config.Verbose}
	run, err := o.StartAll(ctx, a.Config.Credentials())
	if err != nil {
		return presenter.HandleError(err, 0, a.ErrWriter)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, run, progressOut)

	// Cancelling ctx stops the run, so it always drains.
	set, _ := run.Wait(context.Background())
	wg.Wait()
	elapsed := run.Elapsed()

	var code int
	if a.Config.Quiet {
		cli.DisplayQuietResult(out, set, elapsed)
		code = orchestration.ExitCodeForStatus(set.Status())
	} else {
		code = orchestration.AnalyzeRunResults(set, elapsed, presenter, out)
	}

	if err := ctx.Err(); errors.Is(err, context.DeadlineExceeded) {
		code = presenter.HandleError(err, elapsed, a.ErrWriter)
	}

	if a.Config.OutputFile != "" {
		if err := cli.WriteReportToFile(a.Config.OutputFile, set, elapsed); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving report: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		if !a.Config.Quiet {
			cli.DisplayReportSaved(out, a.Config.OutputFile)
		}
	}
	return code
}
