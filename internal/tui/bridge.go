package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/copyqueue/internal/cli"
	apperrors "github.com/agbru/copyqueue/internal/errors"
	"github.com/agbru/copyqueue/internal/format"
	"github.com/agbru/copyqueue/internal/job"
	"github.com/agbru/copyqueue/internal/orchestration"
	"github.com/agbru/copyqueue/internal/progress"
	"github.com/agbru/copyqueue/internal/results"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
// Orchestrator and job events are raised on worker goroutines; they reach
// the model only through here, so every model mutation happens in Update.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter.
// It forwards every coalesced progress publish as a ProgressMsg.
type TUIProgressReporter struct {
	ref *programRef
}

// Verify interface compliance.
var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress forwards progress totals until the run and its progress
// feed are done.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, run *orchestration.Run, _ io.Writer) {
	defer wg.Done()

	unsubscribe := run.Progress().Subscribe(func(totals progress.Totals) {
		t.ref.Send(ProgressMsg{Totals: totals, Elapsed: run.Elapsed()})
	})
	<-run.Done()
	<-run.Progress().Done()
	unsubscribe()

	t.ref.Send(ProgressMsg{Totals: run.Progress().Totals(), Elapsed: run.Elapsed()})
	t.ref.Send(ProgressDoneMsg{})
}

// watchJobs forwards the orchestrator's job lifecycle events until the
// returned function is called.
func watchJobs(ref *programRef, o *orchestration.Orchestrator) (unsubscribe func()) {
	unsubs := []func(){
		o.OnJobStarted(func(j job.Job) {
			ref.Send(JobStartedMsg{Name: j.Name()})
		}),
		o.OnCompleted(func(ev job.Completed) {
			msg := JobCompletedMsg{Name: ev.JobName}
			if ev.Result != nil {
				msg.Status = ev.Result.Status()
				msg.Files = ev.Result.Files().Values
			}
			ref.Send(msg)
		}),
		o.OnFault(func(err *apperrors.JobFaultError) {
			ref.Send(JobFaultMsg{Name: err.Job, Err: err.Cause})
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// TUIResultPresenter implements orchestration.ResultPresenter.
// It sends result messages to the TUI instead of writing to stdout.
type TUIResultPresenter struct {
	ref *programRef
}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter   = (*TUIResultPresenter)(nil)
	_ orchestration.DurationFormatter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler      = (*TUIResultPresenter)(nil)
)

// PresentJobTable sends the final snapshots to the TUI.
func (t *TUIResultPresenter) PresentJobTable(snaps []*results.Snapshot, _ io.Writer) {
	t.ref.Send(JobTableMsg{Snapshots: snaps})
}

// PresentSummary sends the aggregate outcome to the TUI.
func (t *TUIResultPresenter) PresentSummary(set *results.Set, elapsed time.Duration, _ io.Writer) {
	t.ref.Send(SummaryMsg{Status: set.Status(), Speed: set.Speed(), Elapsed: elapsed})
}

// FormatDuration delegates to the shared formatter.
func (t *TUIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError sends an error message to the TUI and returns the exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	t.ref.Send(ErrorMsg{Err: err, Duration: duration})
	return cli.HandleRunError(err, duration, io.Discard)
}
