package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/copyqueue/internal/config"
	apperrors "github.com/agbru/copyqueue/internal/errors"
	"github.com/agbru/copyqueue/internal/format"
	"github.com/agbru/copyqueue/internal/job"
	"github.com/agbru/copyqueue/internal/orchestration"
	"github.com/agbru/copyqueue/internal/progress"
)

// Layout constants for the TUI dashboard.
const (
	headerHeight          = 1
	footerHeight          = 2
	minBodyHeight         = 4
	JobsPanelWidthPercent = 55
	TotalsPanelHeight     = 7
)

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx      context.Context
	cancel   context.CancelFunc
	done     bool
	exitCode int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) jobsWidth() int {
	return l.width * JobsPanelWidthPercent / 100
}

func (l LayoutManager) rightWidth() int {
	return l.width - l.jobsWidth()
}

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header     HeaderModel
	jobs       JobsModel
	throughput ThroughputModel
	footer     FooterModel
	keymap     KeyMap

	ExecutionState
	LayoutManager

	orchestrator  *orchestration.Orchestrator
	totals        progress.Totals
	expectedFiles int64
	creds         job.Credentials
	summary       *SummaryMsg
	paused        bool
	stopping      bool
	ref           *programRef
}

// NewModel creates a new TUI model for o. The run starts from Init.
func NewModel(parentCtx context.Context, o *orchestration.Orchestrator, cfg config.AppConfig, version string) Model {
	members := o.Jobs()
	names := make([]string, len(members))
	for i, j := range members {
		names[i] = j.Name()
	}

	ctx, cancel := context.WithCancel(parentCtx)
	keys := DefaultKeyMap()
	return Model{
		header:     NewHeaderModel(version),
		jobs:       NewJobsModel(names),
		throughput: NewThroughputModel(),
		footer:     NewFooterModel(keys),
		keymap:     keys,
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		orchestrator:  o,
		expectedFiles: int64(len(members)) * int64(cfg.FilesPerJob),
		creds:         cfg.Credentials(),
		ref:           &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRunCmd(m.ref, m.ctx, m.orchestrator, m.creds),
		watchContextCmd(m.ctx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		m.totals = msg.Totals
		m.throughput.Observe(msg.Totals, msg.Elapsed)
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case JobStartedMsg:
		m.jobs.SetStarted(msg.Name)
		return m, nil

	case JobCompletedMsg:
		m.jobs.SetCompleted(msg.Name, msg.Status, msg.Files)
		return m, nil

	case JobFaultMsg:
		m.jobs.SetFaulted(msg.Name, msg.Err)
		m.footer.SetMessage(fmt.Sprintf("job %s faulted: %v", msg.Name, msg.Err), true)
		return m, nil

	case JobTableMsg:
		m.jobs.Reconcile(msg.Snapshots)
		return m, nil

	case SummaryMsg:
		m.summary = &msg
		return m, nil

	case ErrorMsg:
		m.footer.SetMessage(fmt.Sprintf("run failed after %s: %v", format.FormatExecutionDuration(msg.Duration), msg.Err), true)
		m.header.SetPhase(phaseFailed)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()

	case RunCompleteMsg:
		m.done = true
		m.exitCode = msg.ExitCode
		if m.header.phase != phaseFailed {
			m.header.SetPhase(phaseDone)
		}
		if m.summary != nil {
			m.footer.SetMessage(fmt.Sprintf("finished: %s. Press q to exit.", m.summary.Status), !m.summary.Status.Successful())
		}
		return m, nil

	case ContextCancelledMsg:
		m.orchestrator.StopAll()
		switch {
		case m.done:
		case errors.Is(msg.Err, context.DeadlineExceeded):
			m.exitCode = apperrors.ExitErrorTimeout
		default:
			m.exitCode = apperrors.ExitErrorCanceled
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.done {
			m.orchestrator.StopAll()
			m.exitCode = apperrors.ExitErrorCanceled
		}
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		if m.done || m.stopping {
			return m, nil
		}
		if m.paused {
			m.orchestrator.ResumeAll()
			m.header.SetPhase(phaseRunning)
		} else {
			m.orchestrator.PauseAll()
			m.header.SetPhase(phasePaused)
		}
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Stop):
		if m.done || m.stopping {
			return m, nil
		}
		m.stopping = true
		m.paused = false
		m.orchestrator.StopAll()
		m.header.SetPhase(phaseStopping)
		m.footer.SetMessage("stopping all jobs...", false)
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.jobs.MoveUp()
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.jobs.MoveDown()
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		return m, nil
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	jobsPanel := renderPanel("Jobs", m.jobs.View(), m.jobsWidth(), m.bodyHeight())
	totalsPanel := renderPanel("Totals", m.totalsView(), m.rightWidth(), TotalsPanelHeight)
	chartPanel := renderPanel("Throughput", m.throughput.View(), m.rightWidth(), max(m.bodyHeight()-TotalsPanelHeight, 4))

	rightCol := lipgloss.JoinVertical(lipgloss.Left, totalsPanel, chartPanel)
	body := lipgloss.JoinHorizontal(lipgloss.Top, jobsPanel, rightCol)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

// totalsView renders the aggregate counters and the overall progress bar.
func (m Model) totalsView() string {
	queued, running, finished := m.jobs.Counts()
	files := m.totals.Files
	fraction := 0.0
	if m.expectedFiles > 0 {
		fraction = float64(files.Total) / float64(m.expectedFiles)
	}
	barWidth := max(m.rightWidth()-14, 10)

	lines := []string{
		fmt.Sprintf("%s %3.0f%%", chartBarStyle.Render(format.ProgressBar(fraction, barWidth)), min(fraction, 1)*100),
		fmt.Sprintf("%s %d  %s %d  %s %d",
			metricLabelStyle.Render("queued"), queued,
			metricLabelStyle.Render("running"), running,
			metricLabelStyle.Render("finished"), finished),
		fmt.Sprintf("%s %s  %s %s",
			metricLabelStyle.Render("files"), metricValueStyle.Render(format.FormatNumber(files.Total)),
			metricLabelStyle.Render("copied"), metricValueStyle.Render(format.FormatBytes(m.totals.Bytes.Copied))),
		fmt.Sprintf("%s %s  %s %s",
			metricLabelStyle.Render("failed"), failedStyle.Render(format.FormatNumber(files.Failed)),
			metricLabelStyle.Render("skipped"), metricValueStyle.Render(format.FormatNumber(files.Skipped))),
	}
	if m.summary != nil {
		lines = append(lines, fmt.Sprintf("%s %s", metricLabelStyle.Render("avg"), metricValueStyle.Render(format.FormatRate(m.summary.Speed.BytesPerSec))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderPanel draws content in a bordered box of the given outer size.
func renderPanel(title, content string, width, height int) string {
	inner := panelTitleStyle.Render(title) + "\n" + content
	return panelStyle.Width(max(width-2, 0)).Height(max(height-2, 0)).Render(inner)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.jobs.SetSize(m.jobsWidth()-4, m.bodyHeight()-3)
	m.throughput.SetWidth(m.rightWidth())
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, o *orchestration.Orchestrator, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, o, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	// Make sure no job outlives the program.
	o.StopAll()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startRunCmd returns a tea.Cmd that runs every member of o and reports the
// outcome through the bridge.
func startRunCmd(ref *programRef, ctx context.Context, o *orchestration.Orchestrator, creds job.Credentials) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref}
		presenter := &TUIResultPresenter{ref: ref}

		unwatch := watchJobs(ref, o)
		defer unwatch()

		start := time.Now()
		run, err := o.StartAll(ctx, creds)
		if err != nil {
			return RunCompleteMsg{ExitCode: presenter.HandleError(err, time.Since(start), io.Discard)}
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go reporter.DisplayProgress(&wg, run, io.Discard)

		set, _ := run.Wait(context.Background())
		wg.Wait()

		if err := ctx.Err(); errors.Is(err, context.DeadlineExceeded) {
			return RunCompleteMsg{ExitCode: presenter.HandleError(err, run.Elapsed(), io.Discard)}
		}
		return RunCompleteMsg{ExitCode: orchestration.AnalyzeRunResults(set, run.Elapsed(), presenter, io.Discard)}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
