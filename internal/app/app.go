package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/copyqueue/internal/config"
	apperrors "github.com/agbru/copyqueue/internal/errors"
	"github.com/agbru/copyqueue/internal/job"
	"github.com/agbru/copyqueue/internal/logging"
	"github.com/agbru/copyqueue/internal/metrics"
	"github.com/agbru/copyqueue/internal/orchestration"
	"github.com/agbru/copyqueue/internal/progress"
	"github.com/agbru/copyqueue/internal/server"
	"github.com/agbru/copyqueue/internal/simcopy"
	"github.com/agbru/copyqueue/internal/tui"
	"github.com/agbru/copyqueue/internal/ui"
)

// JobFactory builds the job at position index (zero-based) of the queue.
type JobFactory func(name string, index int, cfg config.AppConfig, logger logging.Logger) job.Job

// Application represents the copyqueue application instance.
type Application struct {
	Config    config.AppConfig
	Factory   JobFactory
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom JobFactory for the application.
func WithFactory(f JobFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// New creates a new Application instance by parsing command-line arguments.
// args includes the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = SimulatedJob
	}

	programName := "copyqueue"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// SimulatedJob is the default JobFactory. Every job gets its own seed, and
// the job named by cfg.FaultJob crashes halfway through.
func SimulatedJob(name string, index int, cfg config.AppConfig, logger logging.Logger) job.Job {
	opts := []simcopy.Option{
		simcopy.WithFiles(cfg.FilesPerJob, max(cfg.FilesPerJob/40, 1)),
		simcopy.WithFileDelay(cfg.FileDelay),
		simcopy.WithSeed(cfg.Seed + uint64(index)),
		simcopy.WithFailRate(cfg.FailRate),
		simcopy.WithLogger(logger),
	}
	if name == cfg.FaultJob {
		opts = append(opts, simcopy.WithFaultAfter(cfg.FilesPerJob/2))
	}
	return simcopy.New(name, opts...)
}

// JobName returns the name of the job at position index (zero-based).
func JobName(index int) string {
	return fmt.Sprintf("job-%d", index+1)
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor, a.Config.Theme)
	logger := a.newLogger()

	jobs, err := a.buildJobs(logger)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var recorder metrics.Recorder = metrics.Nop{}
	var prom *metrics.Prometheus
	if a.Config.MetricsAddr != "" {
		prom = metrics.NewPrometheus()
		recorder = prom
	}

	o := orchestration.New(jobs,
		orchestration.WithName("copyqueue"),
		orchestration.WithMaxConcurrentJobs(a.Config.MaxConcurrent),
		orchestration.WithLogger(logger),
		orchestration.WithMetrics(recorder),
		orchestration.WithProgressOptions(progress.WithPeriod(a.Config.ProgressPeriod)),
	)

	serveCtx, stopServing := context.WithCancel(ctx)
	var g errgroup.Group
	if prom != nil {
		srv := server.New(a.Config.MetricsAddr, prom, logger, server.WithHealth(healthReport(o)))
		g.Go(func() error { return srv.ListenAndServe(serveCtx) })
	}

	var code int
	if a.Config.TUI {
		code = tui.Run(ctx, o, a.Config, Version)
	} else {
		code = a.runQueue(ctx, o, out)
	}

	stopServing()
	if err := g.Wait(); err != nil {
		logger.Error("metrics server stopped", err)
	}
	return code
}

// newLogger returns the structured logger of the run. The dashboard owns the
// terminal, so nothing is logged in TUI mode.
func (a *Application) newLogger() logging.Logger {
	switch {
	case a.Config.TUI:
		return logging.NewNopLogger()
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	return logging.NewLogger(a.ErrWriter, "copyqueue")
}

// buildJobs creates the configured jobs and applies the --only selection.
func (a *Application) buildJobs(logger logging.Logger) ([]job.Job, error) {
	all := make([]job.Job, a.Config.Jobs)
	found := a.Config.FaultJob == ""
	for i := range all {
		name := JobName(i)
		all[i] = a.Factory(name, i, a.Config, logger)
		found = found || name == a.Config.FaultJob
	}
	if !found {
		return nil, apperrors.NewConfigError("--fault names unknown job %q", a.Config.FaultJob)
	}
	return orchestration.SelectJobs(all, a.Config.Only)
}

// healthReport samples the orchestrator for /healthz.
func healthReport(o *orchestration.Orchestrator) func() server.HealthReport {
	return func() server.HealthReport {
		return server.HealthReport{
			State:         o.State().String(),
			ActiveJobs:    o.ActiveJobs(),
			JobsStarted:   o.JobsStarted(),
			JobsCompleted: o.JobsCompleted(),
		}
	}
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
