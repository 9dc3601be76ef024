package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/copyqueue/internal/errors"
	"github.com/agbru/copyqueue/internal/job"
	"github.com/agbru/copyqueue/internal/ui"
)

// EnvPrefix is the prefix of every environment variable read by ParseConfig.
const EnvPrefix = "COPYQ_"

// Default configuration values.
const (
	DefaultJobs           = 4
	DefaultMaxConcurrent  = 2
	DefaultFilesPerJob    = 200
	DefaultFileDelay      = 5 * time.Millisecond
	DefaultProgressPeriod = 250 * time.Millisecond
	DefaultTimeout        = 10 * time.Minute
	DefaultSeed           = 1
)

// AppConfig aggregates the application's configuration parameters, parsed
// from command-line flags and environment variables.
type AppConfig struct {
	// Jobs is the number of simulated copy jobs to queue.
	Jobs int
	// Only restricts the run to a comma-separated list of job names.
	Only string
	// MaxConcurrent is the concurrency ceiling; zero means unlimited.
	MaxConcurrent int
	// FilesPerJob is the number of files each simulated job copies.
	FilesPerJob int
	// FileDelay is the time each simulated job spends per file.
	FileDelay time.Duration
	// FailRate is the probability that a simulated file fails to copy.
	FailRate float64
	// FaultJob names a job that crashes halfway through, for demos.
	FaultJob string
	// Seed makes the simulated trees and outcomes reproducible.
	Seed uint64
	// ProgressPeriod is the minimum interval between progress publishes.
	ProgressPeriod time.Duration
	// Timeout is the maximum duration of the whole run.
	Timeout time.Duration
	// TUI enables the interactive dashboard.
	TUI bool
	// Quiet suppresses progress and the per-job table.
	Quiet bool
	// Verbose prints the log lines of every job after the run.
	Verbose bool
	// NoColor disables colored output.
	NoColor bool
	// Theme names the color theme (see ui.ThemeNames).
	Theme string
	// MetricsAddr, when set, serves Prometheus metrics on that address.
	MetricsAddr string
	// OutputFile, when set, receives a plain-text report of the run.
	OutputFile string
	// User and Domain identify the account the jobs run as.
	User   string
	Domain string
	// Password is only read from the environment.
	Password string
}

// Validate checks the configuration for semantic errors.
//
// Returns:
//   - error: A ConfigError describing the first invalid value, or nil.
func (c AppConfig) Validate() error {
	switch {
	case c.Jobs < 1:
		return apperrors.NewConfigError("--jobs must be at least 1, got %d", c.Jobs)
	case c.MaxConcurrent < 0:
		return apperrors.NewConfigError("--max-concurrent must not be negative, got %d", c.MaxConcurrent)
	case c.FilesPerJob < 0:
		return apperrors.NewConfigError("--files must not be negative, got %d", c.FilesPerJob)
	case c.FileDelay < 0:
		return apperrors.NewConfigError("--file-delay must not be negative, got %s", c.FileDelay)
	case c.FailRate < 0 || c.FailRate > 1:
		return apperrors.NewConfigError("--fail-rate must be between 0 and 1, got %g", c.FailRate)
	case c.ProgressPeriod < 0:
		return apperrors.NewConfigError("--progress-period must not be negative, got %s", c.ProgressPeriod)
	case c.Timeout <= 0:
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	case c.TUI && c.Quiet:
		return apperrors.NewConfigError("--tui and --quiet are mutually exclusive")
	case c.Theme != "" && !ui.IsTheme(c.Theme):
		return apperrors.NewConfigError("unknown theme %q, want one of %s", c.Theme, strings.Join(ui.ThemeNames(), ", "))
	}
	return nil
}

// Credentials returns the account the jobs run as.
func (c AppConfig) Credentials() job.Credentials {
	return job.Credentials{Username: c.User, Domain: c.Domain, Password: c.Password}
}

// ParseConfig parses the command-line arguments, applies environment
// overrides for flags that were not set explicitly and validates the result.
//
// Parameters:
//   - programName: The name shown in the usage message.
//   - args: The arguments, without the program name.
//   - errWriter: The destination of usage and parse errors.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp for --help, or a ConfigError.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags]\n\n", programName)
		fmt.Fprintf(errWriter, "Runs a queue of copy jobs under a concurrency ceiling.\n")
		fmt.Fprintf(errWriter, "Every flag can also be set through a %s environment variable.\n\n", EnvPrefix)
		fs.PrintDefaults()
	}

	config := AppConfig{}
	fs.IntVar(&config.Jobs, "jobs", DefaultJobs, "Number of simulated copy jobs.")
	fs.IntVar(&config.Jobs, "j", DefaultJobs, "Shorthand for --jobs.")
	fs.StringVar(&config.Only, "only", "", "Comma-separated job names to run (default: all).")
	fs.IntVar(&config.MaxConcurrent, "max-concurrent", DefaultMaxConcurrent, "Maximum number of jobs running at once (0 = unlimited).")
	fs.IntVar(&config.FilesPerJob, "files", DefaultFilesPerJob, "Number of files per job.")
	fs.DurationVar(&config.FileDelay, "file-delay", DefaultFileDelay, "Simulated time spent per file.")
	fs.Float64Var(&config.FailRate, "fail-rate", 0, "Probability that a file fails to copy (0-1).")
	fs.StringVar(&config.FaultJob, "fault", "", "Name of a job that crashes halfway through.")
	fs.Uint64Var(&config.Seed, "seed", DefaultSeed, "Seed of the simulated trees.")
	fs.DurationVar(&config.ProgressPeriod, "progress-period", DefaultProgressPeriod, "Minimum interval between progress updates.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of the run.")
	fs.BoolVar(&config.TUI, "tui", false, "Show the interactive dashboard.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Only print the final status.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print every job's log after the run.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.Theme, "theme", ui.ThemeDark, fmt.Sprintf("Color theme (%s).", strings.Join(ui.ThemeNames(), ", ")))
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090).")
	fs.StringVar(&config.OutputFile, "output", "", "Write a run report to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for --output.")
	fs.StringVar(&config.User, "user", "", "Account the jobs run as.")
	fs.StringVar(&config.Domain, "domain", "", "Domain of the account.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected argument %q", fs.Arg(0))
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}
