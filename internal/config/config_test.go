package config

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	apperrors "github.com/agbru/copyqueue/internal/errors"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig("copyqueue", nil, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jobs != DefaultJobs {
		t.Errorf("Jobs = %d, want %d", cfg.Jobs, DefaultJobs)
	}
	if cfg.MaxConcurrent != DefaultMaxConcurrent {
		t.Errorf("MaxConcurrent = %d, want %d", cfg.MaxConcurrent, DefaultMaxConcurrent)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %s, want %s", cfg.Timeout, DefaultTimeout)
	}
	if cfg.TUI || cfg.Quiet || cfg.Verbose {
		t.Error("boolean flags should default to false")
	}
}

func TestParseConfigFlags(t *testing.T) {
	args := []string{
		"-j", "7", "--max-concurrent", "0", "--files", "12",
		"--file-delay", "1ms", "--fail-rate", "0.25", "--seed", "99",
		"--only", "job-1,job-2", "--fault", "job-2", "-q", "--metrics-addr", ":9100",
		"-o", "out/report.txt", "--theme", "light",
	}
	cfg, err := ParseConfig("copyqueue", args, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := AppConfig{
		Jobs:           7,
		Only:           "job-1,job-2",
		MaxConcurrent:  0,
		FilesPerJob:    12,
		FileDelay:      time.Millisecond,
		FailRate:       0.25,
		FaultJob:       "job-2",
		Seed:           99,
		ProgressPeriod: DefaultProgressPeriod,
		Timeout:        DefaultTimeout,
		Quiet:          true,
		MetricsAddr:    ":9100",
		OutputFile:     "out/report.txt",
		Theme:          "light",
	}
	if cfg != want {
		t.Errorf("ParseConfig() = %+v, want %+v", cfg, want)
	}
}

func TestParseConfigHelp(t *testing.T) {
	_, err := ParseConfig("copyqueue", []string{"--help"}, io.Discard)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
}

func TestParseConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero jobs", []string{"--jobs", "0"}},
		{"negative ceiling", []string{"--max-concurrent", "-1"}},
		{"negative files", []string{"--files", "-3"}},
		{"fail rate above one", []string{"--fail-rate", "1.5"}},
		{"zero timeout", []string{"--timeout", "0s"}},
		{"tui and quiet", []string{"--tui", "--quiet"}},
		{"positional argument", []string{"extra"}},
		{"unknown theme", []string{"--theme", "neon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("copyqueue", tt.args, io.Discard)
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("COPYQ_JOBS", "9")
	t.Setenv("COPYQ_MAX_CONCURRENT", "3")
	t.Setenv("COPYQ_FILE_DELAY", "2ms")
	t.Setenv("COPYQ_FAIL_RATE", "0.5")
	t.Setenv("COPYQ_VERBOSE", "yes")
	t.Setenv("COPYQ_METRICS_ADDR", "localhost:9000")
	t.Setenv("COPYQ_OUTPUT", "report.txt")
	t.Setenv("COPYQ_USER", "backup")
	t.Setenv("COPYQ_PASSWORD", "s3cret")
	t.Setenv("COPYQ_THEME", "none")

	cfg, err := ParseConfig("copyqueue", nil, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jobs != 9 || cfg.MaxConcurrent != 3 {
		t.Errorf("numeric overrides not applied: %+v", cfg)
	}
	if cfg.FileDelay != 2*time.Millisecond {
		t.Errorf("FileDelay = %s, want 2ms", cfg.FileDelay)
	}
	if cfg.FailRate != 0.5 {
		t.Errorf("FailRate = %g, want 0.5", cfg.FailRate)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be enabled by COPYQ_VERBOSE=yes")
	}
	if cfg.MetricsAddr != "localhost:9000" {
		t.Errorf("MetricsAddr = %q", cfg.MetricsAddr)
	}
	if cfg.OutputFile != "report.txt" {
		t.Errorf("OutputFile = %q", cfg.OutputFile)
	}
	if cfg.User != "backup" || cfg.Password != "s3cret" {
		t.Errorf("credential overrides not applied: user=%q", cfg.User)
	}
	if cfg.Theme != "none" {
		t.Errorf("Theme = %q, want none", cfg.Theme)
	}
}

func TestFlagsBeatEnv(t *testing.T) {
	t.Setenv("COPYQ_JOBS", "9")
	t.Setenv("COPYQ_QUIET", "true")

	cfg, err := ParseConfig("copyqueue", []string{"-j", "2", "-q=false"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jobs != 2 {
		t.Errorf("Jobs = %d, the short flag should beat the environment", cfg.Jobs)
	}
	if cfg.Quiet {
		t.Error("Quiet should stay false when -q=false is given")
	}
}

func TestInvalidEnvIsIgnored(t *testing.T) {
	t.Setenv("COPYQ_JOBS", "many")
	t.Setenv("COPYQ_TUI", "maybe")

	cfg, err := ParseConfig("copyqueue", nil, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jobs != DefaultJobs {
		t.Errorf("Jobs = %d, want default %d", cfg.Jobs, DefaultJobs)
	}
	if cfg.TUI {
		t.Error("an unrecognized boolean should keep the default")
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"TRUE", false, true},
		{"1", false, true},
		{"no", true, false},
		{"0", true, false},
		{"perhaps", true, true},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}
