package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the binary and checks its output and exit codes.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	tmpDir := t.TempDir()
	binName := "copyqueue"
	if runtime.GOOS == "windows" {
		binName = "copyqueue.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs in the package directory; build from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/copyqueue")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build copyqueue: %v", err)
	}

	reportPath := filepath.Join(tmpDir, "out", "report.txt")

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Default Run",
			args:     []string{"--jobs", "3", "--files", "20", "--file-delay", "0"},
			wantOut:  "Global Status: Success",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "copyqueue",
			wantCode: 0,
		},
		{
			name:     "Quiet Mode",
			args:     []string{"--quiet", "--jobs", "2", "--files", "5", "--file-delay", "0"},
			wantOut:  "copied 10",
			wantCode: 0,
		},
		{
			name:     "Unlimited Concurrency",
			args:     []string{"-q", "--jobs", "8", "--files", "5", "--file-delay", "1ms", "--max-concurrent", "0"},
			wantOut:  "copied 40",
			wantCode: 0,
		},
		{
			name:     "Copy Failures",
			args:     []string{"-q", "--jobs", "2", "--files", "10", "--file-delay", "0", "--fail-rate", "1"},
			wantOut:  "errors",
			wantCode: 3,
		},
		{
			name:     "Faulted Job",
			args:     []string{"--jobs", "3", "--files", "10", "--file-delay", "0", "--fault", "job-2"},
			wantOut:  "job-3",
			wantCode: 3,
		},
		{
			name:     "Very Short Timeout",
			args:     []string{"-q", "--jobs", "1", "--files", "10000", "--file-delay", "10ms", "--timeout", "20ms"},
			wantOut:  "timed out",
			wantCode: 2,
		},
		{
			name:     "Invalid Jobs",
			args:     []string{"--jobs", "0"},
			wantOut:  "Configuration error",
			wantCode: 4,
		},
		{
			name:     "Unknown Selection",
			args:     []string{"--only", "job-42"},
			wantOut:  "unknown job",
			wantCode: 4,
		},
		{
			name:     "Report File",
			args:     []string{"--jobs", "2", "--files", "5", "--file-delay", "0", "-o", reportPath},
			wantOut:  "Report saved",
			wantCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("Command failed to run: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}

			if tt.wantOut != "" && !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}

	if _, err := os.Stat(reportPath); err != nil {
		t.Errorf("report file not written: %v", err)
	}
}
