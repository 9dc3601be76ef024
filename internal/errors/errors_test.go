// Package apperrors provides tests for application error types.
package apperrors

import (
	"context"
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %d for flag %s", -2, "--max-concurrent"),
			expected: "invalid value -2 for flag --max-concurrent",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestAccessDeniedError(t *testing.T) {
	t.Parallel()
	err := error(&AccessDeniedError{Operation: "AddJob", Reason: "run in progress"})

	if got, want := err.Error(), "access denied: AddJob: run in progress"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !errors.Is(err, ErrAccessDenied) {
		t.Error("errors.Is should match ErrAccessDenied")
	}
	if errors.Is(err, ErrInvalidIndex) {
		t.Error("errors.Is should not match ErrInvalidIndex")
	}

	wrapped := WrapError(err, "membership update")
	var denied *AccessDeniedError
	if !errors.As(wrapped, &denied) {
		t.Fatal("errors.As should find AccessDeniedError through WrapError")
	}
	if denied.Operation != "AddJob" {
		t.Errorf("expected Operation %q, got %q", "AddJob", denied.Operation)
	}
}

func TestInvalidIndexError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *InvalidIndexError
		expected string
	}{
		{"negative index", &InvalidIndexError{Index: -1, Len: 3}, "invalid index -1 for length 3"},
		{"past the end", &InvalidIndexError{Index: 5, Len: 5}, "invalid index 5 for length 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if !errors.Is(tt.err, ErrInvalidIndex) {
				t.Error("errors.Is should match ErrInvalidIndex")
			}
		})
	}
}

func TestJobFaultError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		recovered   any
		expectedMsg string
		checkIs     error
	}{
		{
			name:        "error cause is preserved",
			recovered:   context.Canceled,
			expectedMsg: `job "backup" faulted: context canceled`,
			checkIs:     context.Canceled,
		},
		{
			name:        "panic value is formatted",
			recovered:   "index out of range",
			expectedMsg: `job "backup" faulted: panic: index out of range`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := NewJobFault("backup", tt.recovered)
			if err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, err.Error())
			}
			if tt.checkIs != nil && !errors.Is(err, tt.checkIs) {
				t.Errorf("errors.Is should find %v in the chain", tt.checkIs)
			}
		})
	}

	t.Run("existing fault is returned as is", func(t *testing.T) {
		t.Parallel()
		orig := &JobFaultError{Job: "a", Cause: errors.New("boom")}
		if got := NewJobFault("b", orig); got != orig {
			t.Error("NewJobFault should not re-wrap a JobFaultError")
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	var err error = ValidationError{Field: "jobs", Message: "must be positive"}
	if got, want := err.Error(), `validation error for "jobs": must be positive`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	var validationErr ValidationError
	if !errors.As(WrapError(err, "config check failed"), &validationErr) {
		t.Error("errors.As should find ValidationError through WrapError")
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		original    error
		format      string
		args        []any
		expectedMsg string
		expectNil   bool
		checkIs     error
	}{
		{
			name:        "wraps error with context",
			original:    errors.New("job list locked"),
			format:      "failed to add job",
			expectedMsg: "failed to add job: job list locked",
		},
		{
			name:        "preserves error chain",
			original:    context.DeadlineExceeded,
			format:      "run timed out",
			expectedMsg: "run timed out: context deadline exceeded",
			checkIs:     context.DeadlineExceeded,
		},
		{
			name:      "returns nil for nil error",
			original:  nil,
			format:    "some context",
			expectNil: true,
		},
		{
			name:        "supports format arguments",
			original:    errors.New("connection reset"),
			format:      "failed to serve metrics on %s:%d",
			args:        []any{"localhost", 9090},
			expectedMsg: "failed to serve metrics on localhost:9090: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := WrapError(tt.original, tt.format, tt.args...)

			if tt.expectNil {
				if wrapped != nil {
					t.Error("WrapError(nil, ...) should return nil")
				}
				return
			}

			if wrapped == nil {
				t.Fatal("wrapped error should not be nil")
			}

			if wrapped.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, wrapped.Error())
			}

			if tt.checkIs != nil && !errors.Is(wrapped, tt.checkIs) {
				t.Errorf("wrapped error should preserve %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "operation canceled"), true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := IsContextError(tt.err)
			if result != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	codes := map[string]int{
		"ExitSuccess":           ExitSuccess,
		"ExitErrorGeneric":      ExitErrorGeneric,
		"ExitErrorTimeout":      ExitErrorTimeout,
		"ExitErrorCopyFailures": ExitErrorCopyFailures,
		"ExitErrorConfig":       ExitErrorConfig,
		"ExitErrorCanceled":     ExitErrorCanceled,
	}

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess should be 0, got %d", ExitSuccess)
	}
	if ExitErrorCanceled != 130 {
		t.Errorf("ExitErrorCanceled should be 130 (SIGINT convention), got %d", ExitErrorCanceled)
	}

	seen := make(map[int]string)
	for name, code := range codes {
		if existing, ok := seen[code]; ok {
			t.Errorf("duplicate exit code %d: %s and %s", code, existing, name)
		}
		seen[code] = name
	}
}
