package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess           = 0   // Indicates successful execution.
	ExitErrorGeneric      = 1   // Indicates a generic error.
	ExitErrorTimeout      = 2   // Indicates the run timed out.
	ExitErrorCopyFailures = 3   // Indicates at least one job reported failed items.
	ExitErrorConfig       = 4   // Indicates a configuration error.
	ExitErrorCanceled     = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

var (
	// ErrAccessDenied is matched by every AccessDeniedError.
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidIndex is matched by every InvalidIndexError.
	ErrInvalidIndex = errors.New("invalid index")
	// ErrAlreadyRunning is returned when a run is requested while one is active.
	ErrAlreadyRunning = errors.New("a run is already in progress")
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// AccessDeniedError is returned when a caller attempts an operation that the
// current state forbids, most notably mutating the orchestrator's member list
// while a run is active. It is fatal only to the call that produced it.
type AccessDeniedError struct {
	// Operation is the name of the rejected operation (e.g. "AddJob").
	Operation string
	// Reason explains why the operation was rejected.
	Reason string
}

// Error returns a formatted message describing the rejected operation.
func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %s: %s", e.Operation, e.Reason)
}

// Is reports whether target is ErrAccessDenied.
func (e *AccessDeniedError) Is(target error) bool { return target == ErrAccessDenied }

// InvalidIndexError is returned by positional mutations given an index outside
// the valid range.
type InvalidIndexError struct {
	Index int
	Len   int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("invalid index %d for length %d", e.Index, e.Len)
}

// Is reports whether target is ErrInvalidIndex.
func (e *InvalidIndexError) Is(target error) bool { return target == ErrInvalidIndex }

// JobFaultError encapsulates an unhandled fault raised by a single job while
// preserving the original cause. A fault never aborts sibling jobs; it is
// surfaced through the orchestrator's fault notifications.
type JobFaultError struct {
	// Job is the name of the faulting job.
	Job string
	// Cause is the underlying error (or recovered panic value) of the fault.
	Cause error
}

// Error returns the job name followed by the cause message.
func (e *JobFaultError) Error() string {
	return fmt.Sprintf("job %q faulted: %v", e.Job, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e *JobFaultError) Unwrap() error { return e.Cause }

// NewJobFault builds a JobFaultError from a recovered panic value or error.
func NewJobFault(job string, recovered any) *JobFaultError {
	switch v := recovered.(type) {
	case *JobFaultError:
		return v
	case error:
		return &JobFaultError{Job: job, Cause: v}
	default:
		return &JobFaultError{Job: job, Cause: fmt.Errorf("panic: %v", v)}
	}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
