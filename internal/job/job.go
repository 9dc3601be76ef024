//go:generate mockgen -source=job.go -destination=mocks/mock_job.go -package=mocks

package job

import (
	"context"
	"fmt"
)

// Job is one externally executed, long-running copy operation.
//
// Pause, Resume and Stop never block. Stop is idempotent and safe to call
// before Start and after completion. Event handlers are invoked on the job's
// own goroutines, in the order the job emits them.
type Job interface {
	// Name identifies the job in events, logs and results.
	Name() string
	// Start begins execution and returns immediately with a handle that
	// reports when execution began and when it resolved.
	Start(ctx context.Context, creds Credentials) *Handle
	Pause()
	Resume()
	Stop()
	IsRunning() bool
	IsPaused() bool
	IsCancelled() bool

	OnFileProcessed(fn func(FileProcessed)) (unsubscribe func())
	OnCommandError(fn func(CommandError)) (unsubscribe func())
	OnError(fn func(ErrorEvent)) (unsubscribe func())
	OnCompleted(fn func(Completed)) (unsubscribe func())
}

// Credentials are passed through to the job untouched.
type Credentials struct {
	Username string
	Domain   string
	Password string
}

// IsZero reports whether no credentials were supplied.
func (c Credentials) IsZero() bool { return c == Credentials{} }

// String renders the account without the password.
func (c Credentials) String() string {
	if c.IsZero() {
		return "<none>"
	}
	user := c.Username
	if c.Domain != "" {
		user = c.Domain + `\` + c.Username
	}
	if c.Password == "" {
		return user
	}
	return fmt.Sprintf("%s:[redacted]", user)
}

// GoString keeps the password out of %#v output.
func (c Credentials) GoString() string {
	return fmt.Sprintf("job.Credentials{Username:%q, Domain:%q, Password:\"[redacted]\"}", c.Username, c.Domain)
}
