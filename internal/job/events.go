package job

import (
	"fmt"

	"github.com/agbru/copyqueue/internal/notify"
	"github.com/agbru/copyqueue/internal/results"
	"github.com/agbru/copyqueue/internal/stats"
)

// FileProcessed reports one directory or file the job finished with.
// Kind is stats.Directories or stats.Files; Size is the item's size in bytes.
type FileProcessed struct {
	JobName string
	Path    string
	Kind    stats.Kind
	Outcome stats.Outcome
	Size    int64
}

// CommandError reports a failure of the external command itself.
type CommandError struct {
	JobName string
	Message string
	Code    int
}

func (e CommandError) Error() string {
	return fmt.Sprintf("%s: command error %d: %s", e.JobName, e.Code, e.Message)
}

// ErrorEvent reports a non-fatal error raised while the job runs.
type ErrorEvent struct {
	JobName string
	Err     error
}

// Completed carries the final snapshot of a job.
type Completed struct {
	JobName string
	Result  *results.Snapshot
}

// Events bundles the four event feeds of the Job contract. Job
// implementations embed it to satisfy the On* methods.
type Events struct {
	fileProcessed notify.Feed[FileProcessed]
	commandError  notify.Feed[CommandError]
	errorEvent    notify.Feed[ErrorEvent]
	completed     notify.Feed[Completed]
}

func (e *Events) OnFileProcessed(fn func(FileProcessed)) func() { return e.fileProcessed.Subscribe(fn) }
func (e *Events) OnCommandError(fn func(CommandError)) func()   { return e.commandError.Subscribe(fn) }
func (e *Events) OnError(fn func(ErrorEvent)) func()            { return e.errorEvent.Subscribe(fn) }
func (e *Events) OnCompleted(fn func(Completed)) func()         { return e.completed.Subscribe(fn) }

func (e *Events) EmitFileProcessed(ev FileProcessed) { e.fileProcessed.Publish(ev) }
func (e *Events) EmitCommandError(ev CommandError)   { e.commandError.Publish(ev) }
func (e *Events) EmitError(ev ErrorEvent)            { e.errorEvent.Publish(ev) }
func (e *Events) EmitCompleted(ev Completed)         { e.completed.Publish(ev) }

// Subscribers returns the total number of registered handlers.
func (e *Events) Subscribers() int {
	return e.fileProcessed.Len() + e.commandError.Len() + e.errorEvent.Len() + e.completed.Len()
}
