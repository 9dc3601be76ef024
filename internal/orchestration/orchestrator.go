package orchestration

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/copyqueue/internal/errors"
	"github.com/agbru/copyqueue/internal/job"
	"github.com/agbru/copyqueue/internal/logging"
	"github.com/agbru/copyqueue/internal/metrics"
	"github.com/agbru/copyqueue/internal/notify"
	"github.com/agbru/copyqueue/internal/progress"
	"github.com/agbru/copyqueue/internal/results"
	"github.com/agbru/copyqueue/internal/snaplist"
)

const tracerName = "github.com/agbru/copyqueue/internal/orchestration"

// State is the orchestrator's run state.
type State int

const (
	// Idle means no run is active.
	Idle State = iota
	// Running means a run is enqueueing or draining normally.
	Running
	// Draining means a run was cancelled and is waiting for in-flight jobs.
	Draining
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Draining:
		return "draining"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithName sets the orchestrator's name used in logs and spans.
func WithName(name string) Option {
	return func(o *Orchestrator) { o.name = name }
}

// WithMaxConcurrentJobs sets the initial concurrency ceiling.
func WithMaxConcurrentJobs(n int) Option {
	return func(o *Orchestrator) { o.slots.SetLimit(max(n, 0)) }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithTracer sets the tracer used for run and job spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// WithProgressOptions sets the options of each run's progress coalescer.
func WithProgressOptions(opts ...progress.Option) Option {
	return func(o *Orchestrator) { o.progressOpts = opts }
}

// WithResults sets the destination result set, which is cleared at the start
// of every run.
func WithResults(set *results.Set) Option {
	return func(o *Orchestrator) { o.results = set }
}

// Orchestrator owns a list of jobs and runs them under a concurrency ceiling.
type Orchestrator struct {
	name         string
	logger       logging.Logger
	recorder     metrics.Recorder
	tracer       trace.Tracer
	progressOpts []progress.Option

	members *snaplist.List[job.Job]
	slots   *slotGate
	results *results.Set

	// mu guards the run state and serializes membership changes against
	// StartAll.
	mu        sync.Mutex
	state     State
	paused    bool
	cancelled bool
	cancel    func()
	current   *Run

	jobsStarted   atomic.Int64
	jobsCompleted atomic.Int64
	jobsSucceeded atomic.Int64

	events     job.Events
	faults     notify.Feed[*apperrors.JobFaultError]
	jobStarted notify.Feed[job.Job]
}

// New returns an idle Orchestrator holding jobs.
func New(jobs []job.Job, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		name:     "copyqueue",
		logger:   logging.NewNopLogger(),
		recorder: metrics.Nop{},
		tracer:   otel.Tracer(tracerName),
		members:  snaplist.New(jobs...),
		slots:    newSlotGate(0),
		results:  results.NewSet(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Name returns the orchestrator's name.
func (o *Orchestrator) Name() string { return o.name }

// Results returns the destination result set.
func (o *Orchestrator) Results() *results.Set { return o.results }

// Jobs returns a copy of the member list.
func (o *Orchestrator) Jobs() []job.Job { return o.members.Snapshot() }

// Len returns the number of members.
func (o *Orchestrator) Len() int { return o.members.Len() }

// OnMembersChanged registers fn for member list changes.
func (o *Orchestrator) OnMembersChanged(fn func(snaplist.Change[job.Job])) (unsubscribe func()) {
	return o.members.Subscribe(fn)
}

// AddJob appends jobs. It fails with an AccessDeniedError while a run is active.
func (o *Orchestrator) AddJob(jobs ...job.Job) error {
	return o.mutateMembers("AddJob", func() error {
		o.members.Add(jobs...)
		return nil
	})
}

// InsertJob inserts j before position i.
func (o *Orchestrator) InsertJob(i int, j job.Job) error {
	return o.mutateMembers("InsertJob", func() error { return o.members.Insert(i, j) })
}

// RemoveJob removes j and reports whether it was a member.
func (o *Orchestrator) RemoveJob(j job.Job) (bool, error) {
	var removed bool
	err := o.mutateMembers("RemoveJob", func() error {
		removed = o.members.RemoveFunc(func(x job.Job) bool { return x == j }) > 0
		return nil
	})
	return removed, err
}

// ReplaceJob replaces the member at position i.
func (o *Orchestrator) ReplaceJob(i int, j job.Job) error {
	return o.mutateMembers("ReplaceJob", func() error {
		_, err := o.members.Replace(i, j)
		return err
	})
}

// ClearJobs removes every member.
func (o *Orchestrator) ClearJobs() error {
	return o.mutateMembers("ClearJobs", func() error {
		o.members.Clear()
		return nil
	})
}

func (o *Orchestrator) mutateMembers(op string, fn func() error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != Idle {
		return &apperrors.AccessDeniedError{Operation: op, Reason: "a run is in progress"}
	}
	return fn()
}

// MaxConcurrentJobs returns the concurrency ceiling; zero means unlimited.
func (o *Orchestrator) MaxConcurrentJobs() int { return o.slots.Limit() }

// SetMaxConcurrentJobs changes the ceiling. Negative values mean unlimited.
// While a run is active the ceiling cannot become unlimited and is clamped to
// one. Lowering it never stops jobs that already hold a slot.
func (o *Orchestrator) SetMaxConcurrentJobs(n int) {
	n = max(n, 0)
	o.mu.Lock()
	if n == 0 && o.state != Idle {
		n = 1
	}
	o.slots.SetLimit(n)
	o.mu.Unlock()
	o.logger.Debug("concurrency ceiling changed", logging.Int("max_concurrent", n))
}

// State returns the current run state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// IsRunning reports whether a run is active.
func (o *Orchestrator) IsRunning() bool { return o.State() != Idle }

// IsPaused reports whether PauseAll paused at least one job since the last
// ResumeAll.
func (o *Orchestrator) IsPaused() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.paused
}

// IsCancelled reports whether StopAll was called for the current or last run.
func (o *Orchestrator) IsCancelled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancelled
}

// CurrentRun returns the active run, or nil.
func (o *Orchestrator) CurrentRun() *Run {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// PauseAll pauses every running member that is not already paused. It never
// blocks on the jobs themselves.
func (o *Orchestrator) PauseAll() {
	paused := 0
	for _, j := range o.members.Snapshot() {
		if j.IsRunning() && !j.IsPaused() {
			j.Pause()
			paused++
		}
	}
	if paused == 0 {
		return
	}
	o.mu.Lock()
	o.paused = true
	o.mu.Unlock()
	o.logger.Info("jobs paused", logging.Int("count", paused))
}

// ResumeAll resumes every paused member.
func (o *Orchestrator) ResumeAll() {
	resumed := 0
	for _, j := range o.members.Snapshot() {
		if j.IsPaused() {
			j.Resume()
			resumed++
		}
	}
	o.mu.Lock()
	o.paused = false
	o.mu.Unlock()
	if resumed > 0 {
		o.logger.Info("jobs resumed", logging.Int("count", resumed))
	}
}

// StopAll cancels the active run. Enqueueing stops, in-flight jobs are told
// to stop and unstarted jobs are skipped. Without an active run every member
// is stopped directly. StopAll is idempotent.
func (o *Orchestrator) StopAll() {
	o.mu.Lock()
	o.cancelled = true
	o.paused = false
	if cancel := o.cancel; cancel != nil {
		o.drainingLocked()
		o.mu.Unlock()
		cancel()
		return
	}
	o.mu.Unlock()

	for _, j := range o.members.Snapshot() {
		j.Stop()
	}
}

// markDraining moves run to Draining if it is still the active, running one.
func (o *Orchestrator) markDraining(run *Run) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != run {
		return
	}
	o.drainingLocked()
}

func (o *Orchestrator) drainingLocked() {
	if o.state != Running {
		return
	}
	o.state = Draining
	o.logger.Info("run cancelled, draining", logging.String("orchestrator", o.name))
}

// JobsStarted returns the number of members started in the current or last run.
func (o *Orchestrator) JobsStarted() int64 { return o.jobsStarted.Load() }

// JobsCompleted returns the number of members that landed a snapshot of their
// own, including faulted ones. Skipped members are not counted.
func (o *Orchestrator) JobsCompleted() int64 { return o.jobsCompleted.Load() }

// JobsCompletedSuccessfully returns the number of resolved members whose
// status is successful.
func (o *Orchestrator) JobsCompletedSuccessfully() int64 { return o.jobsSucceeded.Load() }

// ActiveJobs returns the number of members currently running or paused.
func (o *Orchestrator) ActiveJobs() int {
	n := 0
	for _, j := range o.members.Snapshot() {
		if j.IsRunning() || j.IsPaused() {
			n++
		}
	}
	return n
}

// OnFileProcessed registers fn for file events of every member.
func (o *Orchestrator) OnFileProcessed(fn func(job.FileProcessed)) (unsubscribe func()) {
	return o.events.OnFileProcessed(fn)
}

// OnCommandError registers fn for command errors of every member.
func (o *Orchestrator) OnCommandError(fn func(job.CommandError)) (unsubscribe func()) {
	return o.events.OnCommandError(fn)
}

// OnError registers fn for errors of every member.
func (o *Orchestrator) OnError(fn func(job.ErrorEvent)) (unsubscribe func()) {
	return o.events.OnError(fn)
}

// OnCompleted registers fn for completion of every member.
func (o *Orchestrator) OnCompleted(fn func(job.Completed)) (unsubscribe func()) {
	return o.events.OnCompleted(fn)
}

// OnFault registers fn for unhandled member faults.
func (o *Orchestrator) OnFault(fn func(*apperrors.JobFaultError)) (unsubscribe func()) {
	return o.faults.Subscribe(fn)
}

// OnJobStarted registers fn, called once a member has been started.
func (o *Orchestrator) OnJobStarted(fn func(job.Job)) (unsubscribe func()) {
	return o.jobStarted.Subscribe(fn)
}

var _ progress.Source = (*Orchestrator)(nil)
