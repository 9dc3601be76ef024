package orchestration

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/copyqueue/internal/errors"
	"github.com/agbru/copyqueue/internal/job"
	"github.com/agbru/copyqueue/internal/logging"
	"github.com/agbru/copyqueue/internal/progress"
	"github.com/agbru/copyqueue/internal/results"
)

// Run is the handle of one StartAll call.
type Run struct {
	id        uuid.UUID
	startedAt time.Time
	results   *results.Set
	progress  *progress.Coalescer
	jobs      int

	done       chan struct{}
	finishedAt time.Time
}

// ID returns the run's unique identifier.
func (r *Run) ID() uuid.UUID { return r.id }

// StartedAt returns when the run started.
func (r *Run) StartedAt() time.Time { return r.startedAt }

// Jobs returns the number of members the run was started with.
func (r *Run) Jobs() int { return r.jobs }

// Done is closed once every member has a snapshot in the result set.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run is done or ctx is cancelled. Cancelling ctx does
// not stop the run.
func (r *Run) Wait(ctx context.Context) (*results.Set, error) {
	select {
	case <-r.done:
		return r.results, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Results returns the destination set. It fills in as jobs finish and holds
// one snapshot per member once Done is closed.
func (r *Run) Results() *results.Set { return r.results }

// Progress returns the run's progress coalescer. It is closed when the run
// finishes.
func (r *Run) Progress() *progress.Coalescer { return r.progress }

// Elapsed returns the run's duration so far, or its total once done.
func (r *Run) Elapsed() time.Duration {
	select {
	case <-r.done:
		return r.finishedAt.Sub(r.startedAt)
	default:
		return time.Since(r.startedAt)
	}
}

// StartAll starts a run over the current members and returns immediately.
//
// Members are started in declaration order, each one only after a slot under
// the concurrency ceiling is free and the previous member reported that it
// began executing. Their events are republished by the orchestrator until
// they resolve. Every member ends up with exactly one snapshot in the result
// set: its own, a faulted one, or a cancelled one when it was never started.
//
// Cancelling ctx has the same effect as StopAll. StartAll fails with
// ErrAlreadyRunning while another run is active.
func (o *Orchestrator) StartAll(ctx context.Context, creds job.Credentials) (*Run, error) {
	o.mu.Lock()
	if o.state != Idle {
		o.mu.Unlock()
		return nil, apperrors.ErrAlreadyRunning
	}
	members := o.members.Snapshot()
	gateCtx, cancel := context.WithCancel(ctx)
	run := &Run{
		id:        uuid.New(),
		startedAt: time.Now(),
		results:   o.results,
		progress:  progress.New(append([]progress.Option{progress.WithLogger(o.logger)}, o.progressOpts...)...),
		jobs:      len(members),
		done:      make(chan struct{}),
	}
	o.state = Running
	o.cancel = cancel
	o.current = run
	o.paused = false
	o.cancelled = false
	o.jobsStarted.Store(0)
	o.jobsCompleted.Store(0)
	o.jobsSucceeded.Store(0)
	o.mu.Unlock()

	o.results.Clear()
	run.progress.Attach(o)

	o.logger.Info("run started",
		logging.String("run_id", run.id.String()),
		logging.Int("jobs", len(members)),
		logging.Int("max_concurrent", o.slots.Limit()),
	)
	go o.execute(gateCtx, cancel, run, members, creds)
	return run, nil
}

func (o *Orchestrator) execute(gateCtx context.Context, cancel context.CancelFunc, run *Run, members []job.Job, creds job.Credentials) {
	spanCtx, span := o.tracer.Start(context.WithoutCancel(gateCtx), "copyqueue.run", trace.WithAttributes(
		attribute.String("run.id", run.id.String()),
		attribute.String("orchestrator", o.name),
		attribute.Int("run.jobs", len(members)),
	))

	// Cancelling the caller's ctx drains the run just like StopAll.
	stopWatch := context.AfterFunc(gateCtx, func() { o.markDraining(run) })

	landed := make([]bool, len(members))
	var g errgroup.Group

	for i, j := range members {
		if gateCtx.Err() != nil {
			break
		}
		if err := o.slots.Acquire(gateCtx); err != nil {
			break
		}

		h, unsubscribe, err := o.startJob(gateCtx, j, creds)
		if err != nil {
			unsubscribe()
			o.slots.Release()
			o.landStartFault(spanCtx, j, err)
			landed[i] = true
			continue
		}

		o.jobsStarted.Add(1)
		o.recorder.JobStarted(j.Name())
		o.recorder.SetActiveJobs(o.slots.InUse())
		o.jobStarted.Publish(j)
		o.logger.Debug("job started", logging.String("job", j.Name()), logging.Int("active", o.slots.InUse()))

		idx := i
		g.Go(func() error {
			o.drain(gateCtx, spanCtx, j, h, unsubscribe)
			landed[idx] = true
			return nil
		})

		select {
		case <-h.Started():
		case <-h.Done():
		case <-gateCtx.Done():
		}
	}

	_ = g.Wait()
	stopWatch()

	skipped := 0
	for i, j := range members {
		if !landed[i] {
			o.results.Add(results.CancelledSnapshot(j.Name()))
			skipped++
		}
	}

	o.mu.Lock()
	o.state = Idle
	o.cancel = nil
	o.current = nil
	o.paused = false
	cancelled := o.cancelled || gateCtx.Err() != nil
	o.cancelled = cancelled
	o.mu.Unlock()
	cancel()

	status := o.results.Status()
	span.SetAttributes(
		attribute.String("run.status", status.String()),
		attribute.Int("run.skipped", skipped),
		attribute.Bool("run.cancelled", cancelled),
	)
	span.End()

	run.progress.Close()
	run.finishedAt = time.Now()
	o.logger.Info("run finished",
		logging.String("run_id", run.id.String()),
		logging.String("status", status.String()),
		logging.Int64("completed", o.jobsCompleted.Load()),
		logging.Int("skipped", skipped),
		logging.Duration("elapsed", run.finishedAt.Sub(run.startedAt)),
	)
	close(run.done)
}

// startJob subscribes to j's events, republishing them, and starts it. A
// panic in Start or a nil handle is returned as a fault. The returned
// unsubscribe function is always non-nil.
func (o *Orchestrator) startJob(ctx context.Context, j job.Job, creds job.Credentials) (h *job.Handle, unsubscribe func(), err error) {
	unsubs := []func(){
		j.OnFileProcessed(o.events.EmitFileProcessed),
		j.OnCommandError(o.events.EmitCommandError),
		j.OnError(o.events.EmitError),
		j.OnCompleted(o.events.EmitCompleted),
	}
	unsubscribe = func() {
		for _, u := range unsubs {
			if u != nil {
				u()
			}
		}
	}

	defer func() {
		if r := recover(); r != nil {
			h, err = nil, apperrors.NewJobFault(j.Name(), r)
		}
	}()
	h = j.Start(ctx, creds)
	if h == nil {
		return nil, unsubscribe, apperrors.NewJobFault(j.Name(), errors.New("Start returned no handle"))
	}
	return h, unsubscribe, nil
}

// drain waits for one started job, stopping it if the gate trips, and lands
// its snapshot.
func (o *Orchestrator) drain(gateCtx, spanCtx context.Context, j job.Job, h *job.Handle, unsubscribe func()) {
	name := j.Name()
	_, span := o.tracer.Start(spanCtx, "copyqueue.job", trace.WithAttributes(attribute.String("job.name", name)))
	defer span.End()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			unsubscribe()
			o.slots.Release()
		})
	}
	landed := false
	defer func() {
		if r := recover(); r != nil {
			cleanup()
			fault := apperrors.NewJobFault(name, r)
			o.fault(j, fault)
			if !landed {
				landed = true
				o.land(j, results.FaultedSnapshot(name, nil, fault), span)
			}
		}
	}()

	select {
	case <-h.Done():
	case <-gateCtx.Done():
		j.Stop()
		<-h.Done()
	}
	cleanup()

	var snap *results.Snapshot
	res, err := h.Result()
	switch {
	case err != nil:
		o.fault(j, err)
		snap = results.FaultedSnapshot(name, res, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case res == nil:
		snap = results.CancelledSnapshot(name)
	default:
		snap = res
	}
	landed = true
	o.land(j, snap, span)
}

// landStartFault lands the faulted snapshot of a member whose Start failed.
func (o *Orchestrator) landStartFault(spanCtx context.Context, j job.Job, err error) {
	_, span := o.tracer.Start(spanCtx, "copyqueue.job", trace.WithAttributes(attribute.String("job.name", j.Name())))
	defer span.End()
	o.fault(j, err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	o.land(j, results.FaultedSnapshot(j.Name(), nil, err), span)
}

func (o *Orchestrator) land(j job.Job, snap *results.Snapshot, span trace.Span) {
	o.results.Add(snap)
	o.jobsCompleted.Add(1)
	if snap.Status().Successful() {
		o.jobsSucceeded.Add(1)
	}
	o.recorder.JobFinished(j.Name(), snap.Status(), snap.Duration(), snap.Bytes().Values.Copied)
	o.recorder.SetActiveJobs(o.slots.InUse())
	span.SetAttributes(attribute.String("job.status", snap.Status().String()))
	o.logger.Info("job finished",
		logging.String("job", j.Name()),
		logging.String("status", snap.Status().String()),
		logging.Int64("files_copied", snap.Files().Values.Copied),
		logging.Int64("files_failed", snap.Files().Values.Failed),
	)
}

func (o *Orchestrator) fault(j job.Job, err error) {
	fault := apperrors.NewJobFault(j.Name(), err)
	o.recorder.JobFaulted(j.Name())
	o.logger.Error("job faulted", fault, logging.String("job", j.Name()))
	o.faults.Publish(fault)
}
