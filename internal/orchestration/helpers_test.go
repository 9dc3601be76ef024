package orchestration

import (
	"context"
	"sync"
	"time"

	"github.com/agbru/copyqueue/internal/job"
	"github.com/agbru/copyqueue/internal/metrics"
	"github.com/agbru/copyqueue/internal/results"
	"github.com/agbru/copyqueue/internal/stats"
)

// eventLog records start and finish events of test jobs in order.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(ev string) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// testJob is a controllable job. It runs for delay, or until release is
// closed when delay is zero, emitting one file event per entry of files.
type testJob struct {
	job.Events

	name     string
	delay    time.Duration
	release  chan struct{}
	files    []stats.Outcome
	log      *eventLog
	onStart  func()
	faultErr error
	panicMsg string
	// holdOnStop keeps the job running after Stop until release is closed.
	holdOnStop bool

	mu        sync.Mutex
	running   bool
	paused    bool
	cancelled bool
	stops     int
	stopCh    chan struct{}
	stopOnce  sync.Once
}

func newTestJob(name string, delay time.Duration, files ...stats.Outcome) *testJob {
	return &testJob{
		name:    name,
		delay:   delay,
		release: make(chan struct{}),
		files:   files,
		stopCh:  make(chan struct{}),
	}
}

func (j *testJob) Name() string { return j.name }

func (j *testJob) Start(ctx context.Context, _ job.Credentials) *job.Handle {
	if j.panicMsg != "" {
		panic(j.panicMsg)
	}
	if j.onStart != nil {
		j.onStart()
	}
	h := job.NewHandle()
	j.mu.Lock()
	j.running = true
	j.mu.Unlock()

	go func() {
		started := time.Now()
		if j.log != nil {
			j.log.add("start " + j.name)
		}
		h.MarkStarted()

		var timer <-chan time.Time
		if j.delay > 0 {
			timer = time.After(j.delay)
		}
		stopCh, ctxDone := j.stopCh, ctx.Done()
		if j.holdOnStop {
			stopCh, ctxDone = nil, nil
		}
		stopped := false
		select {
		case <-timer:
		case <-j.release:
		case <-stopCh:
			stopped = true
		case <-ctxDone:
			stopped = true
		}

		var files stats.Values
		for _, o := range j.files {
			files = files.WithOutcome(o, 1)
			j.EmitFileProcessed(job.FileProcessed{JobName: j.name, Path: j.name + "/f", Kind: stats.Files, Outcome: o, Size: 10})
		}
		status := stats.NoChange
		switch {
		case stopped:
			status = stats.Cancelled
		case files.Failed > 0:
			status = stats.FilesCopied | stats.CopyErrors
		case files.Copied > 0:
			status = stats.FilesCopied
		}

		j.mu.Lock()
		j.running = false
		j.cancelled = stopped
		j.mu.Unlock()
		if j.log != nil {
			j.log.add("finish " + j.name)
		}

		snap := results.NewSnapshot(results.Data{
			JobName:    j.name,
			Files:      files,
			Bytes:      stats.Values{Total: files.Total * 10, Copied: files.Copied * 10},
			Status:     status,
			StartedAt:  started,
			FinishedAt: time.Now(),
		})
		j.EmitCompleted(job.Completed{JobName: j.name, Result: snap})
		if j.faultErr != nil {
			h.Resolve(nil, j.faultErr)
			return
		}
		h.Resolve(snap, nil)
	}()
	return h
}

func (j *testJob) Pause() {
	j.mu.Lock()
	j.paused = true
	j.mu.Unlock()
}

func (j *testJob) Resume() {
	j.mu.Lock()
	j.paused = false
	j.mu.Unlock()
}

func (j *testJob) Stop() {
	j.mu.Lock()
	j.stops++
	j.mu.Unlock()
	j.stopOnce.Do(func() { close(j.stopCh) })
}

func (j *testJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

func (j *testJob) IsPaused() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.paused
}

func (j *testJob) IsCancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelled
}

func (j *testJob) stopCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stops
}

var _ job.Job = (*testJob)(nil)

// countingRecorder counts recorder calls per kind.
type countingRecorder struct {
	mu       sync.Mutex
	started  int
	finished int
	faulted  int
}

func (r *countingRecorder) JobStarted(string) {
	r.mu.Lock()
	r.started++
	r.mu.Unlock()
}

func (r *countingRecorder) JobFinished(string, stats.ExitStatus, time.Duration, int64) {
	r.mu.Lock()
	r.finished++
	r.mu.Unlock()
}

func (r *countingRecorder) JobFaulted(string) {
	r.mu.Lock()
	r.faulted++
	r.mu.Unlock()
}

func (r *countingRecorder) SetActiveJobs(int) {}

func (r *countingRecorder) counts() (started, finished, faulted int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started, r.finished, r.faulted
}

var _ metrics.Recorder = (*countingRecorder)(nil)

func asJobs(jobs ...*testJob) []job.Job {
	out := make([]job.Job, len(jobs))
	for i, j := range jobs {
		out[i] = j
	}
	return out
}

// waitRun waits for run with a deadlock guard.
func waitRun(t interface {
	Helper()
	Fatal(args ...any)
}, run *Run) *results.Set {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	set, err := run.Wait(ctx)
	if err != nil {
		t.Fatal("run did not finish: possible deadlock")
	}
	return set
}
