package simcopy

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path"
	"sync"
	"time"

	"github.com/agbru/copyqueue/internal/job"
	"github.com/agbru/copyqueue/internal/logging"
	"github.com/agbru/copyqueue/internal/results"
	"github.com/agbru/copyqueue/internal/stats"
)

// Exit code reported in the CommandError of an injected fault.
const faultExitCode = 16

// ErrFault is the cause of an injected fault.
var ErrFault = errors.New("simulated copy tool crash")

// errStartWhileRunning is returned through the handle of a Start call made
// while the job is still running.
var errStartWhileRunning = errors.New("job is already running")

// Job is a simulated copy job. It is reusable: every Start walks the same
// seeded tree again.
type Job struct {
	job.Events

	name        string
	files       int
	directories int
	fileSize    int64
	delay       time.Duration
	seed        uint64
	rates       Rates
	faultAfter  int
	logger      logging.Logger
	now         func() time.Time

	mu        sync.Mutex
	running   bool
	paused    bool
	cancelled bool
	resume    chan struct{} // closed while not paused
	stop      chan struct{}
	stopOnce  *sync.Once
}

var _ job.Job = (*Job)(nil)

// New returns a job named name.
func New(name string, opts ...Option) *Job {
	j := &Job{
		name:        name,
		files:       DefaultFiles,
		directories: DefaultDirectories,
		fileSize:    DefaultFileSize,
		delay:       DefaultFileDelay,
		seed:        1,
		logger:      logging.NewNopLogger(),
		now:         time.Now,
		resume:      closedChan(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Name returns the job name.
func (j *Job) Name() string { return j.name }

// Start begins walking the tree on a new goroutine. Credentials are only
// logged, in redacted form.
func (j *Job) Start(ctx context.Context, creds job.Credentials) *job.Handle {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return job.ResolvedHandle(nil, errStartWhileRunning)
	}
	j.running = true
	j.paused = false
	j.cancelled = false
	j.resume = closedChan()
	stop := make(chan struct{})
	j.stop = stop
	j.stopOnce = &sync.Once{}
	j.mu.Unlock()

	j.logger.Debug("simulated copy starting",
		logging.String("job", j.name),
		logging.String("credentials", creds.String()),
		logging.Int("files", j.files),
	)

	h := job.NewHandle()
	go j.run(ctx, h, stop)
	return h
}

// Pause suspends the job before its next item. It does nothing unless the
// job is running.
func (j *Job) Pause() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running || j.paused {
		return
	}
	j.paused = true
	j.resume = make(chan struct{})
}

// Resume continues a paused job.
func (j *Job) Resume() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.paused {
		return
	}
	j.paused = false
	close(j.resume)
}

// Stop cancels the current run. It is idempotent and does nothing when the
// job is not running.
func (j *Job) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return
	}
	stop := j.stop
	j.stopOnce.Do(func() { close(stop) })
}

// IsRunning reports whether a run is in progress, paused or not.
func (j *Job) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

// IsPaused reports whether the job is paused.
func (j *Job) IsPaused() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.paused
}

// IsCancelled reports whether the last run was stopped before it finished.
func (j *Job) IsCancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelled
}

// walk accumulates what a run emitted.
type walk struct {
	dirs, files, bytes stats.Values
	lines              []string
}

func (j *Job) run(ctx context.Context, h *job.Handle, stop <-chan struct{}) {
	started := j.now()
	rng := rand.New(rand.NewPCG(j.seed, uint64(len(j.name))))
	var w walk
	w.lines = append(w.lines, fmt.Sprintf("started %s", started.Format(time.RFC3339)))
	h.MarkStarted()

	perDir := max((j.files+j.directories-1)/j.directories, 1)
	stopped, faulted := false, false
	dir := ""

	for i := 0; i < j.files; i++ {
		if !j.waitTurn(ctx, stop) {
			stopped = true
			break
		}
		if i%perDir == 0 {
			dir = fmt.Sprintf("dir-%03d", i/perDir)
			o := stats.Copied
			if rng.Float64() < j.rates.Extra {
				o = stats.Extra
			}
			w.dirs = w.dirs.WithOutcome(o, 1)
			j.EmitFileProcessed(job.FileProcessed{JobName: j.name, Path: dir, Kind: stats.Directories, Outcome: o})
		}
		if j.faultAfter > 0 && i == j.faultAfter {
			faulted = true
			break
		}

		file := path.Join(dir, fmt.Sprintf("file-%05d.dat", i))
		o := j.pickOutcome(rng)
		size := j.pickSize(rng)
		w.files = w.files.WithOutcome(o, 1)
		w.bytes = w.bytes.WithOutcome(o, size)
		j.EmitFileProcessed(job.FileProcessed{JobName: j.name, Path: file, Kind: stats.Files, Outcome: o, Size: size})
		if o == stats.Failed {
			err := fmt.Errorf("copy %s: access is denied", file)
			w.lines = append(w.lines, "ERROR "+err.Error())
			j.EmitError(job.ErrorEvent{JobName: j.name, Err: err})
		}
	}

	finished := j.now()
	status := deriveStatus(w)
	switch {
	case faulted:
		msg := fmt.Sprintf("terminated after %d files", j.faultAfter)
		w.lines = append(w.lines, "FAULT "+msg)
		j.EmitCommandError(job.CommandError{JobName: j.name, Message: msg, Code: faultExitCode})
	case stopped:
		status = stats.Cancelled
		w.lines = append(w.lines, "stopped by request")
	}
	w.lines = append(w.lines,
		stats.NewTally(stats.Directories, w.dirs).String(),
		stats.NewTally(stats.Files, w.files).String(),
		stats.NewTally(stats.Bytes, w.bytes).String(),
		fmt.Sprintf("ended %s", finished.Format(time.RFC3339)),
	)

	snap := results.NewSnapshot(results.Data{
		JobName:     j.name,
		Directories: w.dirs,
		Files:       w.files,
		Bytes:       w.bytes,
		Speed:       stats.NewSpeedSample(w.bytes.Copied, finished.Sub(started).Seconds()),
		Status:      status,
		LogLines:    w.lines,
		StartedAt:   started,
		FinishedAt:  finished,
	})

	j.mu.Lock()
	j.running = false
	j.cancelled = stopped
	if j.paused {
		j.paused = false
		close(j.resume)
	}
	j.mu.Unlock()

	j.logger.Info("simulated copy finished",
		logging.String("job", j.name),
		logging.String("status", status.String()),
		logging.Int64("files_copied", w.files.Copied),
		logging.Int64("files_failed", w.files.Failed),
	)
	j.EmitCompleted(job.Completed{JobName: j.name, Result: snap})

	if faulted {
		h.Resolve(snap, fmt.Errorf("%s: %w", j.name, ErrFault))
		return
	}
	h.Resolve(snap, nil)
}

// waitTurn blocks while the job is paused, then for the per-file delay. It
// returns false once the run is stopped or ctx is done.
func (j *Job) waitTurn(ctx context.Context, stop <-chan struct{}) bool {
	for {
		j.mu.Lock()
		resume := j.resume
		j.mu.Unlock()
		select {
		case <-resume:
		case <-stop:
			return false
		case <-ctx.Done():
			return false
		}

		if j.delay <= 0 {
			select {
			case <-stop:
				return false
			case <-ctx.Done():
				return false
			default:
				return true
			}
		}

		timer := time.NewTimer(j.delay)
		select {
		case <-timer.C:
		case <-stop:
			timer.Stop()
			return false
		case <-ctx.Done():
			timer.Stop()
			return false
		}

		// A pause that arrived during the delay holds the next item.
		if !j.IsPaused() {
			return true
		}
	}
}

func (j *Job) pickOutcome(rng *rand.Rand) stats.Outcome {
	r := rng.Float64()
	switch {
	case r < j.rates.Fail:
		return stats.Failed
	case r < j.rates.Fail+j.rates.Skip:
		return stats.Skipped
	case r < j.rates.Fail+j.rates.Skip+j.rates.Mismatch:
		return stats.Mismatch
	case r < j.rates.sum():
		return stats.Extra
	default:
		return stats.Copied
	}
}

func (j *Job) pickSize(rng *rand.Rand) int64 {
	if j.fileSize <= 0 {
		return 0
	}
	return j.fileSize/2 + rng.Int64N(j.fileSize)
}

// deriveStatus maps what a walk emitted to the copy tool's exit bits.
func deriveStatus(w walk) stats.ExitStatus {
	var s stats.ExitStatus
	if w.files.Copied > 0 {
		s |= stats.FilesCopied
	}
	if w.files.Extras > 0 || w.dirs.Extras > 0 {
		s |= stats.ExtraFiles
	}
	if w.files.Mismatch > 0 {
		s |= stats.MismatchedItems
	}
	if w.files.Failed > 0 {
		s |= stats.CopyErrors
	}
	return s
}

func closedChan() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}
