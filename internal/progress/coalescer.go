package progress

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/agbru/copyqueue/internal/job"
	"github.com/agbru/copyqueue/internal/logging"
	"github.com/agbru/copyqueue/internal/notify"
	"github.com/agbru/copyqueue/internal/stats"
)

// DefaultPeriod is the minimum interval between two published totals.
const DefaultPeriod = 250 * time.Millisecond

// DefaultFinalFlushDelay is how long Close waits before the final flush.
const DefaultFinalFlushDelay = 50 * time.Millisecond

// Totals is the observable, cumulative progress.
type Totals struct {
	Directories stats.Values
	Files       stats.Values
	Bytes       stats.Values
	// Flushes counts the publishes that produced this value.
	Flushes uint64
}

// Get returns the values of one kind.
func (t Totals) Get(kind stats.Kind) stats.Values {
	switch kind {
	case stats.Directories:
		return t.Directories
	case stats.Files:
		return t.Files
	default:
		return t.Bytes
	}
}

// Source is anything that publishes file-processed events, such as a job or
// the orchestrator.
type Source interface {
	OnFileProcessed(fn func(job.FileProcessed)) (unsubscribe func())
}

// Option configures a Coalescer.
type Option func(*Coalescer)

// WithPeriod sets the coalescing period. Zero publishes on every attempt.
func WithPeriod(d time.Duration) Option {
	return func(c *Coalescer) { c.period = d }
}

// WithClock overrides the clock used by the period gate.
func WithClock(now func() time.Time) Option {
	return func(c *Coalescer) { c.now = now }
}

// WithFinalFlushDelay sets the delay between Close and the final flush.
func WithFinalFlushDelay(d time.Duration) Option {
	return func(c *Coalescer) { c.finalDelay = d }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Coalescer) { c.logger = l }
}

// Coalescer merges progress increments into rate-limited notifications.
type Coalescer struct {
	period     time.Duration
	finalDelay time.Duration
	now        func() time.Time
	logger     logging.Logger

	bufMu sync.Mutex
	buf   [len(stats.Kinds)]stats.Values
	dirty bool

	// pubMu is the publish gate. limiter is only used while holding it.
	pubMu   sync.Mutex
	limiter *rate.Limiter
	totals  atomic.Pointer[Totals]
	feed    notify.Feed[Totals]
	pending atomic.Bool

	subsMu sync.Mutex
	subs   []func()
	closed bool

	closeOnce sync.Once
	done      chan struct{}
}

// New returns a Coalescer.
func New(opts ...Option) *Coalescer {
	c := &Coalescer{
		period:     DefaultPeriod,
		finalDelay: DefaultFinalFlushDelay,
		now:        time.Now,
		logger:     logging.NewNopLogger(),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	limit := rate.Inf
	if c.period > 0 {
		limit = rate.Every(c.period)
	}
	c.limiter = rate.NewLimiter(limit, 1)
	c.totals.Store(&Totals{})
	return c
}

// Totals returns the last published totals.
func (c *Coalescer) Totals() Totals { return *c.totals.Load() }

// Subscribe registers fn for published totals. fn runs on the goroutine that
// performed the flush.
func (c *Coalescer) Subscribe(fn func(Totals)) (unsubscribe func()) {
	return c.feed.Subscribe(fn)
}

// Record folds one file-processed event into the buffers. A directory counts
// once toward Directories; a file counts once toward Files and by its size
// toward Bytes. Both land on Total and on the field matching the outcome.
func (c *Coalescer) Record(ev job.FileProcessed) {
	c.bufMu.Lock()
	if ev.Kind == stats.Directories {
		c.buf[stats.Directories] = c.buf[stats.Directories].WithOutcome(ev.Outcome, 1)
	} else {
		c.buf[stats.Files] = c.buf[stats.Files].WithOutcome(ev.Outcome, 1)
		c.buf[stats.Bytes] = c.buf[stats.Bytes].WithOutcome(ev.Outcome, ev.Size)
	}
	c.dirty = true
	c.bufMu.Unlock()

	c.tryPublish(false)
}

// Add folds raw values of one kind into the buffers.
func (c *Coalescer) Add(kind stats.Kind, v stats.Values) {
	if v.IsZero() {
		return
	}
	c.bufMu.Lock()
	c.buf[kind] = c.buf[kind].Add(v)
	c.dirty = true
	c.bufMu.Unlock()

	c.tryPublish(false)
}

// Flush publishes any buffered contributions immediately, waiting for a
// concurrent publish to finish and ignoring the period gate.
func (c *Coalescer) Flush() { c.tryPublish(true) }

// Attach subscribes the coalescer to src. It returns false once Close has
// been called.
func (c *Coalescer) Attach(src Source) bool {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	if c.closed {
		return false
	}
	c.subs = append(c.subs, src.OnFileProcessed(c.Record))
	return true
}

// Close schedules a final delayed flush, after which every upstream
// subscription is released and Done is closed. Close is idempotent.
func (c *Coalescer) Close() {
	c.closeOnce.Do(func() {
		c.subsMu.Lock()
		c.closed = true
		c.subsMu.Unlock()

		time.AfterFunc(c.finalDelay, func() {
			c.Flush()
			c.subsMu.Lock()
			subs := c.subs
			c.subs = nil
			c.subsMu.Unlock()
			for _, unsub := range subs {
				unsub()
			}
			c.Flush()
			c.logger.Debug("progress coalescer closed", logging.Uint64("flushes", c.Totals().Flushes))
			close(c.done)
		})
	})
}

// Done is closed once Close has completed its final flush and released all
// subscriptions.
func (c *Coalescer) Done() <-chan struct{} { return c.done }

// tryPublish attempts one publish. Without force it gives up when the gate is
// held or the period has not elapsed. Anything left buffered gets a trailing
// attempt.
func (c *Coalescer) tryPublish(force bool) {
	if force {
		c.pubMu.Lock()
	} else if !c.pubMu.TryLock() {
		return
	}
	c.publishLocked(force)
	c.pubMu.Unlock()

	// Contributions that raced this attempt found the gate held and returned.
	if c.isDirty() {
		c.scheduleTrailing()
	}
}

func (c *Coalescer) publishLocked(force bool) {
	if !c.isDirty() {
		return
	}
	if force {
		// Forced publishes still consume a token so the next regular one
		// waits a full period.
		c.limiter.ReserveN(c.now(), 1)
	} else if !c.limiter.AllowN(c.now(), 1) {
		return
	}

	c.bufMu.Lock()
	buf := c.buf
	c.buf = [len(stats.Kinds)]stats.Values{}
	c.dirty = false
	c.bufMu.Unlock()

	prev := c.totals.Load()
	next := Totals{
		Directories: prev.Directories.Add(buf[stats.Directories]),
		Files:       prev.Files.Add(buf[stats.Files]),
		Bytes:       prev.Bytes.Add(buf[stats.Bytes]),
		Flushes:     prev.Flushes + 1,
	}
	c.totals.Store(&next)
	c.feed.Publish(next)
}

func (c *Coalescer) isDirty() bool {
	c.bufMu.Lock()
	defer c.bufMu.Unlock()
	return c.dirty
}

// scheduleTrailing arms one forced publish a period from now. It is forced so
// that a limiter which keeps rejecting cannot re-arm it forever.
func (c *Coalescer) scheduleTrailing() {
	if !c.pending.CompareAndSwap(false, true) {
		return
	}
	delay := c.period
	if delay <= 0 {
		delay = time.Millisecond
	}
	time.AfterFunc(delay, func() {
		c.pending.Store(false)
		c.tryPublish(true)
	})
}
