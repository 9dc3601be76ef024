package simcopy

import (
	"time"

	"github.com/agbru/copyqueue/internal/logging"
)

// Default values applied by New.
const (
	DefaultFiles       = 100
	DefaultDirectories = 5
	DefaultFileSize    = 256 << 10
	DefaultFileDelay   = 5 * time.Millisecond
)

// Rates are the probabilities of the non-copied outcomes of a file. Whatever
// remains up to one is copied.
type Rates struct {
	Fail     float64
	Skip     float64
	Mismatch float64
	Extra    float64
}

func (r Rates) sum() float64 { return r.Fail + r.Skip + r.Mismatch + r.Extra }

// Option configures a Job.
type Option func(*Job)

// WithFiles sets the number of files and the number of directories they are
// spread over.
func WithFiles(files, directories int) Option {
	return func(j *Job) {
		j.files = max(files, 0)
		j.directories = max(directories, 1)
	}
}

// WithFileSize sets the mean file size in bytes.
func WithFileSize(n int64) Option {
	return func(j *Job) { j.fileSize = max(n, 0) }
}

// WithFileDelay sets the time spent on each file.
func WithFileDelay(d time.Duration) Option {
	return func(j *Job) { j.delay = max(d, 0) }
}

// WithSeed sets the seed of the generated tree and outcomes.
func WithSeed(seed uint64) Option {
	return func(j *Job) { j.seed = seed }
}

// WithRates sets the outcome probabilities. Rates summing above one are
// scaled down proportionally.
func WithRates(r Rates) Option {
	return func(j *Job) {
		if s := r.sum(); s > 1 {
			r = Rates{Fail: r.Fail / s, Skip: r.Skip / s, Mismatch: r.Mismatch / s, Extra: r.Extra / s}
		}
		j.rates = r
	}
}

// WithFailRate sets only the probability that a file fails to copy.
func WithFailRate(p float64) Option {
	return func(j *Job) { j.rates.Fail = min(max(p, 0), 1) }
}

// WithFaultAfter makes the job fault after n files. Zero disables faults.
func WithFaultAfter(n int) Option {
	return func(j *Job) { j.faultAfter = max(n, 0) }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(j *Job) { j.logger = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(j *Job) { j.now = now }
}
