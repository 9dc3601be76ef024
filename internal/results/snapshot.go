package results

import (
	"slices"
	"time"

	"github.com/agbru/copyqueue/internal/stats"
)

// Data carries the fields used to build a Snapshot.
type Data struct {
	JobName     string
	Directories stats.Values
	Files       stats.Values
	Bytes       stats.Values
	Speed       stats.SpeedSample
	Status      stats.ExitStatus
	LogLines    []string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Snapshot is the immutable final record of one job.
type Snapshot struct {
	jobName    string
	tallies    [len(stats.Kinds)]stats.Tally
	speed      stats.SpeedSample
	status     stats.ExitStatus
	logLines   []string
	startedAt  time.Time
	finishedAt time.Time
}

// NewSnapshot builds a Snapshot from d. The log lines are copied.
func NewSnapshot(d Data) *Snapshot {
	return &Snapshot{
		jobName: d.JobName,
		tallies: [len(stats.Kinds)]stats.Tally{
			stats.Directories: stats.NewTally(stats.Directories, d.Directories),
			stats.Files:       stats.NewTally(stats.Files, d.Files),
			stats.Bytes:       stats.NewTally(stats.Bytes, d.Bytes),
		},
		speed:      d.Speed,
		status:     d.Status,
		logLines:   slices.Clone(d.LogLines),
		startedAt:  d.StartedAt,
		finishedAt: d.FinishedAt,
	}
}

// CancelledSnapshot returns the force-finalized snapshot of a job that was
// skipped or never produced a result.
func CancelledSnapshot(jobName string) *Snapshot {
	now := time.Now()
	return NewSnapshot(Data{
		JobName:    jobName,
		Status:     stats.Cancelled,
		LogLines:   []string{"job cancelled before completion"},
		StartedAt:  now,
		FinishedAt: now,
	})
}

// FaultedSnapshot returns the snapshot recorded for a job that faulted. When
// partial is non-nil its counters are kept and SeriousError is added to its
// status.
func FaultedSnapshot(jobName string, partial *Snapshot, cause error) *Snapshot {
	now := time.Now()
	d := Data{JobName: jobName, Status: stats.SeriousError, StartedAt: now, FinishedAt: now}
	if partial != nil {
		d = partial.Data()
		d.JobName = jobName
		if d.Status.WasCancelled() {
			d.Status = stats.NoChange
		}
		d.Status |= stats.SeriousError
	}
	if cause != nil {
		d.LogLines = append(d.LogLines, "fault: "+cause.Error())
	}
	return NewSnapshot(d)
}

// Data returns the snapshot's fields, with the log lines copied.
func (s *Snapshot) Data() Data {
	return Data{
		JobName:     s.jobName,
		Directories: s.tallies[stats.Directories].Values,
		Files:       s.tallies[stats.Files].Values,
		Bytes:       s.tallies[stats.Bytes].Values,
		Speed:       s.speed,
		Status:      s.status,
		LogLines:    s.LogLines(),
		StartedAt:   s.startedAt,
		FinishedAt:  s.finishedAt,
	}
}

// JobName returns the name of the job that produced the snapshot.
func (s *Snapshot) JobName() string { return s.jobName }

// Tally returns the tally of the given kind.
func (s *Snapshot) Tally(kind stats.Kind) stats.Tally { return s.tallies[kind] }

// Directories returns the directory tally.
func (s *Snapshot) Directories() stats.Tally { return s.tallies[stats.Directories] }

// Files returns the file tally.
func (s *Snapshot) Files() stats.Tally { return s.tallies[stats.Files] }

// Bytes returns the byte tally.
func (s *Snapshot) Bytes() stats.Tally { return s.tallies[stats.Bytes] }

// Speed returns the job's transfer rate.
func (s *Snapshot) Speed() stats.SpeedSample { return s.speed }

// Status returns the job's exit status.
func (s *Snapshot) Status() stats.ExitStatus { return s.status }

// LogLines returns a copy of the job's log lines.
func (s *Snapshot) LogLines() []string { return slices.Clone(s.logLines) }

// StartedAt returns when the job started.
func (s *Snapshot) StartedAt() time.Time { return s.startedAt }

// FinishedAt returns when the job finished.
func (s *Snapshot) FinishedAt() time.Time { return s.finishedAt }

// Duration returns the job's wall-clock run time.
func (s *Snapshot) Duration() time.Duration { return s.finishedAt.Sub(s.startedAt) }
