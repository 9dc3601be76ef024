// Package stats holds the numeric building blocks of copy-job accounting:
// six-field tallies tagged by kind, the mutable Counter that accumulates them
// with difference-based change notification, rate samples with a bias-free
// running average, and the bit-flag exit status reported by each job.
//
// Counters are safe for concurrent use. AverageSpeed and CombinedStatus are
// plain values; callers that share them across goroutines guard them.
package stats
