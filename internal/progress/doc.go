// Package progress coalesces high-frequency per-item progress events from
// many concurrently running jobs into a bounded-rate stream of totals.
//
// Incoming events are merged into write-only buffers under a short critical
// section. Publishing is guarded separately: a publish swaps the buffers out,
// folds them into the observable totals and raises exactly one notification.
// A publish attempt that finds the gate busy leaves its contribution for the
// next flush, and one rejected by the period gate schedules a trailing flush,
// so no contribution is lost or published twice.
package progress
