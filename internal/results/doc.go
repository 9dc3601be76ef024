// Package results defines the immutable per-job result snapshot and the
// aggregated result set that keeps running totals over a changing collection
// of snapshots.
//
// Aggregate views (one counter per kind, the average speed and the combined
// exit status) are computed on first read and then maintained incrementally
// as snapshots are added or removed. Views that are never read cost nothing.
package results
