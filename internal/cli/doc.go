// Package cli renders a copyqueue run in a terminal: a spinner with a
// progress bar while jobs run, then a per-job table, the aggregate totals and
// the combined status. It also writes plain-text run reports.
package cli
