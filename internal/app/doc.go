// Package app wires the copyqueue command together: it parses the
// configuration, builds the job queue, serves metrics when asked to and runs
// the queue in the terminal or in the interactive dashboard.
package app
