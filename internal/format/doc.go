// Package format holds the display helpers shared by the CLI and the TUI:
// durations, ETAs, byte counts, rates, grouped numbers and progress bars.
package format
