// Package logging provides a unified logging interface for the copy queue.
// It abstracts the underlying logging implementation (zerolog by default) so
// that the orchestrator, the progress coalescer and job implementations log
// consistently while supporting multiple backends.
package logging
