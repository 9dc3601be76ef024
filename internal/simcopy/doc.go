// Package simcopy provides a simulated copy job. A Job walks a generated,
// seeded tree of directories and files at a configurable pace, emits the
// same events a real copy tool wrapper would, and resolves with a snapshot
// derived from what it emitted. It is used by the copyqueue binary for demos
// and by tests that need realistic, reproducible jobs.
package simcopy
