// Package orchestration runs a set of copy jobs under a concurrency ceiling,
// republishes their events under a single identity and assembles one result
// snapshot per member into an aggregated result set.
//
// The Orchestrator is long-lived and reusable across runs. Its member list
// may not be mutated while a run is active. StartAll returns immediately with
// a Run handle; enqueueing and draining happen on background goroutines, and
// Pause, Resume and Stop never block. Presentation is decoupled through the
// ProgressReporter and ResultPresenter interfaces.
package orchestration
