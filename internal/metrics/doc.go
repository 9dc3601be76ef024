// Package metrics records orchestration metrics. The orchestrator depends on
// the Recorder interface; Prometheus exports the values through a private
// registry and Nop discards them.
package metrics
