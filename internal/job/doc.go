// Package job defines the contract between the orchestrator and the copy
// jobs it drives, together with the event payloads jobs publish and the
// completion handle returned by Start.
//
// The orchestrator never performs file I/O. Everything it knows about a copy
// comes through this contract: lifecycle control, boolean state, four event
// streams and the final results.Snapshot.
package job
