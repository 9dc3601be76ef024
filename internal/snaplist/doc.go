// Package snaplist implements a thread-safe, copy-on-write ordered list.
//
// Every mutation runs under a single gate and publishes a new immutable
// backing slice with one atomic store. Readers dereference the current slice
// without locking and therefore always observe a complete, if possibly stale,
// state. Each structural mutation raises change notifications that describe
// it; these are delivered synchronously, in mutation order, on the mutating
// goroutine while the gate is held. Handlers may read the list but must not
// mutate it.
//
// Consumers that need single-goroutine delivery (a UI loop, for instance)
// adapt the notifications themselves; see the tui package bridge.
package snaplist
