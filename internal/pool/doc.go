// Package pool implements the sandbox pool state machine: allocation,
// provisioning reconciliation, expiry, reclamation, release, and
// reporting.
//
// Every component is a short-lived single pass over the record store.
// The store offers no transactions and no compare-and-swap, so safety
// across concurrent invocations comes from discipline, not locking:
// transitions are monotonic, every mutation re-reads the record
// immediately before writing, and applying the same transition twice
// converges to the same state.
package pool
