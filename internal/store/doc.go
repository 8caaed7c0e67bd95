// Package store provides typed access to the external record store.
//
// The store is a remote key-value service holding named opaque JSON
// blobs. It offers no transactions, no compare-and-swap, and only
// eventual read consistency across parallel readers. Every component
// that mutates a record must therefore re-read it immediately before
// writing and tolerate interleaved writers; see the pool package for
// the transition discipline built on top of this contract.
//
// The production implementation stores records as GitHub Actions
// repository variables. An in-memory implementation backs tests.
package store
