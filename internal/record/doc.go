// Package record defines the sandbox record model stored in the record
// store and the key naming convention used to find records.
//
// A record is one ephemeral sandbox slot. Its identity is its name, which
// never changes. The record moves through a small state machine:
//
//	InProgress -> Available -> InUse -> Available | Expired
//	InProgress -> Assigned  -> Expired
//	*          -> Expired   -> (deleted)
//
// Records are stored as opaque JSON values under keys of the form
// POOL_BRANCH_<discriminator>_SBX (CI pool sandboxes) or
// POOL_BRANCH_<discriminator>_DEVSBX (developer sandboxes).
//
// Decoding is deliberately tolerant: historical writers stored boolean
// flags both as JSON booleans and as the strings "true"/"false", and
// epoch-millisecond timestamps both as numbers and as numeric strings.
// The Flag and Millis types accept all of these forms and always encode
// back to the canonical form (boolean, number).
package record
