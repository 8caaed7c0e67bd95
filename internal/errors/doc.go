// Package errors provides typed errors with exit codes for sandpool-ctl.
//
// # Error Types
//
// PoolError is the base error type that wraps an error with a kind and an
// exit code:
//
//	type PoolError struct {
//	    Kind    Kind   // Error category
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Error Kinds
//
// The taxonomy mirrors the failure modes of the pool protocol:
//
//	KindStoreUnavailable  // record store unreachable or rate-limited (retryable by re-running)
//	KindNotFound          // record absent from the store
//	KindCorruptRecord     // record value is not valid JSON
//	KindAllocationTimeout // allocation deadline elapsed
//	KindNoCapacity        // no records exist or nothing is claimable
//	KindNothingToRelease  // no record bound to the given issue
//	KindProvisionerError  // provisioner invocation failed
//	KindConfigError       // configuration invalid or unreadable
//
// # Exit Codes
//
// Every entry point exits 0 on success (including expected-empty results)
// and 1 on any terminal failure. All error kinds therefore map to exit
// code 1; the kind is for programmatic handling, not the exit status.
//
// # Error Constructors
//
// Use the provided constructors for consistent error creation:
//
//	errors.NoCapacity("ci", "main")
//	errors.AllocationTimeout("ci", "main", 30*time.Minute)
//	errors.StoreUnavailable("list variables", err)
//
// # Extracting Exit Codes
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
