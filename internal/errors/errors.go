package errors

import (
	"errors"
	"fmt"
	"time"
)

// Exit codes for sandpool-ctl. The convention across all entry points is
// 0 for success or an expected-empty result and 1 for any fatal failure.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Kind categorizes a PoolError. The kinds mirror the protocol-level
// failure modes of the pool state machine.
type Kind int

const (
	KindGeneral Kind = iota
	KindStoreUnavailable
	KindNotFound
	KindCorruptRecord
	KindAllocationTimeout
	KindNoCapacity
	KindNothingToRelease
	KindProvisionerError
	KindConfigError
)

// String returns the kind's name for logging.
func (k Kind) String() string {
	switch k {
	case KindStoreUnavailable:
		return "store-unavailable"
	case KindNotFound:
		return "not-found"
	case KindCorruptRecord:
		return "corrupt-record"
	case KindAllocationTimeout:
		return "allocation-timeout"
	case KindNoCapacity:
		return "no-capacity"
	case KindNothingToRelease:
		return "nothing-to-release"
	case KindProvisionerError:
		return "provisioner-error"
	case KindConfigError:
		return "config-error"
	default:
		return "general"
	}
}

// PoolError is the base error type for sandpool-ctl.
type PoolError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *PoolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PoolError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the process exit code for this error.
func (e *PoolError) ExitCode() int {
	return ExitFailure
}

// New creates a new PoolError.
func New(kind Kind, message string) *PoolError {
	return &PoolError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with a PoolError.
func Wrap(kind Kind, message string, cause error) *PoolError {
	return &PoolError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// StoreUnavailable returns an error for an unreachable or rate-limited
// record store. The invocation is expected to be retried by the scheduler,
// not in-process.
func StoreUnavailable(op string, cause error) *PoolError {
	return Wrap(KindStoreUnavailable, fmt.Sprintf("record store unavailable during %s", op), cause)
}

// RecordNotFound returns an error for a record absent from the store.
func RecordNotFound(key string) *PoolError {
	return New(KindNotFound, fmt.Sprintf("record not found: %s", key))
}

// CorruptRecord returns an error for a record whose value cannot be decoded.
func CorruptRecord(key string, cause error) *PoolError {
	return Wrap(KindCorruptRecord, fmt.Sprintf("corrupt record: %s", key), cause)
}

// AllocationTimeout returns an error for an allocation that exhausted its
// wait budget.
func AllocationTimeout(pool, branch string, waited time.Duration) *PoolError {
	return New(KindAllocationTimeout,
		fmt.Sprintf("no sandbox became available in %s/%s within %s", pool, branch, waited))
}

// NoCapacity returns an error for a pool with no claimable records.
func NoCapacity(pool, branch string) *PoolError {
	return New(KindNoCapacity, fmt.Sprintf("no sandboxes available in %s/%s", pool, branch))
}

// NothingToRelease returns an error when no record is bound to an issue.
func NothingToRelease(issue string) *PoolError {
	return New(KindNothingToRelease, fmt.Sprintf("no sandbox assigned to issue %s", issue))
}

// ProvisionerError returns an error for a failed provisioner invocation.
func ProvisionerError(op string, cause error) *PoolError {
	return Wrap(KindProvisionerError, fmt.Sprintf("provisioner %s failed", op), cause)
}

// ConfigError returns an error for configuration issues.
func ConfigError(message string, cause error) *PoolError {
	return Wrap(KindConfigError, message, cause)
}

// IsKind reports whether err is a PoolError of the given kind.
func IsKind(err error, kind Kind) bool {
	var poolErr *PoolError
	if errors.As(err, &poolErr) {
		return poolErr.Kind == kind
	}
	return false
}

// GetExitCode extracts the exit code from an error. A nil error maps to
// ExitSuccess; everything else is fatal.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var poolErr *PoolError
	if errors.As(err, &poolErr) {
		return poolErr.ExitCode()
	}
	return ExitFailure
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
