// Package provisioner defines the interface to the external sandbox
// provisioner and its implementations. Provisioning is asynchronous:
// Create only submits a request, and completion is observed later
// through Statuses. This abstraction allows comprehensive testing
// through mocking.
package provisioner

import (
	"context"
)

// State is the provisioner-side state of a sandbox creation request.
type State string

const (
	StateInProgress State = "InProgress"
	StateCompleted  State = "Completed"
	StateFailed     State = "Failed"
)

// DeleteResult describes the outcome of a deprovision request.
type DeleteResult int

const (
	// Deleted means the backing environment was removed.
	Deleted DeleteResult = iota

	// AlreadyGone means the environment no longer existed. Callers
	// treat this as success.
	AlreadyGone
)

// CreateRequest describes one sandbox to provision.
type CreateRequest struct {
	// Name is the sandbox identifier, chosen by the caller.
	Name string

	// Pool is the logical pool the sandbox is provisioned for; used
	// only for the request description.
	Pool string

	// Source names the environment to clone from. The literal
	// "production" provisions a fresh environment instead of a clone.
	Source string
}

// UserResult is the outcome of provisioning a user in a sandbox.
type UserResult struct {
	Username string

	// PasswordReset reports whether the user's credential reset went
	// through. When false the requester must contact an administrator.
	PasswordReset bool
}

// Provisioner is the contract with the external environment manager.
// All methods are safe for concurrent use.
type Provisioner interface {
	// Create submits an asynchronous creation request. A nil error
	// means the request was accepted, not that the sandbox exists.
	Create(ctx context.Context, req CreateRequest) error

	// Statuses returns the current provisioning state of every known
	// sandbox, keyed by name.
	Statuses(ctx context.Context) (map[string]State, error)

	// Delete removes the backing environment for a sandbox.
	Delete(ctx context.Context, name string) (DeleteResult, error)

	// SetupUser provisions a user account in a developer sandbox.
	SetupUser(ctx context.Context, sandbox, email string) (UserResult, error)

	// ActivateUsers toggles the given user list in a pool sandbox.
	// Best-effort at every call site.
	ActivateUsers(ctx context.Context, sandbox string, users []string) error
}
