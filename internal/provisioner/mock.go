package provisioner

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a mock implementation of Provisioner for testing.
type Mock struct {
	mu sync.Mutex

	// States is returned by Statuses.
	States map[string]State

	// DeleteResults maps sandbox names to the result of Delete.
	// Sandboxes without an entry report Deleted.
	DeleteResults map[string]DeleteResult

	// UserResults maps sandbox names to the result of SetupUser.
	UserResults map[string]UserResult

	// Errors allows injecting errors for specific operations
	// ("create", "statuses", "delete", "setup-user", "activate").
	// For "create" and "delete" the key may also be "op:name" to fail
	// only a single sandbox.
	Errors map[string]error

	// CallLog records all method calls for verification.
	CallLog []MockCall
}

// MockCall represents a recorded method call.
type MockCall struct {
	Method string
	Args   []interface{}
}

// NewMock creates a new mock provisioner.
func NewMock() *Mock {
	return &Mock{
		States:        make(map[string]State),
		DeleteResults: make(map[string]DeleteResult),
		UserResults:   make(map[string]UserResult),
		Errors:        make(map[string]error),
	}
}

// SetError sets an error to be returned for an operation, or for an
// operation on a single sandbox when key is "op:name".
func (m *Mock) SetError(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[key] = err
}

// SetState sets the provisioning state reported for a sandbox.
func (m *Mock) SetState(name string, state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.States[name] = state
}

// CallsFor returns all recorded calls for a method.
func (m *Mock) CallsFor(method string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var calls []MockCall
	for _, c := range m.CallLog {
		if c.Method == method {
			calls = append(calls, c)
		}
	}
	return calls
}

func (m *Mock) record(method string, args ...interface{}) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
}

func (m *Mock) opError(op, name string) error {
	if err, ok := m.Errors[fmt.Sprintf("%s:%s", op, name)]; ok {
		return err
	}
	return m.Errors[op]
}

func (m *Mock) Create(ctx context.Context, req CreateRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Create", req)
	if err := m.opError("create", req.Name); err != nil {
		return err
	}
	m.States[req.Name] = StateInProgress
	return nil
}

func (m *Mock) Statuses(ctx context.Context) (map[string]State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Statuses")
	if err := m.Errors["statuses"]; err != nil {
		return nil, err
	}
	states := make(map[string]State, len(m.States))
	for k, v := range m.States {
		states[k] = v
	}
	return states, nil
}

func (m *Mock) Delete(ctx context.Context, name string) (DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Delete", name)
	if err := m.opError("delete", name); err != nil {
		return 0, err
	}
	return m.DeleteResults[name], nil
}

func (m *Mock) SetupUser(ctx context.Context, sandbox, email string) (UserResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetupUser", sandbox, email)
	if err := m.opError("setup-user", sandbox); err != nil {
		return UserResult{}, err
	}
	if result, ok := m.UserResults[sandbox]; ok {
		return result, nil
	}
	return UserResult{Username: "user@" + sandbox, PasswordReset: true}, nil
}

func (m *Mock) ActivateUsers(ctx context.Context, sandbox string, users []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ActivateUsers", sandbox, users)
	return m.opError("activate", sandbox)
}
