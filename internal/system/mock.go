package system

import (
	"context"
	"strings"
	"sync"
)

// MockExecutor implements CommandExecutor for testing. Outputs are
// scripted per command line; unscripted commands return empty output.
type MockExecutor struct {
	mu sync.Mutex

	// Outputs maps a full command line (name + args joined with spaces)
	// to the bytes returned for it.
	Outputs map[string][]byte

	// Errors maps a full command line to an error returned for it.
	Errors map[string]error

	// Commands records every executed command line in order.
	Commands []string
}

// NewMockExecutor creates an empty mock executor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Outputs: make(map[string][]byte),
		Errors:  make(map[string]error),
	}
}

// Script sets the output and error for a full command line.
func (m *MockExecutor) Script(cmdline string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outputs[cmdline] = output
	if err != nil {
		m.Errors[cmdline] = err
	}
}

func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmdline := strings.Join(append([]string{name}, args...), " ")
	m.Commands = append(m.Commands, cmdline)
	return m.Outputs[cmdline], m.Errors[cmdline]
}
