package store

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/firefly-engineering/sandpool-ctl/internal/errors"
)

// Memory is an in-memory Store for tests. It supports error injection
// per operation and records every call for verification.
type Memory struct {
	mu sync.RWMutex

	entries map[string]Entry

	// Errors maps operation names ("list", "read", "write", "delete")
	// to errors returned on the next matching call.
	Errors map[string]error

	// CallLog records all operations in order.
	CallLog []MemoryCall

	// Clock supplies entry creation timestamps; defaults to time.Now.
	Clock func() time.Time
}

// MemoryCall is one recorded store operation.
type MemoryCall struct {
	Op  string
	Key string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]Entry),
		Errors:  make(map[string]error),
		Clock:   time.Now,
	}
}

// Seed inserts an entry directly, bypassing the call log. The creation
// instant is taken from the clock unless already set on a prior seed.
func (m *Memory) Seed(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := m.Clock()
	if existing, ok := m.entries[key]; ok {
		created = existing.CreatedAt
	}
	m.entries[key] = Entry{Key: key, Value: value, CreatedAt: created}
}

// SeedAt inserts an entry with an explicit creation instant.
func (m *Memory) SeedAt(key string, value []byte, createdAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = Entry{Key: key, Value: value, CreatedAt: createdAt}
}

// SetError injects an error for an operation ("list", "read", "write",
// "delete").
func (m *Memory) SetError(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[op] = err
}

// Get returns the current entry and whether it exists, without logging.
func (m *Memory) Get(key string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	return e, ok
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Calls returns all calls recorded for the given operation.
func (m *Memory) Calls(op string) []MemoryCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MemoryCall
	for _, c := range m.CallLog {
		if c.Op == op {
			calls = append(calls, c)
		}
	}
	return calls
}

func (m *Memory) record(op, key string) error {
	m.CallLog = append(m.CallLog, MemoryCall{Op: op, Key: key})
	return m.Errors[op]
}

// List returns a snapshot of entries matching pattern, in key order.
func (m *Memory) List(ctx context.Context, pattern string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("list", pattern); err != nil {
		return nil, err
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for key, e := range m.entries {
		if re.MatchString(key) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Read returns the entry for key.
func (m *Memory) Read(ctx context.Context, key string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("read", key); err != nil {
		return Entry{}, err
	}

	e, ok := m.entries[key]
	if !ok {
		return Entry{}, errors.RecordNotFound(key)
	}
	return e, nil
}

// Write overwrites the entry unconditionally, creating it when absent.
func (m *Memory) Write(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("write", key); err != nil {
		return err
	}

	created := m.Clock()
	if existing, ok := m.entries[key]; ok {
		created = existing.CreatedAt
	}
	m.entries[key] = Entry{Key: key, Value: value, CreatedAt: created}
	return nil
}

// Delete removes the entry for key.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("delete", key); err != nil {
		return err
	}

	if _, ok := m.entries[key]; !ok {
		return errors.RecordNotFound(key)
	}
	delete(m.entries, key)
	return nil
}
