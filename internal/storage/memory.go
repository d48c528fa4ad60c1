package storage

import (
	"context"
	"sync"
)

// Op names a Backend method for failure injection.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpRemove Op = "remove"
)

// MemoryBackend keeps values in a map. It is meant for tests: failures can be
// injected per operation and writes are counted.
type MemoryBackend struct {
	mu       sync.Mutex
	items    map[string]string
	failures map[Op]error
	writes   int
}

// NewMemoryBackend returns an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		items:    make(map[string]string),
		failures: make(map[Op]error),
	}
}

// FailOn makes every later call of op return err. A nil err clears the failure.
func (m *MemoryBackend) FailOn(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Writes returns how many SetItem and RemoveItem calls succeeded.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// GetItem returns the value stored under key
func (m *MemoryBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx, OpGet); err != nil {
		return "", false, err
	}
	value, ok := m.items[key]
	return value, ok, nil
}

// SetItem stores value under key
func (m *MemoryBackend) SetItem(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx, OpSet); err != nil {
		return err
	}
	m.items[key] = value
	m.writes++
	return nil
}

// RemoveItem deletes key
func (m *MemoryBackend) RemoveItem(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx, OpRemove); err != nil {
		return err
	}
	delete(m.items, key)
	m.writes++
	return nil
}

// check must be called with mu held
func (m *MemoryBackend) check(ctx context.Context, op Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := m.failures[op]; ok {
		return err
	}
	return nil
}
