package services

import (
	"context"
	"errors"
	"sync"
)

// ErrMockStorage is returned by MockKeyValueStore when a failure is injected
var ErrMockStorage = errors.New("mock storage failure")

// MockKeyValueStore is an in-memory KeyValueStore for tests and the memory backend
type MockKeyValueStore struct {
	items map[string]string
	mu    sync.RWMutex

	failWrites map[string]bool // keys whose SetItem fails; "*" fails all
	failReads  bool
	writes     int
}

// NewMockKeyValueStore creates an empty store
func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{
		items:      make(map[string]string),
		failWrites: make(map[string]bool),
	}
}

// GetItem reads one key
func (m *MockKeyValueStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failReads {
		return "", false, ErrMockStorage
	}
	value, exists := m.items[key]
	return value, exists, nil
}

// SetItem writes one key
func (m *MockKeyValueStore) SetItem(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrites["*"] || m.failWrites[key] {
		return ErrMockStorage
	}
	m.items[key] = value
	m.writes++
	return nil
}

// MultiRemove deletes keys
func (m *MockKeyValueStore) MultiRemove(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrites["*"] {
		return ErrMockStorage
	}
	for _, key := range keys {
		delete(m.items, key)
	}
	return nil
}

// Ping always succeeds
func (m *MockKeyValueStore) Ping(ctx context.Context) error {
	return nil
}

// FailWritesTo makes SetItem fail for key ("*" for every key)
func (m *MockKeyValueStore) FailWritesTo(key string) {
	m.mu.Lock()
	m.failWrites[key] = true
	m.mu.Unlock()
}

// FailReads makes every GetItem fail
func (m *MockKeyValueStore) FailReads(fail bool) {
	m.mu.Lock()
	m.failReads = fail
	m.mu.Unlock()
}

// ResetFailures clears injected failures
func (m *MockKeyValueStore) ResetFailures() {
	m.mu.Lock()
	m.failWrites = make(map[string]bool)
	m.failReads = false
	m.mu.Unlock()
}

// Put stores a raw value, bypassing failure injection (for seeding corrupt data)
func (m *MockKeyValueStore) Put(key, value string) {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
}

// Raw returns the stored value for key (for testing assertions)
func (m *MockKeyValueStore) Raw(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.items[key]
	return value, exists
}

// Keys returns every stored key
func (m *MockKeyValueStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys
}

// WriteCount returns how many SetItem calls succeeded
func (m *MockKeyValueStore) WriteCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
