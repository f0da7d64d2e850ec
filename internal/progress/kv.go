// internal/progress/kv.go
//
// Key-value persistent-store capability used to keep player progress.
// The host picks a backend at construction time:
//   - memory: lives as long as the process (score-only sessions, tests).
//   - SQLite: survives across sessions (see sqlite.go).
//
// Characteristics:
//   - Concurrency-safe.
//   - Get returns ErrNotFound for absent keys; callers decide what absence means.

package progress

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by KV.Get when the key has never been set or was deleted.
var ErrNotFound = errors.New("progress: key not found")

// KV defines the persistence interface for progress data.
// Implementations may be backed by memory (this file), SQLite, etc.
type KV interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// memory is an in-memory map-based KV implementation.
type memory struct {
	mu   sync.RWMutex      // guards data
	data map[string]string // keyed by storage key
}

// NewMemoryKV constructs a new in-memory KV.
func NewMemoryKV() KV {
	return &memory{data: make(map[string]string)}
}

func (m *memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (m *memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
