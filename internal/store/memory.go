// internal/store/memory.go
//
// In-memory store for live sessions hosted by the HTTP server.
// Sessions are ephemeral: the durable part of a player's state (the solved
// set) lives in the progress store, so nothing here needs to survive a restart.
//
// Characteristics:
//   - Generic over the stored value; keyed by a string id.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Get returns ErrNotFound for unknown ids.

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("store: not found")

// Store defines the persistence interface for live sessions.
type Store[T any] interface {
	// Save persists or replaces the value under id.
	Save(ctx context.Context, id string, v T) error

	// Get retrieves the value stored under id.
	Get(ctx context.Context, id string) (T, error)

	// Delete forgets id. Unknown ids are ignored.
	Delete(ctx context.Context, id string) error

	// Len reports how many values are held.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore[T any]() Store[T] {
	return &memory[T]{items: make(map[string]T)}
}

func (m *memory[T]) Save(ctx context.Context, id string, v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = v
	return nil
}

func (m *memory[T]) Get(ctx context.Context, id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.items[id]; ok {
		return v, nil
	}
	var zero T
	return zero, ErrNotFound
}

func (m *memory[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
