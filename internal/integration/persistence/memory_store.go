// Package persistence implements the key-value media behind the transaction cache.
package persistence

import (
	"context"
	"sync"

	"github.com/finance-tracker/txcache/internal/application/adapter"
)

// memoryStore is an in-memory implementation of adapter.KeyValueStore.
// It is safe for concurrent use. Data is lost on restart.
type memoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates a new in-memory key-value store.
func NewMemoryStore() adapter.KeyValueStore {
	return &memoryStore{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key.
func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set stores a copy of value under key.
func (s *memoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
