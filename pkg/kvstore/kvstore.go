// Package kvstore provides a generic, thread-safe, in-memory key-value store.
// It backs the session-scoped dismissal state and other ephemeral engine
// caches, and supports JSON snapshots for admin inspection and seeding.
package kvstore

import (
	"encoding/json"
	"sync"
)

// Store is a generic, thread-safe, in-memory store for values of type T.
// T must be a value that can be marshaled/unmarshaled to JSON.
type Store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// New creates an empty Store.
func New[T any]() *Store[T] {
	return &Store[T]{items: make(map[string]T)}
}

// Set stores a value under the given key, overwriting any existing value.
func (s *Store[T]) Set(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// Get retrieves a value by key. Returns the value and true if present,
// zero value and false otherwise.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Delete removes a key. Returns true if the key existed.
func (s *Store[T]) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		return false
	}
	delete(s.items, key)
	return true
}

// Len returns the number of stored keys.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Keys returns all keys in unspecified order.
func (s *Store[T]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys
}

// Reset removes all keys.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
}

// Snapshot returns a copy of all items as a JSON-serializable map.
func (s *Store[T]) Snapshot() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]T, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}

// LoadSnapshot replaces all items from a map. Existing items are cleared.
func (s *Store[T]) LoadSnapshot(snapshot map[string]T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T, len(snapshot))
	for k, v := range snapshot {
		s.items[k] = v
	}
}

// MarshalJSON serializes the store to JSON (the items map).
func (s *Store[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// UnmarshalJSON deserializes JSON into the store, replacing existing items.
func (s *Store[T]) UnmarshalJSON(data []byte) error {
	var snapshot map[string]T
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return err
	}
	s.LoadSnapshot(snapshot)
	return nil
}
