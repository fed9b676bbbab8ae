// Package dismiss persists the set of banner priorities a shopper has
// dismissed. The set is read once per render and written whole on each
// explicit dismiss, serialized as a JSON array of integers under a fixed
// key per session. Storage failure is never fatal: callers degrade to
// in-memory behavior for the current render.
package dismiss

import (
	"context"
	"sort"

	"github.com/cartsignal/cartsignal/pkg/kvstore"
)

// keyPrefix namespaces dismissal keys in shared backends.
const keyPrefix = "cartsignal:dismissed:"

// Store reads and writes a shopper's dismissed-priority set.
type Store interface {
	Get(ctx context.Context, sessionID string) ([]int, error)
	Set(ctx context.Context, sessionID string, priorities []int) error
	Clear(ctx context.Context, sessionID string) error
}

// MemoryStore keeps dismissal sets in process memory, scoped to the
// lifetime of the service. This is the session-persistence backend.
type MemoryStore struct {
	sets *kvstore.Store[[]int]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: kvstore.New[[]int]()}
}

// Get returns the dismissed priorities for a session, sorted ascending.
func (s *MemoryStore) Get(_ context.Context, sessionID string) ([]int, error) {
	v, ok := s.sets.Get(keyPrefix + sessionID)
	if !ok {
		return nil, nil
	}
	out := make([]int, len(v))
	copy(out, v)
	return out, nil
}

// Set replaces the dismissed priorities for a session.
func (s *MemoryStore) Set(_ context.Context, sessionID string, priorities []int) error {
	s.sets.Set(keyPrefix+sessionID, Normalize(priorities))
	return nil
}

// Clear removes the session's dismissal set.
func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.sets.Delete(keyPrefix + sessionID)
	return nil
}

// Reset drops every session's dismissal set.
func (s *MemoryStore) Reset() {
	s.sets.Reset()
}

// NoopStore discards all writes and always reads empty. Used when
// dismissal persistence is configured off.
type NoopStore struct{}

func (NoopStore) Get(context.Context, string) ([]int, error) { return nil, nil }
func (NoopStore) Set(context.Context, string, []int) error   { return nil }
func (NoopStore) Clear(context.Context, string) error        { return nil }

// Normalize deduplicates and sorts a priority list ascending.
func Normalize(priorities []int) []int {
	seen := make(map[int]bool, len(priorities))
	out := make([]int, 0, len(priorities))
	for _, p := range priorities {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}

// Contains reports whether the sorted list holds the priority.
func Contains(priorities []int, p int) bool {
	i := sort.SearchInts(priorities, p)
	return i < len(priorities) && priorities[i] == p
}
