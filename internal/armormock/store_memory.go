package armormock

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps resources in process memory. This is the default
// backend for tests; data does not survive process restarts.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryStore creates an empty in-memory resource store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

// Create stores a new resource.
func (s *MemoryStore) Create(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[name]; exists {
		return ErrExists
	}
	s.items[name] = append([]byte(nil), data...)
	return nil
}

// Put stores a resource unconditionally.
func (s *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[name] = append([]byte(nil), data...)
	return nil
}

// Get retrieves one resource by name.
func (s *MemoryStore) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.items[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// List returns resources under prefix ordered by name, after the cursor.
func (s *MemoryStore) List(_ context.Context, prefix string, limit int, after string) ([]Resource, error) {
	limit = normalizeLimit(limit)

	s.mu.RLock()
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		if strings.HasPrefix(name, prefix) && name > after {
			names = append(names, name)
		}
	}
	s.mu.RUnlock()

	sort.Strings(names)
	if len(names) > limit {
		names = names[:limit]
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Resource, 0, len(names))
	for _, name := range names {
		if data, ok := s.items[name]; ok {
			out = append(out, Resource{Name: name, Data: append([]byte(nil), data...)})
		}
	}
	return out, nil
}

// Delete removes one resource by name.
func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[name]; !exists {
		return ErrNotFound
	}
	delete(s.items, name)
	return nil
}

// Close releases resources (no-op for the memory store).
func (s *MemoryStore) Close() error {
	return nil
}
