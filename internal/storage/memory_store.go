package storage

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory OrderedStore. It keeps the key order in a
// sorted slice next to the map so Values stays an in-order walk. Useful for
// tests and for running the service without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
	keys    []string
}

// NewMemoryStore creates an empty in-memory ordered store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
	}
}

// Get returns the value stored under key, or (nil, false, nil) on a miss.
func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

// Insert stores value under key, overwriting any existing value.
func (s *MemoryStore) Insert(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists {
		i := sort.SearchStrings(s.keys, key)
		s.keys = append(s.keys, "")
		copy(s.keys[i+1:], s.keys[i:])
		s.keys[i] = key
	}
	s.entries[key] = value
	return nil
}

// Remove deletes the entry for key and returns the removed value.
func (s *MemoryStore) Remove(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	delete(s.entries, key)
	i := sort.SearchStrings(s.keys, key)
	s.keys = append(s.keys[:i], s.keys[i+1:]...)
	return value, true, nil
}

// ContainsKey reports whether an entry exists for key.
func (s *MemoryStore) ContainsKey(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[key]
	return ok, nil
}

// Values enumerates every stored value in ascending key order.
func (s *MemoryStore) Values() ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make([][]byte, 0, len(s.keys))
	for _, key := range s.keys {
		values = append(values, s.entries[key])
	}
	return values, nil
}
