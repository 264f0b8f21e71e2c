package session

import (
	"context"
	"sync"
)

// InMemoryStore is a Store kept in process memory.
// This is intended for testing.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[string]string

	// Err, when set, is returned by every operation.
	Err error
}

// NewInMemoryStore creates a store seeded with the given values.
func NewInMemoryStore(seed map[string]string) *InMemoryStore {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &InMemoryStore{values: values}
}

// Get returns the value for key.
func (s *InMemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Err != nil {
		return "", s.Err
	}
	v, ok := s.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

// Set stores value under key.
func (s *InMemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	s.values[key] = value
	return nil
}

// Remove deletes key.
func (s *InMemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	delete(s.values, key)
	return nil
}

// RemoveAll deletes keys.
func (s *InMemoryStore) RemoveAll(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

// Snapshot returns a copy of the stored values.
func (s *InMemoryStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
