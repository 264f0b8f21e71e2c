package pushtoken

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu     sync.RWMutex
	tokens map[string]*Registration // keyed by token
}

// NewInMemoryRepository creates an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{tokens: make(map[string]*Registration)}
}

// Upsert implements Repository.
func (r *InMemoryRepository) Upsert(_ context.Context, reg *Registration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tokens[reg.Token]
	if ok {
		existing.UserID = reg.UserID
		existing.UpdatedAt = reg.UpdatedAt
		reg.ID = existing.ID
		reg.CreatedAt = existing.CreatedAt
		return false, nil
	}

	stored := *reg
	r.tokens[reg.Token] = &stored
	return true, nil
}

// Delete implements Repository.
func (r *InMemoryRepository) Delete(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tokens[token]
	if !ok || existing.UserID != userID {
		return ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}

// ListByUser implements Repository.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) ([]*Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Registration
	for _, reg := range r.tokens {
		if reg.UserID == userID {
			c := *reg
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ Repository = (*InMemoryRepository)(nil)
