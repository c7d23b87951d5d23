// Package memory implements an in-memory cart repository.
package memory

import (
	"context"
	"sync"

	"posflow/pkg/cart"
)

// Repository provides an in-memory implementation of cart.Repository.
type Repository struct {
	mu    sync.Mutex
	carts map[string]cart.State
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{carts: make(map[string]cart.State)}
}

// Get returns the session's cart.
func (r *Repository) Get(ctx context.Context, sessionID string) (cart.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cart.FromState(r.carts[sessionID]).State(), nil
}

// Update applies fn under the repository lock.
func (r *Repository) Update(ctx context.Context, sessionID string, fn func(*cart.Cart) error) (cart.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := cart.FromState(r.carts[sessionID])
	if err := fn(c); err != nil {
		return cart.State{}, err
	}
	r.carts[sessionID] = c.State()
	return c.State(), nil
}

// Delete removes the session's cart.
func (r *Repository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}
