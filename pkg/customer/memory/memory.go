// Package memory implements an in-memory customer repository.
package memory

import (
	"context"
	"slices"
	"sync"

	"posflow/pkg/customer"
)

// Repository provides an in-memory implementation of customer.Repository.
type Repository struct {
	mu        sync.RWMutex
	customers map[string]customer.Customer
	order     []string
}

// New creates a repository holding the given customers.
func New(seed ...customer.Customer) *Repository {
	r := &Repository{customers: make(map[string]customer.Customer)}
	for _, c := range seed {
		r.customers[c.ID] = c
		r.order = append(r.order, c.ID)
	}
	return r
}

// Create stores the customer.
func (r *Repository) Create(ctx context.Context, c customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.ID]; !ok {
		r.order = append(r.order, c.ID)
	}
	r.customers[c.ID] = c
	return nil
}

// Get retrieves a customer by ID.
func (r *Repository) Get(ctx context.Context, id string) (customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return customer.Customer{}, customer.ErrNotFound
	}
	return c, nil
}

// List returns all customers in insertion order.
func (r *Repository) List(ctx context.Context) ([]customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]customer.Customer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.customers[id])
	}
	return out, nil
}

// Update replaces an existing customer, keeping its creation time.
func (r *Repository) Update(ctx context.Context, c customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.customers[c.ID]
	if !ok {
		return customer.ErrNotFound
	}
	c.CreatedAt = old.CreatedAt
	r.customers[c.ID] = c
	return nil
}

// Delete removes a customer by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return customer.ErrNotFound
	}
	delete(r.customers, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}
