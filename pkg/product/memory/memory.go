// Package memory implements an in-memory product repository.
package memory

import (
	"context"
	"slices"
	"sync"

	"posflow/pkg/product"
)

// Repository provides an in-memory implementation of product.Repository.
// Products are listed in insertion order.
type Repository struct {
	mu       sync.RWMutex
	products map[string]product.Product
	order    []string
}

// New creates a repository holding the given products.
func New(seed ...product.Product) *Repository {
	r := &Repository{products: make(map[string]product.Product)}
	for _, p := range seed {
		r.products[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

// Create stores the product.
func (r *Repository) Create(ctx context.Context, p product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.products[p.ID] = p
	return nil
}

// Get retrieves a product by ID.
func (r *Repository) Get(ctx context.Context, id string) (product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	return p, nil
}

// List returns all products.
func (r *Repository) List(ctx context.Context) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]product.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}

// Update replaces an existing product.
func (r *Repository) Update(ctx context.Context, p product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return product.ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return product.ErrNotFound
	}
	delete(r.products, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}
