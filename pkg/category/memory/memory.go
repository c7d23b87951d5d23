// Package memory implements an in-memory category repository.
package memory

import (
	"context"
	"slices"
	"sync"

	"posflow/pkg/category"
)

// Repository provides an in-memory implementation of category.Repository.
type Repository struct {
	mu         sync.RWMutex
	categories map[string]category.Category
	order      []string
}

// New creates a repository holding the given categories.
func New(seed ...category.Category) *Repository {
	r := &Repository{categories: make(map[string]category.Category)}
	for _, c := range seed {
		r.categories[c.ID] = c
		r.order = append(r.order, c.ID)
	}
	return r
}

// Create stores the category.
func (r *Repository) Create(ctx context.Context, c category.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		r.order = append(r.order, c.ID)
	}
	c.Subcategories = nil
	r.categories[c.ID] = c
	return nil
}

// Get retrieves a category by ID.
func (r *Repository) Get(ctx context.Context, id string) (category.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok {
		return category.Category{}, category.ErrNotFound
	}
	return c, nil
}

// List returns all categories in insertion order.
func (r *Repository) List(ctx context.Context) ([]category.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]category.Category, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.categories[id])
	}
	return out, nil
}

// Update replaces an existing category.
func (r *Repository) Update(ctx context.Context, c category.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return category.ErrNotFound
	}
	c.Subcategories = nil
	r.categories[c.ID] = c
	return nil
}

// Delete removes a category by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return category.ErrNotFound
	}
	delete(r.categories, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}
