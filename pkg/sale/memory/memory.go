// Package memory implements an in-memory sale repository.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"posflow/pkg/sale"
)

// Repository provides an in-memory implementation of sale.Repository.
type Repository struct {
	mu    sync.RWMutex
	sales []sale.Sale
	seq   int
}

// New creates a repository holding the given sales. New sales are numbered
// after the seeded ones.
func New(seed ...sale.Sale) *Repository {
	return &Repository{sales: append([]sale.Sale(nil), seed...), seq: len(seed)}
}

// Create stores the sale and assigns its number.
func (r *Repository) Create(ctx context.Context, s *sale.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	s.Number = sale.FormatNumber(r.seq)
	r.sales = append(r.sales, *s)
	return nil
}

// Get retrieves a sale by ID.
func (r *Repository) Get(ctx context.Context, id string) (sale.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return sale.Sale{}, sale.ErrNotFound
}

// List returns all sales, newest first.
func (r *Repository) List(ctx context.Context) ([]sale.Sale, error) {
	r.mu.RLock()
	out := append([]sale.Sale(nil), r.sales...)
	r.mu.RUnlock()
	slices.SortStableFunc(out, func(a, b sale.Sale) int { return cmp.Compare(b.Date.UnixNano(), a.Date.UnixNano()) })
	return out, nil
}
