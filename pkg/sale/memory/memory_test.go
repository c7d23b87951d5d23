package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posflow/pkg/sale"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New(sale.Seed()...)

	s := &sale.Sale{ID: "new", Date: time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC), Customer: "Walk-in"}
	require.NoError(t, repo.Create(ctx, s))
	assert.Equal(t, "#004", s.Number)

	got, err := repo.Get(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "#004", got.Number)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "003", list[3].ID)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, sale.ErrNotFound)
}
