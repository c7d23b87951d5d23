package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"posflow/pkg/product"
)

// Runs against a live database only when DATABASE_URL is set.
func TestRepository(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.ExecContext(ctx, Schema)
	require.NoError(t, err)

	repo := New(db)
	p := product.Product{ID: uuid.NewString(), Name: "Tea", SKU: "T01", Price: decimal.RequireFromString("2.75"), Stock: 4}
	require.NoError(t, repo.Create(ctx, p))
	defer repo.Delete(ctx, p.ID)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, got.Price.Equal(p.Price))

	p.Stock = 9
	require.NoError(t, repo.Update(ctx, p))
	got, err = repo.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 9, got.Stock)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.Get(ctx, p.ID)
	require.ErrorIs(t, err, product.ErrNotFound)
}
