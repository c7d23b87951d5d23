package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"posflow/pkg/category"
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

	now := time.Now().UTC().Truncate(time.Second)
	svc := category.NewService(New(db))
	parent, err := svc.Create(ctx, category.Input{Name: "Toys " + uuid.NewString()})
	require.NoError(t, err)
	child, err := svc.Create(ctx, category.Input{Name: "Puzzles", ParentCategoryID: parent.ID})
	require.NoError(t, err)
	require.False(t, child.CreatedAt.Before(now))

	require.ErrorIs(t, svc.Delete(ctx, parent.ID), category.ErrHasSubcategories)
	require.NoError(t, svc.Delete(ctx, child.ID))
	require.NoError(t, svc.Delete(ctx, parent.ID))

	_, err = svc.Get(ctx, parent.ID)
	require.ErrorIs(t, err, category.ErrNotFound)
}
