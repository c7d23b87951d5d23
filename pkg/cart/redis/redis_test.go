package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"posflow/pkg/cart"
)

// Runs against a live server only when REDIS_ADDR is set.
func TestRepository(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	repo := New(client, time.Minute)
	sid := uuid.NewString()
	defer repo.Delete(ctx, sid)

	st, err := repo.Update(ctx, sid, func(c *cart.Cart) error {
		c.Add(cart.Item{ID: "1", Name: "Coffee Bean Bag", Price: decimal.RequireFromString("12.99")})
		c.Add(cart.Item{ID: "1", Name: "Coffee Bean Bag", Price: decimal.RequireFromString("12.99")})
		return nil
	})
	require.NoError(t, err)
	require.Len(t, st.Items, 1)

	got, err := repo.Get(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, 2, got.Items[0].Quantity)
	require.True(t, got.Subtotal().Equal(decimal.RequireFromString("25.98")))

	require.NoError(t, repo.Delete(ctx, sid))
	got, err = repo.Get(ctx, sid)
	require.NoError(t, err)
	require.True(t, got.IsEmpty())
}
