package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"posflow/pkg/auth"
)

// Runs against a live server only when REDIS_ADDR is set.
func TestStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	s := New(client)

	sess, err := s.Create(ctx, auth.Session{User: auth.User{ID: "2", Username: "cashier", Role: auth.RoleCashier}}, time.Minute)
	require.NoError(t, err)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, auth.RoleCashier, got.User.Role)

	require.NoError(t, s.Delete(ctx, sess.ID))
	_, err = s.Get(ctx, sess.ID)
	require.ErrorIs(t, err, auth.ErrSessionNotFound)
}
