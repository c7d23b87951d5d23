package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posflow/pkg/auth"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	s := New()
	s.now = func() time.Time { return now }

	sess, err := s.Create(ctx, auth.Session{User: auth.User{ID: "1", Username: "admin", Role: auth.RoleAdmin}}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, now.Add(time.Hour), sess.ExpiresAt)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.User.Username)

	now = now.Add(2 * time.Hour)
	_, err = s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)

	sess, _ = s.Create(ctx, auth.Session{}, time.Hour)
	require.NoError(t, s.Delete(ctx, sess.ID))
	_, err = s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}
