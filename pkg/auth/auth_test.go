package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posflow/pkg/userapi"
)

func TestMock(t *testing.T) {
	ctx := context.Background()

	s, err := Mock{}.Authenticate(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, s.User.Role)

	s, err = Mock{}.Authenticate(ctx, "cashier", "cashier")
	require.NoError(t, err)
	assert.Equal(t, RoleCashier, s.User.Role)

	_, err = Mock{}.Authenticate(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func remote(t *testing.T, h http.HandlerFunc) Remote {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := userapi.New(srv.URL, userapi.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return Remote{Client: c}
}

func TestRemote(t *testing.T) {
	r := remote(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"accessToken":"tok","user":{"_id":"u9","email":"ann@example.com","role":"admin"}}}`))
	})

	s, err := r.Authenticate(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.UpstreamToken)
	assert.Equal(t, User{ID: "u9", Username: "ann@example.com", Role: RoleAdmin}, s.User)
}

func TestRemoteRejected(t *testing.T) {
	r := remote(t, func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, `{"success":false}`, http.StatusUnauthorized)
	})
	_, err := r.Authenticate(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRemoteUpstreamFailure(t *testing.T) {
	r := remote(t, func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	_, err := r.Authenticate(context.Background(), "a", "b")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessionContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), Session{ID: "s1"})
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "s1", s.ID)
}
