package userapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestLogin(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "a@b.c", creds.Email)
		w.Write([]byte(`{"success":true,"message":"ok","data":{"accessToken":"tok","user":{"_id":"u1","fullname":"Ann","role":"admin"}}}`))
	})

	res, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "tok", res.Data.AccessToken)
	assert.Equal(t, "u1", res.Data.User.ID)
}

func TestUserRoutesSendToken(t *testing.T) {
	var seen []string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		seen = append(seen, r.Method+" "+r.URL.Path+"?"+r.URL.RawQuery)
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.Write([]byte(`{"ok":true}`))
		}
	}).WithToken("tok")

	ctx := context.Background()
	raw, err := c.Users(ctx, url.Values{"role": {"cashier"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	_, err = c.UpdateUser(ctx, "u 1", map[string]any{"fullname": "B"})
	require.NoError(t, err)
	require.NoError(t, c.DeleteUser(ctx, "u1"))
	_, err = c.Register(ctx, RegisterRequest{UserData: UserData{Email: "x@y.z"}, Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, c.Logout(ctx))

	assert.Equal(t, []string{
		"GET /api/user?role=cashier",
		"PATCH /api/user/u 1?",
		"DELETE /api/user/u1?",
		"POST /api/user/create?",
		"POST /api/logout?",
	}, seen)
}

func TestAPIErrorPassThrough(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"bad password"}`))
	})

	_, err := c.Login(context.Background(), Credentials{Email: "a", Password: "b"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "bad password")
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)
}
