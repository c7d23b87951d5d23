package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method, path, query, auth string
	body                      map[string]any
}

func fakeService(t *testing.T) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, auth: r.Header.Get("Authorization")}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)
		switch r.URL.Path {
		case "/auth/login", "/user/create":
			w.Write([]byte(`{"success":true,"data":{"accessToken":"tok-1","user":{"_id":"u1"}}}`))
		case "/user":
			w.Write([]byte(`[{"_id":"u1","email":"ann@example.com"}]`))
		default:
			if r.Method == http.MethodPatch {
				w.Write([]byte(`{"_id":"u1","role":"admin"}`))
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLogin(t *testing.T) {
	srv, calls := fakeService(t)
	out, err := run(t, "--url", srv.URL, "login", "--email", "ann@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1\n", out)
	require.Len(t, *calls, 1)
	assert.Equal(t, "ann@example.com", (*calls)[0].body["email"])
}

func TestUsersList(t *testing.T) {
	srv, calls := fakeService(t)
	out, err := run(t, "--url", srv.URL, "--token", "tok-1", "users", "list", "-p", "role=admin")
	require.NoError(t, err)
	assert.Contains(t, out, `"email": "ann@example.com"`)
	assert.Equal(t, "role=admin", (*calls)[0].query)
	assert.Equal(t, "Bearer tok-1", (*calls)[0].auth)
}

func TestUsersRegisterUpdateDelete(t *testing.T) {
	srv, calls := fakeService(t)

	_, err := run(t, "--url", srv.URL, "users", "register", "--email", "bo@example.com", "--password", "pw", "--fullname", "Bo")
	require.NoError(t, err)
	assert.Equal(t, "cashier", (*calls)[0].body["role"])

	out, err := run(t, "--url", srv.URL, "users", "update", "u1", "--set", "role=admin")
	require.NoError(t, err)
	assert.Contains(t, out, `"role": "admin"`)
	assert.Equal(t, http.MethodPatch, (*calls)[1].method)
	assert.Equal(t, "/user/u1", (*calls)[1].path)

	out, err = run(t, "--url", srv.URL, "users", "delete", "u1")
	require.NoError(t, err)
	assert.Equal(t, "deleted u1\n", out)
	assert.Equal(t, http.MethodDelete, (*calls)[2].method)
}

func TestErrors(t *testing.T) {
	t.Setenv("USER_API_URL", "")
	_, err := run(t, "logout")
	assert.ErrorContains(t, err, "url not set")

	srv, _ := fakeService(t)
	_, err = run(t, "--url", srv.URL, "users", "update", "u1")
	assert.ErrorContains(t, err, "nothing to update")

	_, err = run(t, "--url", srv.URL, "users", "update", "u1", "--set", "broken")
	assert.ErrorContains(t, err, "key=value")
}
