// Package auth authenticates till operators and tracks their sessions.
package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"posflow/pkg/userapi"
)

// Role is an operator role.
type Role string

// Roles.
const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// User is an authenticated operator.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Session binds a user to a session ID. UpstreamToken is the user
// service's access token when authentication is remote.
type Session struct {
	ID            string    `json:"id"`
	User          User      `json:"user"`
	UpstreamToken string    `json:"upstreamToken,omitempty"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// Errors returned by the auth package.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
)

// Authenticator checks a username and password.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Session, error)
}

// SessionStore keeps sessions until they expire or are deleted.
type SessionStore interface {
	// Create stores s under a new ID and returns it with ID and ExpiresAt set.
	Create(ctx context.Context, s Session, ttl time.Duration) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Mock accepts the fixed demo operators admin/admin and cashier/cashier.
type Mock struct{}

// Authenticate implements Authenticator.
func (Mock) Authenticate(ctx context.Context, username, password string) (Session, error) {
	switch {
	case username == "admin" && password == "admin":
		return Session{User: User{ID: "1", Username: "admin", Role: RoleAdmin}}, nil
	case username == "cashier" && password == "cashier":
		return Session{User: User{ID: "2", Username: "cashier", Role: RoleCashier}}, nil
	}
	return Session{}, ErrInvalidCredentials
}

// Remote authenticates against the user service.
type Remote struct {
	Client *userapi.Client
}

// Authenticate implements Authenticator. The username is sent as the email.
func (r Remote) Authenticate(ctx context.Context, username, password string) (Session, error) {
	res, err := r.Client.Login(ctx, userapi.Credentials{Email: username, Password: password})
	if err != nil {
		var apiErr *userapi.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized ||
			apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, errors.Wrap(err, "user service login")
	}
	if !res.Success || res.Data.AccessToken == "" {
		return Session{}, ErrInvalidCredentials
	}

	u := res.Data.User
	name := u.Fullname
	if name == "" {
		name = u.Email
	}
	if name == "" {
		name = username
	}
	role := RoleCashier
	if Role(u.Role) == RoleAdmin {
		role = RoleAdmin
	}
	return Session{
		User:          User{ID: u.ID, Username: name, Role: role},
		UpstreamToken: res.Data.AccessToken,
	}, nil
}

type ctxKey int

const sessionKey ctxKey = 1

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}
