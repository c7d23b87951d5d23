// Package userapi is a thin client for the upstream user service: login,
// logout, registration and user management. Response bodies are passed
// through largely untyped.
package userapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// UserData is the user record returned by the service.
type UserData struct {
	ID                  string `json:"_id,omitempty"`
	Fullname            string `json:"fullname,omitempty"`
	FirstName           string `json:"firstName,omitempty"`
	LastName            string `json:"lastName,omitempty"`
	Phone               string `json:"phone,omitempty"`
	PhoneNumberVerified bool   `json:"phoneNumberVerified,omitempty"`
	Email               string `json:"email,omitempty"`
	EmailVerified       bool   `json:"emailVerified,omitempty"`
	ProfileImage        string `json:"profileImage,omitempty"`
	Gender              string `json:"gender,omitempty"`
	DOB                 string `json:"dob,omitempty"`
	Role                string `json:"role,omitempty"`
	Status              string `json:"status,omitempty"`
	Version             int    `json:"__v,omitempty"`
}

// Credentials are the login form fields.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is a new user plus password.
type RegisterRequest struct {
	UserData
	Password string `json:"password"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		AccessToken string   `json:"accessToken"`
		User        UserData `json:"user"`
	} `json:"data"`
}

// APIError is a non-2xx response. Body holds whatever the server sent.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(string(e.Body))
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("user service: %d: %s", e.StatusCode, msg)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client talks to the user service.
type Client struct {
	base  *url.URL
	http  *http.Client
	token string
}

// New returns a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid base url %q", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// WithToken returns a copy of c that sends token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Login posts credentials to auth/login.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &out)
	return out, err
}

// Logout ends the upstream session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
}

// Users lists users; query is forwarded as URL parameters.
func (c *Client) Users(ctx context.Context, query url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, "/user", query, nil, &out)
	return out, err
}

// Register creates a user. payload is usually a RegisterRequest but any
// JSON-encodable value is sent as is.
func (c *Client) Register(ctx context.Context, payload any) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/user/create", nil, payload, &out)
	return out, err
}

// UpdateUser patches user id.
func (c *Client) UpdateUser(ctx context.Context, id string, patch any) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPatch, "/user/"+url.PathEscape(id), nil, patch, &out)
	return out, err
}

// DeleteUser removes user id.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/user/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	// path segments are already escaped
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: b}
	}
	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], b...)
		return nil
	}
	return errors.Wrap(json.Unmarshal(b, out), "decode response")
}
