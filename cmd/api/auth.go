package main

import (
	"net/http"
	"strings"

	"posflow/pkg/auth"
	"posflow/pkg/otel"
)

// loginRequest represents login credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is returned after a successful login.
type loginResponse struct {
	SessionID string    `json:"sessionId"`
	User      auth.User `json:"user"`
}

// loginHandler handles user login and session creation.
// @Summary Login
// @Description Authenticates the operator and sets the session cookie
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {object} errorResponse
// @Router /auth/login [post]
func (a *api) loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, "decode login", err)
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeJSONError(w, http.StatusBadRequest, "username is required")
		return
	}
	s, err := a.authenticator.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		a.fail(w, r, "authenticate", err)
		return
	}
	s, err = a.sessions.Create(ctx, s, a.sessionTTL)
	if err != nil {
		a.fail(w, r, "create session", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	a.log.Info(ctx, "login", "user", s.User.Username, "role", s.User.Role)
	writeJSON(w, http.StatusOK, loginResponse{SessionID: s.ID, User: s.User})
}

// logoutHandler ends the current session.
// @Summary Logout
// @Success 204
// @Security ApiKeyAuth
// @Router /logout [post]
func (a *api) logoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "logoutHandler")
	defer span.End()

	s, _ := auth.FromContext(ctx)
	if s.UpstreamToken != "" && a.users != nil {
		if err := a.users.WithToken(s.UpstreamToken).Logout(ctx); err != nil {
			a.log.Warn(ctx, "upstream logout", "error", err)
		}
	}
	if err := a.sessions.Delete(ctx, s.ID); err != nil {
		a.fail(w, r, "delete session", err)
		return
	}
	if err := a.carts.Delete(ctx, s.ID); err != nil {
		a.log.Warn(ctx, "drop cart", "error", err)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}
