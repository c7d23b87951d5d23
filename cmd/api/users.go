package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"posflow/pkg/auth"
	"posflow/pkg/otel"
	"posflow/pkg/userapi"
)

// userClient returns the user service client carrying the caller's upstream
// token, if any. It writes 503 and returns nil when no service is configured.
func (a *api) userClient(w http.ResponseWriter, r *http.Request) *userapi.Client {
	if a.users == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "user service not configured")
		return nil
	}
	s, _ := auth.FromContext(r.Context())
	if s.UpstreamToken == "" {
		return a.users
	}
	return a.users.WithToken(s.UpstreamToken)
}

// listUsersHandler lists users from the user service.
// @Summary List users
// @Produce json
// @Success 200
// @Failure 503 {object} errorResponse
// @Security ApiKeyAuth
// @Router /user [get]
func (a *api) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listUsersHandler")
	defer span.End()

	c := a.userClient(w, r)
	if c == nil {
		return
	}
	body, err := c.Users(ctx, r.URL.Query())
	if err != nil {
		a.fail(w, r, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// registerUserHandler creates a user in the user service. It needs no
// session so new operators can sign themselves up.
// @Summary Register user
// @Accept json
// @Produce json
// @Param user body userapi.RegisterRequest true "User"
// @Success 201 {object} userapi.AuthResponse
// @Failure 503 {object} errorResponse
// @Router /user/create [post]
func (a *api) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "registerUserHandler")
	defer span.End()

	c := a.userClient(w, r)
	if c == nil {
		return
	}
	var payload json.RawMessage
	if err := decode(r, &payload); err != nil {
		a.fail(w, r, "decode user", err)
		return
	}
	res, err := c.Register(ctx, payload)
	if err != nil {
		a.fail(w, r, "register user", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// updateUserHandler patches a user in the user service.
// @Summary Update user
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200
// @Security ApiKeyAuth
// @Router /user/{id} [patch]
func (a *api) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateUserHandler")
	defer span.End()

	c := a.userClient(w, r)
	if c == nil {
		return
	}
	var patch json.RawMessage
	if err := decode(r, &patch); err != nil {
		a.fail(w, r, "decode user patch", err)
		return
	}
	body, err := c.UpdateUser(ctx, mux.Vars(r)["id"], patch)
	if err != nil {
		a.fail(w, r, "update user", err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// deleteUserHandler removes a user from the user service.
// @Summary Delete user
// @Param id path string true "User ID"
// @Success 204
// @Security ApiKeyAuth
// @Router /user/{id} [delete]
func (a *api) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteUserHandler")
	defer span.End()

	c := a.userClient(w, r)
	if c == nil {
		return
	}
	if err := c.DeleteUser(ctx, mux.Vars(r)["id"]); err != nil {
		a.fail(w, r, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
