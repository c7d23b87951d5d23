package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"posflow/pkg/auth"
	"posflow/pkg/config"
	"posflow/pkg/logger"
)

func TestNewAPIFromConfigInMemory(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "posflow", nil)
	cfg := config.Default()
	cfg.UserAPIURL = "http://users.local"
	cfg.AuthMode = config.AuthModeRemote

	a, closeStores, err := newAPIFromConfig(context.Background(), log, cfg)
	require.NoError(t, err)
	defer closeStores()

	require.NotNil(t, a.users)
	require.IsType(t, auth.Remote{}, a.authenticator)

	rec := httptest.NewRecorder()
	a.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
