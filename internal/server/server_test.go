package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	v1 "github.com/Rana718/forge/internal/api/v1"
	"github.com/Rana718/forge/internal/middleware"
	"github.com/Rana718/forge/internal/testutil"
)

func newDeps(t *testing.T) *v1.Deps {
	app := testutil.NewApp(t)
	return &v1.Deps{DB: app.DB, Settings: app.Settings, Auth: app.Auth, Log: app.Log}
}

func TestHealth(t *testing.T) {
	engine := NewEngine(newDeps(t))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"status": "healthy",
		"project": "forge-test",
		"version": "test",
		"database": "sqlite",
		"auth": "jwt"
	}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.CorrelationHeader))
}

func TestAPIRoutesMounted(t *testing.T) {
	engine := NewEngine(newDeps(t))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	deps := newDeps(t)
	deps.Settings.CORSOrigins = []string{"http://localhost:3000"}
	engine := NewEngine(deps)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, "127.0.0.1:0", http.NotFoundHandler(), zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
