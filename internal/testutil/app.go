// Package testutil builds an in-memory sqlite backed gin engine for handler
// tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rana718/forge/internal/auth"
	"github.com/Rana718/forge/internal/config"
	"github.com/Rana718/forge/internal/db"
	"github.com/Rana718/forge/internal/middleware"
	"github.com/Rana718/forge/internal/models"
)

type App struct {
	DB       *gorm.DB
	Engine   *gin.Engine
	Settings *config.Settings
	Log      *zap.Logger
	Auth     auth.Provider
}

// Settings returns settings suitable for tests: sqlite, jwt auth.
func Settings() *config.Settings {
	return &config.Settings{
		ProjectName:              "forge-test",
		Version:                  "test",
		AuthType:                 config.AuthJWT,
		DBType:                   config.DBSQLite,
		SecretKey:                "test-secret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
		RefreshTokenExpireDays:   7,
		SessionSecretKey:         "test-session-secret",
		SessionExpireMinutes:     60,
		LogLevel:                 "ERROR",
		LogFormat:                "text",
		Host:                     "127.0.0.1",
		Port:                     8000,
	}
}

// OpenDB opens a private in-memory database and migrates the user model plus
// extra.
func OpenDB(t *testing.T, extra ...any) *gorm.DB {
	t.Helper()

	opts := db.DefaultOptions()
	opts.Driver = config.DBSQLite
	opts.DSN = "file:" + ulid.Make().String() + "?mode=memory&cache=shared&_foreign_keys=1"
	opts.MaxOpenConns = 1

	gdb, err := db.OpenWithOptions(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	require.NoError(t, db.AutoMigrate(gdb, append(models.All(), extra...)...))
	return gdb
}

// NewApp returns an engine with the error and correlation middleware but no
// routes; tests register the handlers they exercise.
func NewApp(t *testing.T, extra ...any) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	settings := Settings()
	provider, err := auth.NewProvider(settings)
	require.NoError(t, err)

	log := zap.NewNop()
	engine := gin.New()
	engine.Use(middleware.Recovery(log), middleware.CorrelationID(), middleware.ErrorHandler(log))

	return &App{
		DB:       OpenDB(t, extra...),
		Engine:   engine,
		Settings: settings,
		Log:      log,
		Auth:     provider,
	}
}

// Do sends a request with body encoded as JSON (nil for none).
func (a *App) Do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.Engine.ServeHTTP(w, req)
	return w
}

// Decode unmarshals the response body into v.
func (a *App) Decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// Bearer returns an Authorization header for token.
func Bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
