package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/forge/internal/models"
	"github.com/Rana718/forge/internal/testutil"
)

func TestMeRequiresToken(t *testing.T) {
	app := newAPI(t)

	tests := []struct {
		name    string
		headers map[string]string
		detail  string
	}{
		{"no header", nil, "Not authenticated"},
		{"malformed", map[string]string{"Authorization": "Bearer"}, "Invalid authorization header"},
		{"wrong scheme", map[string]string{"Authorization": "Basic abc"}, "Invalid authentication scheme"},
		{"garbage token", testutil.Bearer("not-a-token"), "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.Do(t, http.MethodGet, "/api/v1/users/me", nil, tt.headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"detail":%q}`, tt.detail), w.Body.String())
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestMe(t *testing.T) {
	app := newAPI(t)
	register(t, app, "alice@example.com", "password123")
	token := login(t, app, "alice@example.com", "password123")

	w := app.Do(t, http.MethodGet, "/api/v1/users/me", nil, testutil.Bearer(token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out map[string]any
	app.Decode(t, w, &out)
	assert.Equal(t, "alice@example.com", out["email"])
}

func TestMeDeletedUser(t *testing.T) {
	app := newAPI(t)
	register(t, app, "alice@example.com", "password123")
	token := login(t, app, "alice@example.com", "password123")
	require.NoError(t, app.DB.Where("email = ?", "alice@example.com").Delete(&models.User{}).Error)

	w := app.Do(t, http.MethodGet, "/api/v1/users/me", nil, testutil.Bearer(token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"User not found"}`, w.Body.String())
}

func TestInactiveUserCanOnlyReadMe(t *testing.T) {
	app := newAPI(t)
	register(t, app, "alice@example.com", "password123")
	token := login(t, app, "alice@example.com", "password123")
	require.NoError(t, app.DB.Model(&models.User{}).
		Where("email = ?", "alice@example.com").
		Update("is_active", false).Error)

	w := app.Do(t, http.MethodGet, "/api/v1/users/me", nil, testutil.Bearer(token))
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.Do(t, http.MethodGet, "/api/v1/users", nil, testutil.Bearer(token))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"Inactive user"}`, w.Body.String())
}

func TestUpdateMe(t *testing.T) {
	app := newAPI(t)
	register(t, app, "alice@example.com", "password123")
	token := login(t, app, "alice@example.com", "password123")

	w := app.Do(t, http.MethodPatch, "/api/v1/users/me", map[string]any{
		"full_name": "Alice Liddell",
		"password":  "new-password-1",
	}, testutil.Bearer(token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out map[string]any
	app.Decode(t, w, &out)
	assert.Equal(t, "Alice Liddell", out["full_name"])
	assert.Equal(t, "alice@example.com", out["email"])

	login(t, app, "alice@example.com", "new-password-1")
}

func TestUpdateMeEmailTaken(t *testing.T) {
	app := newAPI(t)
	register(t, app, "alice@example.com", "password123")
	register(t, app, "bob@example.com", "password123")
	token := login(t, app, "alice@example.com", "password123")

	w := app.Do(t, http.MethodPatch, "/api/v1/users/me", map[string]any{
		"email": "bob@example.com",
	}, testutil.Bearer(token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"Email already registered"}`, w.Body.String())

	// keeping the current address is not a conflict
	w = app.Do(t, http.MethodPatch, "/api/v1/users/me", map[string]any{
		"email": "alice@example.com",
	}, testutil.Bearer(token))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListUsers(t *testing.T) {
	app := newAPI(t)
	for i := range 3 {
		register(t, app, fmt.Sprintf("user%d@example.com", i), "password123")
	}
	token := login(t, app, "user0@example.com", "password123")

	w := app.Do(t, http.MethodGet, "/api/v1/users", nil, testutil.Bearer(token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var all []map[string]any
	app.Decode(t, w, &all)
	assert.Len(t, all, 3)

	w = app.Do(t, http.MethodGet, "/api/v1/users?skip=1&limit=1", nil, testutil.Bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	var page []map[string]any
	app.Decode(t, w, &page)
	require.Len(t, page, 1)
	assert.Equal(t, "user1@example.com", page[0]["email"])

	w = app.Do(t, http.MethodGet, "/api/v1/users?limit=0", nil, testutil.Bearer(token))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetUser(t *testing.T) {
	app := newAPI(t)
	created := register(t, app, "alice@example.com", "password123")
	token := login(t, app, "alice@example.com", "password123")

	w := app.Do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%v", created["id"]), nil, testutil.Bearer(token))
	require.Equal(t, http.StatusOK, w.Code)

	w = app.Do(t, http.MethodGet, "/api/v1/users/999", nil, testutil.Bearer(token))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"User not found"}`, w.Body.String())

	w = app.Do(t, http.MethodGet, "/api/v1/users/abc", nil, testutil.Bearer(token))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
