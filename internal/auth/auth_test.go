package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/forge/internal/apperrors"
	"github.com/Rana718/forge/internal/config"
)

func requireUnauthorized(t *testing.T, err error, message string) {
	t.Helper()
	be, ok := apperrors.As(err)
	require.True(t, ok, "expected a business error, got %v", err)
	assert.Equal(t, 401, be.StatusCode)
	assert.Equal(t, message, be.Message)
}

func TestJWTRoundTrip(t *testing.T) {
	p, err := NewJWTProvider("secret", "HS256", 30*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	token, err := p.CreateAccessToken("42")
	require.NoError(t, err)

	payload, err := p.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", payload.Subject)

	refresh, err := p.CreateRefreshToken("42")
	require.NoError(t, err)
	payload, err = p.VerifyToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "42", payload.Subject)
}

func TestJWTExpired(t *testing.T) {
	p, err := NewJWTProvider("secret", "HS256", time.Minute, time.Hour)
	require.NoError(t, err)
	issued := time.Now()
	p.now = func() time.Time { return issued }

	token, err := p.CreateAccessToken("42")
	require.NoError(t, err)

	p.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = p.VerifyToken(token)
	requireUnauthorized(t, err, "Token has expired")
}

func TestJWTInvalid(t *testing.T) {
	p, err := NewJWTProvider("secret", "HS256", time.Minute, time.Hour)
	require.NoError(t, err)
	other, err := NewJWTProvider("other", "HS256", time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := other.CreateAccessToken("42")
	require.NoError(t, err)

	_, err = p.VerifyToken(token)
	requireUnauthorized(t, err, "Invalid token")

	_, err = p.VerifyToken("garbage")
	requireUnauthorized(t, err, "Invalid token")
}

func TestJWTRejectsUnknownAlgorithm(t *testing.T) {
	_, err := NewJWTProvider("secret", "RS256", time.Minute, time.Hour)
	assert.Error(t, err)
	_, err = NewJWTProvider("", "HS256", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestSessionRoundTrip(t *testing.T) {
	p, err := NewSessionProvider("session-secret", time.Hour)
	require.NoError(t, err)

	token, err := p.CreateAccessToken("7")
	require.NoError(t, err)

	payload, err := p.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7", payload.Subject)
	assert.NotEmpty(t, payload.SessionID)

	_, isRefresher := any(p).(RefreshTokenCreator)
	assert.False(t, isRefresher)
}

func TestSessionExpired(t *testing.T) {
	p, err := NewSessionProvider("session-secret", time.Hour)
	require.NoError(t, err)
	issued := time.Now()
	p.now = func() time.Time { return issued }

	token, err := p.CreateAccessToken("7")
	require.NoError(t, err)

	p.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = p.VerifyToken(token)
	requireUnauthorized(t, err, "Session has expired")
}

func TestSessionTampered(t *testing.T) {
	p, err := NewSessionProvider("session-secret", time.Hour)
	require.NoError(t, err)
	other, err := NewSessionProvider("another-secret", time.Hour)
	require.NoError(t, err)

	token, err := other.CreateAccessToken("7")
	require.NoError(t, err)

	_, err = p.VerifyToken(token)
	requireUnauthorized(t, err, "Invalid session")
}

func TestNewProvider(t *testing.T) {
	s := &config.Settings{
		AuthType:                 config.AuthJWT,
		SecretKey:                "secret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
		RefreshTokenExpireDays:   7,
	}
	p, err := NewProvider(s)
	require.NoError(t, err)
	_, isRefresher := p.(RefreshTokenCreator)
	assert.True(t, isRefresher)

	s.AuthType = config.AuthLoginPassword
	_, err = NewProvider(s)
	assert.Error(t, err)

	s.SessionSecretKey = "session-secret"
	s.SessionExpireMinutes = 60
	p, err = NewProvider(s)
	require.NoError(t, err)
	assert.IsType(t, &SessionProvider{}, p)

	s.AuthType = "oauth2"
	_, err = NewProvider(s)
	assert.Error(t, err)
}
