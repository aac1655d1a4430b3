// Package auth issues and verifies the bearer credentials of the service.
// AUTH_TYPE selects the provider: signed JWTs or signed session tokens.
package auth

import (
	"fmt"
	"time"

	"github.com/Rana718/forge/internal/config"
)

// Payload is what a verified credential says about its holder.
type Payload struct {
	// Subject is the user id as a decimal string.
	Subject   string
	SessionID string
	ExpiresAt time.Time
}

type Provider interface {
	CreateAccessToken(subject string) (string, error)
	// VerifyToken returns an *apperrors.BusinessError (401) for expired or
	// invalid credentials.
	VerifyToken(token string) (*Payload, error)
}

// RefreshTokenCreator is implemented by providers that issue refresh tokens.
type RefreshTokenCreator interface {
	CreateRefreshToken(subject string) (string, error)
}

// NewProvider returns the provider selected by s.AuthType.
func NewProvider(s *config.Settings) (Provider, error) {
	switch s.AuthType {
	case config.AuthJWT:
		p, err := NewJWTProvider(s.SecretKey, s.Algorithm, s.AccessTokenTTL(), s.RefreshTokenTTL())
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.AuthLoginPassword:
		p, err := NewSessionProvider(s.SessionSecretKey, s.SessionTTL())
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported authentication type: %s", s.AuthType)
	}
}
