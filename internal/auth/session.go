package auth

import (
	"fmt"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/oklog/ulid/v2"

	"github.com/Rana718/forge/internal/apperrors"
)

const sessionName = "session"

type sessionData struct {
	SessionID string `json:"sid"`
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
}

// SessionProvider issues opaque signed session tokens. The signature covers
// the session id, the subject and the issue time; age is checked on verify.
type SessionProvider struct {
	codec  *securecookie.SecureCookie
	maxAge time.Duration
	now    func() time.Time
}

func NewSessionProvider(secret string, maxAge time.Duration) (*SessionProvider, error) {
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET_KEY is required for session authentication")
	}
	codec := securecookie.New([]byte(secret), nil).
		SetSerializer(securecookie.JSONEncoder{}).
		MaxAge(0)
	return &SessionProvider{codec: codec, maxAge: maxAge, now: time.Now}, nil
}

func (p *SessionProvider) CreateAccessToken(subject string) (string, error) {
	data := sessionData{
		SessionID: ulid.Make().String(),
		Subject:   subject,
		IssuedAt:  p.now().Unix(),
	}
	token, err := p.codec.Encode(sessionName, data)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

func (p *SessionProvider) VerifyToken(token string) (*Payload, error) {
	var data sessionData
	if err := p.codec.Decode(sessionName, token, &data); err != nil {
		return nil, apperrors.Unauthorized("Invalid session")
	}
	if data.SessionID == "" {
		return nil, apperrors.Unauthorized("Invalid session")
	}

	expires := time.Unix(data.IssuedAt, 0).Add(p.maxAge)
	if p.now().After(expires) {
		return nil, apperrors.Unauthorized("Session has expired")
	}
	return &Payload{Subject: data.Subject, SessionID: data.SessionID, ExpiresAt: expires}, nil
}
