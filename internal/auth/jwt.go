package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Rana718/forge/internal/apperrors"
)

type JWTProvider struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTProvider(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*JWTProvider, error) {
	if secret == "" {
		return nil, fmt.Errorf("SECRET_KEY is required for jwt authentication")
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm: %s", algorithm)
	}
	return &JWTProvider{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

func (p *JWTProvider) sign(subject string, ttl time.Duration) (string, error) {
	now := p.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(p.method, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (p *JWTProvider) CreateAccessToken(subject string) (string, error) {
	return p.sign(subject, p.accessTTL)
}

func (p *JWTProvider) CreateRefreshToken(subject string) (string, error) {
	return p.sign(subject, p.refreshTTL)
}

func (p *JWTProvider) VerifyToken(token string) (*Payload, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{p.method.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apperrors.Unauthorized("Token has expired")
	case err != nil:
		return nil, apperrors.Unauthorized("Invalid token")
	}

	payload := &Payload{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		payload.ExpiresAt = claims.ExpiresAt.Time
	}
	return payload, nil
}
