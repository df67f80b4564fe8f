// Package auth implements password based authentication and bearer token identity for the server.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTokenTTL is used when Issue is called with a non-positive ttl
	DefaultTokenTTL = 15 * time.Minute
	// LoginTokenTTL is the lifetime of tokens handed out by LoginForToken
	LoginTokenTTL = 30 * time.Minute
)

var errEmptySubject = errors.New("empty token subject")

// TokenIssuer подписывает токены HS256 серверным секретом
type TokenIssuer struct {
	now        func() time.Time
	secret     []byte
	defaultTTL time.Duration
}

// NewTokenIssuer creates an issuer. A nil clock falls back to time.Now.
func NewTokenIssuer(secret []byte, now func() time.Time) *TokenIssuer {
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{
		secret:     secret,
		now:        now,
		defaultTTL: DefaultTokenTTL,
	}
}

// WithDefaultTTL overrides the lifetime used for non-positive ttl values
func (i *TokenIssuer) WithDefaultTTL(ttl time.Duration) *TokenIssuer {
	if ttl > 0 {
		i.defaultTTL = ttl
	}
	return i
}

// Issue mints a signed token for subject that expires after ttl
func (i *TokenIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	token, _, err := i.issue(subject, ttl)
	return token, err
}

func (i *TokenIssuer) issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errEmptySubject
	}
	if ttl <= 0 {
		ttl = i.defaultTTL
	}

	now := i.now()
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, claims.ExpiresAt.Time, nil
}

// TokenVerifier проверяет подпись, срок действия и subject токена
type TokenVerifier struct {
	now    func() time.Time
	secret []byte
}

// NewTokenVerifier creates a verifier. A nil clock falls back to time.Now.
func NewTokenVerifier(secret []byte, now func() time.Time) *TokenVerifier {
	if now == nil {
		now = time.Now
	}
	return &TokenVerifier{
		secret: secret,
		now:    now,
	}
}

// Verify returns the token subject or ErrAuthFailure
func (v *TokenVerifier) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || !token.Valid {
		return "", ErrAuthFailure
	}

	if claims.Subject == "" {
		return "", ErrAuthFailure
	}

	return claims.Subject, nil
}
