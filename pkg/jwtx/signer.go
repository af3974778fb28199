package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks a raw token string and returns its claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

// Signer mints and verifies HS256 session tokens keyed by the
// per-installation device key. Tokens are a transport convenience for the
// local HTTP API; the session marker in the credential store remains the
// source of truth for session validity.
type Signer struct {
	key    []byte
	issuer string
}

// NewSigner returns a Signer for the given key and issuer.
func NewSigner(key []byte, issuer string) (*Signer, error) {
	if len(key) == 0 {
		return nil, errors.New("jwtx: empty signing key")
	}
	return &Signer{key: key, issuer: issuer}, nil
}

// Sign mints a token for subject valid for ttl.
func (s *Signer) Sign(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("jwtx: non-positive token ttl")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a raw token, enforcing HS256 and the issuer.
func (s *Signer) Verify(raw string) (Claims, error) {
	var registered jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &registered,
		func(t *jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("token verification failed: %w", err)
	}

	claims := Claims{
		Subject: registered.Subject,
		Issuer:  registered.Issuer,
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, nil
}
