package jwtx

import (
	"errors"
	"time"
)

// Claims are the verified contents of a session token.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ErrTokenExpired reports a structurally valid token past its expiry.
var ErrTokenExpired = errors.New("jwtx: token expired")

// ValidateExpiry checks the token lifetime against the wall clock.
func (c Claims) ValidateExpiry() error {
	if c.ExpiresAt.IsZero() || time.Now().After(c.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}
