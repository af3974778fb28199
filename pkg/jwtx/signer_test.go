package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner([]byte("test-device-key"), "taskgate")
	require.NoError(t, err)
	return s
}

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t)

	raw, err := s.Sign("session", 30*time.Second)
	require.NoError(t, err)

	claims, err := s.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "session", claims.Subject)
	require.Equal(t, "taskgate", claims.Issuer)
	require.NoError(t, claims.ValidateExpiry())
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t)

	other, err := NewSigner([]byte("another-key"), "taskgate")
	require.NoError(t, err)

	raw, err := s.Sign("session", 30*time.Second)
	require.NoError(t, err)

	_, err = other.Verify(raw)
	require.Error(t, err)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t)

	other, err := NewSigner([]byte("test-device-key"), "someone-else")
	require.NoError(t, err)

	raw, err := other.Sign("session", 30*time.Second)
	require.NoError(t, err)

	_, err = s.Verify(raw)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t)

	raw, err := s.Sign("session", time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = s.Verify(raw)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestSignRejectsNonPositiveTTL(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t)

	_, err := s.Sign("session", 0)
	require.Error(t, err)
}

func TestNewSignerRejectsEmptyKey(t *testing.T) {
	t.Parallel()

	_, err := NewSigner(nil, "taskgate")
	require.Error(t, err)
}
