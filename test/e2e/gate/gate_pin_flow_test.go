package gate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/millhouse-dev/taskgate/pkg/gatesdk"
)

// TestPINSetupAndVerify walks the first-run flow: no PIN exists, the first
// well-formed PIN becomes the PIN, and the gate unlocks.
func TestPINSetupAndVerify(t *testing.T) {
	baseURL := setupGateServer(t, gateOptions{})
	client := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	// Fresh install: locked, no PIN, no biometrics.
	session, err := client.Session(ctx)
	require.NoError(t, err)
	require.False(t, session.Authenticated)
	require.False(t, session.PINSet)
	require.False(t, session.BiometricAvailable)

	// First PIN attempt enrols the PIN and unlocks.
	auth, err := client.AuthenticatePIN(ctx, "2468")
	require.NoError(t, err)
	require.True(t, auth.Success)
	require.Empty(t, auth.Error)
	require.NotEmpty(t, auth.Token)
	require.Positive(t, auth.ExpiresInMs)

	session, err = client.Session(ctx)
	require.NoError(t, err)
	require.True(t, session.Authenticated)
	require.True(t, session.PINSet)
	require.Positive(t, session.RemainingMs)

	// Lock again, then verify the stored PIN both ways.
	require.NoError(t, client.Logout(ctx))

	auth, err = client.AuthenticatePIN(ctx, "9999")
	require.NoError(t, err)
	require.False(t, auth.Success)
	require.Equal(t, "pin_incorrect", auth.Error)
	require.Empty(t, auth.Token)

	auth, err = client.AuthenticatePIN(ctx, "2468")
	require.NoError(t, err)
	require.True(t, auth.Success)
}

// TestPINTooShort checks that a malformed PIN is rejected without touching
// any stored state, so the next attempt is still a fresh setup.
func TestPINTooShort(t *testing.T) {
	baseURL := setupGateServer(t, gateOptions{})
	client := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	auth, err := client.AuthenticatePIN(ctx, "123")
	require.NoError(t, err)
	require.False(t, auth.Success)
	require.Equal(t, "pin_too_short", auth.Error)

	session, err := client.Session(ctx)
	require.NoError(t, err)
	require.False(t, session.PINSet, "a rejected PIN must not be enrolled")

	// A well-formed PIN afterwards still enrols.
	auth, err = client.AuthenticatePIN(ctx, "1234")
	require.NoError(t, err)
	require.True(t, auth.Success)
}

// TestLogoutIsIdempotent checks that logging out twice, or while already
// locked, succeeds quietly.
func TestLogoutIsIdempotent(t *testing.T) {
	baseURL := setupGateServer(t, gateOptions{})
	client := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	require.NoError(t, client.Logout(ctx))

	auth, err := client.AuthenticatePIN(ctx, "1234")
	require.NoError(t, err)
	require.True(t, auth.Success)

	require.NoError(t, client.Logout(ctx))
	require.NoError(t, client.Logout(ctx))

	session, err := client.Session(ctx)
	require.NoError(t, err)
	require.False(t, session.Authenticated)
}
