package gate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/millhouse-dev/taskgate/pkg/gatesdk"
)

// TestEventsRequireAuthentication checks the audit trail is only readable
// while unlocked.
func TestEventsRequireAuthentication(t *testing.T) {
	baseURL := setupGateServer(t, gateOptions{})
	client := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	_, err := client.Events(ctx)
	var apiErr *gatesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.StatusCode)
}

// TestEventsRecordAttempts unlocks, fails once, and expects both attempts
// in the trail, newest first.
func TestEventsRecordAttempts(t *testing.T) {
	baseURL := setupGateServer(t, gateOptions{})
	client := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	auth, err := client.AuthenticatePIN(ctx, "1234")
	require.NoError(t, err)
	require.True(t, auth.Success)

	failed, err := client.AuthenticatePIN(ctx, "0000")
	require.NoError(t, err)
	require.False(t, failed.Success)

	// The failed attempt did not clear the session, so the earlier token
	// still opens the trail.
	events, err := client.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events.Events, 2)

	require.False(t, events.Events[0].Success)
	require.Equal(t, "pin_incorrect", events.Events[0].Error)
	require.Equal(t, "pin", events.Events[0].Method)

	require.True(t, events.Events[1].Success)
	require.Empty(t, events.Events[1].Error)
}

// TestWipeResetsToFreshInstall wipes while unlocked and expects the next
// PIN attempt to behave like first-run setup.
func TestWipeResetsToFreshInstall(t *testing.T) {
	baseURL := setupGateServer(t, gateOptions{})
	client := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	auth, err := client.AuthenticatePIN(ctx, "1234")
	require.NoError(t, err)
	require.True(t, auth.Success)

	require.NoError(t, client.Wipe(ctx))

	session, err := client.Session(ctx)
	require.NoError(t, err)
	require.False(t, session.Authenticated)
	require.False(t, session.PINSet)

	// A different PIN now enrols instead of being rejected.
	client.Token = ""
	auth, err = client.AuthenticatePIN(ctx, "8765")
	require.NoError(t, err)
	require.True(t, auth.Success)
}

// TestWipeRequiresAuthentication checks wipe is refused while locked.
func TestWipeRequiresAuthentication(t *testing.T) {
	baseURL := setupGateServer(t, gateOptions{})
	client := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	err := client.Wipe(ctx)
	var apiErr *gatesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.StatusCode)
}
