package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/millhouse-dev/taskgate/internal/gate/domain"
	"github.com/millhouse-dev/taskgate/internal/gate/store"
	"github.com/stretchr/testify/require"
)

func newTestSession(auth *AuthService, interval time.Duration) *SessionService {
	return NewSessionService(auth, slog.Default(), interval)
}

func TestSessionServiceUnlocksFromPriorValidMarker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	clock := defaultClock()
	creds := newFakeCredentials()
	auth := newTestAuth(creds, &fakePrompter{}, clock)

	// A session from half an hour ago is still valid on start.
	require.True(t, auth.AuthenticateWithPIN(ctx, "1234").Success)
	clock.Advance(30 * time.Minute)

	sess := newTestSession(auth, time.Hour) // tick never fires in this test
	sess.Start()
	defer sess.Stop()

	state := sess.Snapshot()
	require.True(t, state.Authenticated)
	require.Equal(t, (30 * time.Minute).Milliseconds(), state.RemainingMs)
}

func TestSessionServiceStartsLockedOnFreshInstall(t *testing.T) {
	t.Parallel()

	auth := newTestAuth(newFakeCredentials(), &fakePrompter{}, defaultClock())

	sess := newTestSession(auth, time.Hour)
	sess.Start()
	defer sess.Stop()

	state := sess.Snapshot()
	require.False(t, state.Authenticated)
	require.False(t, state.Authenticating)
	require.Zero(t, state.RemainingMs)
}

func TestSessionServiceReflectsUnlockImmediately(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	auth := newTestAuth(newFakeCredentials(), &fakePrompter{}, defaultClock())
	sess := newTestSession(auth, time.Hour)
	sess.Start()
	defer sess.Stop()

	result := sess.AuthenticateWithPIN(ctx, "1234")
	require.True(t, result.Success)

	// No tick has fired; the success itself re-derived the state.
	state := sess.Snapshot()
	require.True(t, state.Authenticated)
	require.False(t, state.Authenticating)
	require.False(t, state.RequiresPIN)
	require.Equal(t, domain.ErrCodeNone, state.Error)
	require.Equal(t, domain.DefaultSessionDuration.Milliseconds(), state.RemainingMs)
}

func TestSessionServiceSurfacesFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	auth := newTestAuth(newFakeCredentials(), &fakePrompter{}, defaultClock())
	sess := newTestSession(auth, time.Hour)
	sess.Start()
	defer sess.Stop()

	t.Run("biometric unavailable requires PIN", func(t *testing.T) {
		result := sess.Authenticate(ctx)
		require.Equal(t, domain.ErrCodePINRequired, result.Error)

		state := sess.Snapshot()
		require.False(t, state.Authenticated)
		require.True(t, state.RequiresPIN)
		require.Equal(t, domain.ErrCodePINRequired, state.Error)
	})

	t.Run("wrong PIN keeps PIN screen with inline error", func(t *testing.T) {
		require.True(t, sess.AuthenticateWithPIN(ctx, "1234").Success)
		require.NoError(t, sess.Logout(ctx))

		result := sess.AuthenticateWithPIN(ctx, "0000")
		require.Equal(t, domain.ErrCodePINIncorrect, result.Error)

		state := sess.Snapshot()
		require.False(t, state.Authenticated)
		require.True(t, state.RequiresPIN)
		require.Equal(t, domain.ErrCodePINIncorrect, state.Error)
	})
}

func TestSessionServiceLogoutLocksImmediately(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	auth := newTestAuth(newFakeCredentials(), &fakePrompter{}, defaultClock())
	sess := newTestSession(auth, time.Hour)
	sess.Start()
	defer sess.Stop()

	require.True(t, sess.AuthenticateWithPIN(ctx, "1234").Success)
	require.NoError(t, sess.Logout(ctx))

	state := sess.Snapshot()
	require.False(t, state.Authenticated)
	require.Zero(t, state.RemainingMs)
}

func TestSessionServicePollingDetectsExpiryAndDeletesMarker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	clock := defaultClock()
	creds := newFakeCredentials()
	auth := newTestAuth(creds, &fakePrompter{}, clock)

	sess := newTestSession(auth, 5*time.Millisecond)
	sess.Start()
	defer sess.Stop()

	require.True(t, sess.AuthenticateWithPIN(ctx, "1234").Success)
	require.True(t, sess.Snapshot().Authenticated)

	// Jump past the session duration; the next tick must observe it.
	clock.Advance(domain.DefaultSessionDuration + time.Millisecond)

	require.Eventually(t, func() bool {
		return !sess.Snapshot().Authenticated
	}, time.Second, time.Millisecond, "polling loop should flip to locked")

	require.Eventually(t, func() bool {
		_, ok := creds.lookup(store.KeySessionMarker)
		return !ok
	}, time.Second, time.Millisecond, "expired marker should be deleted")

	require.Zero(t, sess.Snapshot().RemainingMs)
}

func TestSessionServiceStopCancelsTimer(t *testing.T) {
	t.Parallel()

	auth := newTestAuth(newFakeCredentials(), &fakePrompter{}, defaultClock())
	sess := newTestSession(auth, time.Millisecond)
	sess.Start()

	done := make(chan struct{})
	go func() {
		sess.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not release the polling loop")
	}
}
