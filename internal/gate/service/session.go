package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/millhouse-dev/taskgate/internal/gate/domain"
)

// DefaultTickInterval is how often the session monitor re-derives state
// while running. The store has no change-subscription mechanism, so expiry
// is observed by cooperative polling.
const DefaultTickInterval = time.Second

// SessionService bridges the engine's pull-based checks into a continuously
// observable state for the UI. It owns the polling timer and guarantees the
// timer is released on Stop.
type SessionService struct {
	auth     *AuthService
	logger   *slog.Logger
	interval time.Duration

	mu    sync.Mutex
	state domain.SessionState

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSessionService creates a session monitor around the engine. If interval
// is 0 or negative, defaults to one second.
func NewSessionService(auth *AuthService, logger *slog.Logger, interval time.Duration) *SessionService {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	return &SessionService{
		auth:     auth,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start evaluates the session once (a prior unexpired session unlocks
// without user action) and begins the polling loop. Non-blocking; call
// Stop to release the timer.
func (s *SessionService) Start() {
	s.Refresh(context.Background())
	go s.run()
	s.logger.Info("session monitor started", "interval", s.interval)
}

// Stop shuts down the polling loop. Blocks until the timer goroutine has
// exited so no tick can fire after Stop returns.
func (s *SessionService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.logger.Info("session monitor stopped")
}

func (s *SessionService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Refresh(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Snapshot returns the current presentation state.
func (s *SessionService) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Authenticate runs the biometric path and re-derives state immediately on
// completion rather than waiting for the next tick.
func (s *SessionService) Authenticate(ctx context.Context) domain.AuthResult {
	s.setAuthenticating(true)
	result := s.auth.Authenticate(ctx)
	s.applyResult(ctx, result)
	return result
}

// AuthenticateWithPIN runs the PIN setup-or-verify path and re-derives
// state immediately on completion.
func (s *SessionService) AuthenticateWithPIN(ctx context.Context, pin string) domain.AuthResult {
	s.setAuthenticating(true)
	result := s.auth.AuthenticateWithPIN(ctx, pin)
	s.applyResult(ctx, result)
	return result
}

// Logout deletes the session marker and re-derives state.
func (s *SessionService) Logout(ctx context.Context) error {
	err := s.auth.Logout(ctx)
	s.Refresh(ctx)
	return err
}

// Refresh re-derives the observable state from the session marker and the
// clock. When a previously unlocked session is found expired, the stale
// marker is deleted on the spot.
func (s *SessionService) Refresh(ctx context.Context) {
	remaining := s.auth.SessionRemaining(ctx)
	valid := s.auth.IsSessionValid(ctx)

	s.mu.Lock()
	wasAuthenticated := s.state.Authenticated
	s.state.Authenticated = valid
	s.state.Remaining = remaining
	s.state.RemainingMs = remaining.Milliseconds()
	if valid {
		s.state.RequiresPIN = false
		s.state.Error = domain.ErrCodeNone
	}
	s.mu.Unlock()

	if wasAuthenticated && !valid {
		s.logger.Info("session expired")
		if err := s.auth.Logout(ctx); err != nil {
			s.logger.Warn("failed to delete expired session marker", "err", err)
		}
	}
}

func (s *SessionService) setAuthenticating(v bool) {
	s.mu.Lock()
	s.state.Authenticating = v
	s.mu.Unlock()
}

// applyResult folds an attempt outcome into the state, then re-derives the
// time-based fields.
func (s *SessionService) applyResult(ctx context.Context, result domain.AuthResult) {
	s.mu.Lock()
	s.state.Authenticating = false
	s.state.Error = result.Error
	s.state.RequiresPIN = result.Error == domain.ErrCodePINRequired ||
		result.Error == domain.ErrCodePINIncorrect ||
		result.Error == domain.ErrCodePINTooShort
	s.mu.Unlock()

	s.Refresh(ctx)
}
