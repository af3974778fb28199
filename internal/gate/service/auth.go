package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/millhouse-dev/taskgate/internal/gate/biometric"
	"github.com/millhouse-dev/taskgate/internal/gate/domain"
	"github.com/millhouse-dev/taskgate/internal/gate/store"
	"github.com/millhouse-dev/taskgate/pkg/cryptox"
	"github.com/millhouse-dev/taskgate/pkg/idx"
)

// Fixed challenge copy. The platform prompt shows these; the cancel label
// routes the user to the app's own PIN screen.
const (
	challengePrompt      = "Unlock your tasks"
	challengeCancelLabel = "Use PIN"
)

// AuthService verifies identity and manages the session marker. Its public
// methods never return an error for documented flows: adapter failures
// collapse into an AuthResult or a safe default so the UI only ever reacts
// to the small ErrorCode taxonomy.
type AuthService struct {
	Credentials store.Credentials
	Events      store.AuthEvents // optional, nil disables the audit trail
	Prompter    biometric.Prompter
	Logger      *slog.Logger

	// SessionDuration bounds an unlock. Zero means the default one hour.
	SessionDuration time.Duration

	// Now is the clock, injectable for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) sessionDuration() time.Duration {
	if s.SessionDuration > 0 {
		return s.SessionDuration
	}
	return domain.DefaultSessionDuration
}

func (s *AuthService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// IsAvailable reports whether biometric hardware exists AND has at least one
// enrolled credential. Adapter errors read as "unavailable": the gate fails
// closed to the PIN fallback, never open.
func (s *AuthService) IsAvailable(ctx context.Context) bool {
	hardware, err := s.Prompter.HasHardware(ctx)
	if err != nil {
		s.logger().Debug("biometric hardware check failed", "err", err)
		return false
	}
	if !hardware {
		return false
	}

	enrolled, err := s.Prompter.IsEnrolled(ctx)
	if err != nil {
		s.logger().Debug("biometric enrolment check failed", "err", err)
		return false
	}
	return enrolled
}

// Authenticate runs one biometric challenge. Challenge failure, cancellation
// and adapter errors all collapse to pin_required: the UI's only reaction is
// to show the PIN screen, so the caller cannot (and must not) distinguish
// "wrong face" from "cancelled".
func (s *AuthService) Authenticate(ctx context.Context) domain.AuthResult {
	if !s.IsAvailable(ctx) {
		// Never invoke the challenge without an enrolled credential.
		return s.finish(ctx, domain.MethodBiometric, domain.Fail(domain.ErrCodePINRequired))
	}

	result, err := s.Prompter.Challenge(ctx, biometric.ChallengeOptions{
		Prompt:                challengePrompt,
		CancelLabel:           challengeCancelLabel,
		DisableDeviceFallback: true,
	})
	if err != nil {
		s.logger().Warn("biometric challenge errored", "err", err)
		return s.finish(ctx, domain.MethodBiometric, domain.Fail(domain.ErrCodePINRequired))
	}
	if !result.Success {
		s.logger().Info("biometric challenge declined", "platform_code", result.Code)
		return s.finish(ctx, domain.MethodBiometric, domain.Fail(domain.ErrCodePINRequired))
	}

	if err := s.recordSessionMarker(ctx); err != nil {
		s.logger().Error("failed to record session marker", "err", err)
		return s.finish(ctx, domain.MethodBiometric, domain.Fail(domain.ErrCodeGenericFailure))
	}
	return s.finish(ctx, domain.MethodBiometric, domain.Succeed())
}

// AuthenticateWithPIN verifies the PIN, or on first use treats the call as
// PIN setup: the two are one operation keyed entirely on whether a
// fingerprint already exists.
func (s *AuthService) AuthenticateWithPIN(ctx context.Context, pin string) domain.AuthResult {
	// Cheap validation first: no store access, and therefore no audit row.
	if len(pin) < domain.MinPINLength {
		return domain.Fail(domain.ErrCodePINTooShort)
	}

	stored, err := s.Credentials.Get(ctx, store.KeyPINHash)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// First use: set up the PIN and unlock in one step.
		if err := s.Credentials.Set(ctx, store.KeyPINHash, cryptox.FingerprintPIN(pin)); err != nil {
			s.logger().Error("failed to persist PIN fingerprint", "err", err)
			return s.finish(ctx, domain.MethodPIN, domain.Fail(domain.ErrCodeGenericFailure))
		}
	case err != nil:
		s.logger().Error("failed to read PIN fingerprint", "err", err)
		return s.finish(ctx, domain.MethodPIN, domain.Fail(domain.ErrCodeGenericFailure))
	default:
		if !cryptox.VerifyPIN(pin, stored) {
			// No lockout and no attempt counter here; see the audit trail.
			return s.finish(ctx, domain.MethodPIN, domain.Fail(domain.ErrCodePINIncorrect))
		}
	}

	if err := s.recordSessionMarker(ctx); err != nil {
		s.logger().Error("failed to record session marker", "err", err)
		return s.finish(ctx, domain.MethodPIN, domain.Fail(domain.ErrCodeGenericFailure))
	}
	return s.finish(ctx, domain.MethodPIN, domain.Succeed())
}

// IsPINSet reports whether a PIN fingerprint exists. Store errors read as
// "no PIN set": callers use this to pick setup-vs-verify UI copy, not to
// gate security, so "needs setup" is the safe default.
func (s *AuthService) IsPINSet(ctx context.Context) bool {
	_, err := s.Credentials.Get(ctx, store.KeyPINHash)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger().Warn("failed to read PIN fingerprint", "err", err)
		}
		return false
	}
	return true
}

// SessionRemaining returns the time left on the current session, clamped to
// zero. Absent, malformed, or elapsed markers all read as zero.
func (s *AuthService) SessionRemaining(ctx context.Context) time.Duration {
	markedAt, ok := s.sessionMarker(ctx)
	if !ok {
		return 0
	}

	elapsed := s.now().Sub(markedAt)
	if elapsed >= s.sessionDuration() {
		return 0
	}
	return s.sessionDuration() - elapsed
}

// IsSessionValid reports whether a session marker exists, parses, and has
// strictly positive time remaining. Validity flips to false at the same
// instant SessionRemaining clamps to zero.
func (s *AuthService) IsSessionValid(ctx context.Context) bool {
	markedAt, ok := s.sessionMarker(ctx)
	if !ok {
		return false
	}
	return s.now().Sub(markedAt) < s.sessionDuration()
}

// Logout deletes the session marker unconditionally. Idempotent: deleting
// an absent marker is not an error.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.Credentials.Delete(ctx, store.KeySessionMarker)
}

// PurgeExpiredSession deletes the marker only when it exists and has
// expired, so a stale timestamp does not outlive its session. Housekeeping
// calls this; a live session is never touched.
func (s *AuthService) PurgeExpiredSession(ctx context.Context) error {
	raw, err := s.Credentials.Get(ctx, store.KeySessionMarker)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	millis, err := strconv.ParseInt(raw, 10, 64)
	if err == nil && s.now().Sub(time.UnixMilli(millis)) < s.sessionDuration() {
		return nil
	}
	return s.Credentials.Delete(ctx, store.KeySessionMarker)
}

// sessionMarker reads and parses the marker timestamp. Any store error or
// malformed value reads as "no session".
func (s *AuthService) sessionMarker(ctx context.Context) (time.Time, bool) {
	raw, err := s.Credentials.Get(ctx, store.KeySessionMarker)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger().Warn("failed to read session marker", "err", err)
		}
		return time.Time{}, false
	}

	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.logger().Warn("session marker is not numeric", "value", raw)
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

// recordSessionMarker stamps the moment of a successful authentication.
func (s *AuthService) recordSessionMarker(ctx context.Context) error {
	millis := strconv.FormatInt(s.now().UnixMilli(), 10)
	return s.Credentials.Set(ctx, store.KeySessionMarker, millis)
}

// finish appends an audit event and passes the result through. The audit
// trail is best-effort: a failed append never changes the auth outcome.
func (s *AuthService) finish(ctx context.Context, method string, result domain.AuthResult) domain.AuthResult {
	if s.Events == nil {
		return result
	}

	ev := domain.AuthEvent{
		ID:        idx.New().String(),
		Method:    method,
		Success:   result.Success,
		Error:     result.Error,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Events.Append(ctx, ev); err != nil {
		s.logger().Warn("failed to append auth event", "err", err)
	}
	return result
}
