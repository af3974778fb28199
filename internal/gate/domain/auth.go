package domain

import "time"

// DefaultSessionDuration is how long an unlock lasts after a successful
// authentication. The marker timestamp plus this duration is the expiry.
const DefaultSessionDuration = time.Hour

// MinPINLength is the minimum accepted PIN length in characters.
const MinPINLength = 4

// ErrorCode classifies why an authentication attempt did not succeed.
// The set is deliberately small: the UI has exactly one branch per code.
type ErrorCode string

const (
	// ErrCodeNone is the zero value for successful results.
	ErrCodeNone ErrorCode = ""

	// ErrCodePINRequired signals the biometric path is unavailable, was
	// declined, or errored. It is a state transition signal, not a hard
	// failure: the UI reacts by showing the PIN screen.
	ErrCodePINRequired ErrorCode = "pin_required"

	// ErrCodePINTooShort is an input validation failure. No store access
	// happens on this path.
	ErrCodePINTooShort ErrorCode = "pin_too_short"

	// ErrCodePINIncorrect is a verification mismatch against the stored
	// PIN fingerprint.
	ErrCodePINIncorrect ErrorCode = "pin_incorrect"

	// ErrCodeGenericFailure is a credential-store I/O error during PIN
	// setup or verify. Retry-able, never conflated with pin_incorrect.
	ErrCodeGenericFailure ErrorCode = "generic_failure"
)

// AuthResult is the transient outcome of a single authentication attempt.
// It is returned by every authenticate call and never persisted.
type AuthResult struct {
	Success bool      `json:"success"`
	Error   ErrorCode `json:"error,omitempty"`
}

// Succeed returns the successful AuthResult.
func Succeed() AuthResult {
	return AuthResult{Success: true}
}

// Fail returns a failed AuthResult carrying the given code.
func Fail(code ErrorCode) AuthResult {
	return AuthResult{Success: false, Error: code}
}

// SessionState is the presentation snapshot derived from the session marker
// and the current time. It is recomputed on every check; a cached boolean is
// never trusted longer than the polling interval.
type SessionState struct {
	Authenticated  bool          `json:"authenticated"`
	Authenticating bool          `json:"authenticating"`
	RequiresPIN    bool          `json:"requires_pin"`
	Error          ErrorCode     `json:"error,omitempty"`
	Remaining      time.Duration `json:"-"`
	RemainingMs    int64         `json:"remaining_ms"`
}
