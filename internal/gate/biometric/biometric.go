// Package biometric abstracts the platform biometric capability behind a
// small adapter interface. The engine treats every adapter failure as
// "unavailable" or "challenge failed"; no error from this package reaches
// the UI directly.
package biometric

import "context"

// ChallengeOptions configures a one-shot biometric challenge.
type ChallengeOptions struct {
	// Prompt is the text shown on the platform prompt.
	Prompt string `json:"prompt"`

	// CancelLabel is the label on the prompt's cancel affordance.
	CancelLabel string `json:"cancel_label"`

	// DisableDeviceFallback suppresses the platform's built-in passcode
	// fallback so the app's own PIN flow is the single fallback path.
	DisableDeviceFallback bool `json:"disable_device_fallback"`
}

// Result is the outcome of a challenge. Code carries the platform's
// failure reason for the audit trail; callers must not branch on it.
type Result struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
}

// Prompter is the platform capability adapter. All calls are blocking and
// honour ctx cancellation where the platform allows it.
type Prompter interface {
	// HasHardware reports whether biometric hardware exists.
	HasHardware(ctx context.Context) (bool, error)

	// IsEnrolled reports whether at least one credential is enrolled.
	IsEnrolled(ctx context.Context) (bool, error)

	// Challenge runs one prompt and reports the outcome. Cancellation by
	// the user, the system, or the app surfaces as a non-success Result
	// or an error; the engine collapses all of these to the same signal.
	Challenge(ctx context.Context, opts ChallengeOptions) (Result, error)
}

// Unsupported is a Prompter for installations without a platform bridge.
// Every capability check reports false, which fails closed to the PIN path.
type Unsupported struct{}

func (Unsupported) HasHardware(context.Context) (bool, error) { return false, nil }
func (Unsupported) IsEnrolled(context.Context) (bool, error)  { return false, nil }

func (Unsupported) Challenge(context.Context, ChallengeOptions) (Result, error) {
	return Result{}, nil
}
