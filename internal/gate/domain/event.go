package domain

import "time"

// Authentication methods recorded in the audit trail.
const (
	MethodBiometric = "biometric"
	MethodPIN       = "pin"
)

// AuthEvent is one audited authentication attempt. Events are append-only
// and pruned by housekeeping after the retention window.
type AuthEvent struct {
	ID        string    `json:"id"` // ULID
	Method    string    `json:"method"`
	Success   bool      `json:"success"`
	Error     ErrorCode `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
