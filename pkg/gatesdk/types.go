// Package gatesdk holds the wire types and a thin client for the taskgate
// local HTTP API. The desktop UI and the e2e tests both consume it.
package gatesdk

// AuthResponse is returned by both authentication endpoints.
type AuthResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	// Token is a bearer session token minted on success; its lifetime
	// mirrors the session remainder.
	Token       string `json:"token,omitempty"`
	ExpiresInMs int64  `json:"expires_in_ms,omitempty"`
}

// SessionResponse is the observable session snapshot plus the capability
// hints the UI needs to pick its copy.
type SessionResponse struct {
	Authenticated  bool   `json:"authenticated"`
	Authenticating bool   `json:"authenticating"`
	RequiresPIN    bool   `json:"requires_pin"`
	Error          string `json:"error,omitempty"`
	RemainingMs    int64  `json:"remaining_ms"`

	PINSet             bool `json:"pin_set"`
	BiometricAvailable bool `json:"biometric_available"`
}

// PINRequest carries the PIN for the setup-or-verify endpoint.
type PINRequest struct {
	PIN string `json:"pin"`
}

// Event is one audited authentication attempt.
type Event struct {
	ID        string `json:"id"`
	Method    string `json:"method"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
}

// EventsResponse lists recent audit events, newest first.
type EventsResponse struct {
	Events []Event `json:"events"`
}

// ErrorResponse is the daemon's standard error body.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HealthChecks reports per-dependency health for readiness.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
