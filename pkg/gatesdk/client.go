package gatesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a running taskgate daemon over its loopback HTTP API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is the bearer session token for authenticated endpoints. The
	// authenticate helpers update it automatically on success.
	Token string
}

// NewClient creates a Client for the given base URL (e.g.
// "http://127.0.0.1:8321").
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthenticateBiometric runs the biometric path.
func (c *Client) AuthenticateBiometric(ctx context.Context) (AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/biometric", nil, &out); err != nil {
		return AuthResponse{}, err
	}
	if out.Success {
		c.Token = out.Token
	}
	return out, nil
}

// AuthenticatePIN runs the PIN setup-or-verify path.
func (c *Client) AuthenticatePIN(ctx context.Context, pin string) (AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/pin", PINRequest{PIN: pin}, &out); err != nil {
		return AuthResponse{}, err
	}
	if out.Success {
		c.Token = out.Token
	}
	return out, nil
}

// Session fetches the current session snapshot.
func (c *Client) Session(ctx context.Context) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(ctx, http.MethodGet, "/v1/session", nil, &out)
	return out, err
}

// Logout deletes the session marker.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/v1/logout", nil, nil); err != nil {
		return err
	}
	c.Token = ""
	return nil
}

// Events lists recent audit events. Requires a valid session token.
func (c *Client) Events(ctx context.Context) (EventsResponse, error) {
	var out EventsResponse
	err := c.do(ctx, http.MethodGet, "/v1/events", nil, &out)
	return out, err
}

// Wipe erases all local gate data. Requires a valid session token.
func (c *Client) Wipe(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/wipe", nil, nil)
}

// Livez checks daemon liveness.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", nil, &out)
	return out, err
}

// Readyz checks daemon readiness including the credential store.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", nil, &out)
	return out, err
}

// APIError is a non-2xx response from the daemon. The decoded body, when
// present, describes the failure in the standard error shape.
type APIError struct {
	StatusCode int
	Body       ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Error != "" {
		return fmt.Sprintf("gatesdk: %d %s: %s", e.StatusCode, e.Body.Error, e.Body.ErrorDescription)
	}
	return fmt.Sprintf("gatesdk: unexpected status %d", e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("gatesdk: failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("gatesdk: failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("gatesdk: request failed: %w", err)
	}
	defer resp.Body.Close()

	// Auth endpoints answer failed attempts with 4xx/5xx plus an
	// AuthResponse body, which callers want decoded, not wrapped.
	if out != nil && isAuthPath(path) && resp.StatusCode != http.StatusTooManyRequests {
		return json.NewDecoder(resp.Body).Decode(out)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, "/v1/auth/")
}
