package gate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/millhouse-dev/taskgate/pkg/gatesdk"
)

// TestRateLimitPINEndpoint verifies the PIN endpoint is rate limited. The
// strict profile allows 10 requests per minute, so an 11th rapid attempt
// must be refused at the transport before it reaches the engine.
func TestRateLimitPINEndpoint(t *testing.T) {
	baseURL := setupGateServer(t, gateOptions{})
	client := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	// Short PINs are rejected without touching stored state, so they make
	// a safe probe that still consumes rate budget.
	for i := range 10 {
		auth, err := client.AuthenticatePIN(ctx, "1")
		require.NoError(t, err, "request %d should not be rate limited yet", i+1)
		require.Equal(t, "pin_too_short", auth.Error)
	}

	_, err := client.AuthenticatePIN(ctx, "1")
	var apiErr *gatesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 429, apiErr.StatusCode)
}
