package gate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/millhouse-dev/taskgate/pkg/gatesdk"
)

// TestLivez checks the liveness probe.
func TestLivez(t *testing.T) {
	baseURL := setupGateServer(t, gateOptions{})
	client := gatesdk.NewClient(baseURL)

	health, err := client.Livez(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Uptime)
	require.NotEmpty(t, health.Version)
	require.Nil(t, health.Checks)
}

// TestReadyz checks the readiness probe against a healthy store.
func TestReadyz(t *testing.T) {
	baseURL := setupGateServer(t, gateOptions{})
	client := gatesdk.NewClient(baseURL)

	health, err := client.Readyz(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
}
