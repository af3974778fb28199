package biometric

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeHelper(t *testing.T, script string) *HelperPrompter {
	t.Helper()

	path := filepath.Join(t.TempDir(), "helper.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return &HelperPrompter{Path: path}
}

func TestHelperCapability(t *testing.T) {
	t.Parallel()

	p := writeHelper(t, `
case "$1" in
capability) printf '{"hardware":true,"enrolled":false}' ;;
esac
`)

	ctx := context.Background()

	hardware, err := p.HasHardware(ctx)
	require.NoError(t, err)
	require.True(t, hardware)

	enrolled, err := p.IsEnrolled(ctx)
	require.NoError(t, err)
	require.False(t, enrolled)
}

func TestHelperChallengePassesOptionsAndParsesResult(t *testing.T) {
	t.Parallel()

	// The helper echoes whether it received the fallback suppression flag.
	p := writeHelper(t, `
if [ "$1" = "challenge" ]; then
  if grep -q '"disable_device_fallback":true' -; then
    printf '{"success":true}'
  else
    printf '{"success":false,"code":"fallback_not_suppressed"}'
  fi
fi
`)

	result, err := p.Challenge(context.Background(), ChallengeOptions{
		Prompt:                "Unlock your tasks",
		CancelLabel:           "Use PIN",
		DisableDeviceFallback: true,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
}

func TestHelperFailuresSurfaceAsErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing binary", func(t *testing.T) {
		p := &HelperPrompter{Path: filepath.Join(t.TempDir(), "missing")}
		_, err := p.HasHardware(context.Background())
		require.Error(t, err)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		p := writeHelper(t, "exit 3")
		_, err := p.Challenge(context.Background(), ChallengeOptions{})
		require.Error(t, err)
	})

	t.Run("garbage output", func(t *testing.T) {
		p := writeHelper(t, `printf 'not json'`)
		_, err := p.IsEnrolled(context.Background())
		require.Error(t, err)
	})
}

func TestUnsupportedFailsClosed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var p Unsupported

	hardware, err := p.HasHardware(ctx)
	require.NoError(t, err)
	require.False(t, hardware)

	enrolled, err := p.IsEnrolled(ctx)
	require.NoError(t, err)
	require.False(t, enrolled)

	result, err := p.Challenge(ctx, ChallengeOptions{})
	require.NoError(t, err)
	require.False(t, result.Success)
}
