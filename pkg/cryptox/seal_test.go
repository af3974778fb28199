package cryptox

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	t.Parallel()

	sealer, err := NewSealer([]byte("test-device-key-material"))
	require.NoError(t, err)

	sealed, err := sealer.Seal("1712345678901")
	require.NoError(t, err)
	require.NotContains(t, sealed, "1712345678901")

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, "1712345678901", opened)
}

func TestSealProducesFreshNonces(t *testing.T) {
	t.Parallel()

	sealer, err := NewSealer([]byte("test-device-key-material"))
	require.NoError(t, err)

	a, err := sealer.Seal("same value")
	require.NoError(t, err)
	b, err := sealer.Seal("same value")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestOpenRejectsTamperedAndForeignValues(t *testing.T) {
	t.Parallel()

	sealer, err := NewSealer([]byte("key-one"))
	require.NoError(t, err)
	other, err := NewSealer([]byte("key-two"))
	require.NoError(t, err)

	sealed, err := sealer.Seal("secret")
	require.NoError(t, err)

	_, err = other.Open(sealed)
	require.ErrorIs(t, err, ErrSealOpen)

	_, err = sealer.Open("not base64!!")
	require.ErrorIs(t, err, ErrSealOpen)

	_, err = sealer.Open("c2hvcnQ")
	require.ErrorIs(t, err, ErrSealOpen)
}

func TestNewSealerRejectsEmptyKey(t *testing.T) {
	t.Parallel()

	_, err := NewSealer(nil)
	require.Error(t, err)
}

func TestLoadOrCreateDeviceKeyIsStable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keys", "device.key")

	first, err := LoadOrCreateDeviceKey(path)
	require.NoError(t, err)
	require.Len(t, first, DeviceKeySize)

	second, err := LoadOrCreateDeviceKey(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
