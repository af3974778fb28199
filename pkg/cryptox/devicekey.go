package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

// DeviceKeySize is the raw size of the per-installation device key.
const DeviceKeySize = 32

// LoadOrCreateDeviceKey reads the per-installation device key from path,
// generating and persisting a fresh one on first use. The key seeds both
// the store sealer and the session token signer.
func LoadOrCreateDeviceKey(path string) ([]byte, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create device key directory: %w", err)
	}

	if data, err := os.ReadFile(path); err == nil {
		key, err := base64.RawURLEncoding.DecodeString(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode device key: %w", err)
		}
		if len(key) != DeviceKeySize {
			return nil, fmt.Errorf("device key has wrong size: %d", len(key))
		}
		return key, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read device key: %w", err)
	}

	key := make([]byte, DeviceKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate device key: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(key)
	if err := os.WriteFile(path, []byte(encoded), 0600); err != nil {
		return nil, fmt.Errorf("failed to persist device key: %w", err)
	}
	return key, nil
}
