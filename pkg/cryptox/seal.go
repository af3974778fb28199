package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Argon2id parameters for stretching the device key into a sealing key.
const (
	sealMemory      = 19 * 1024 // KiB
	sealIterations  = 2
	sealParallelism = 1
)

// sealContext domain-separates the sealing key from other uses of the
// device key (e.g. token signing).
var sealContext = []byte("taskgate/store-seal/v1")

// ErrSealOpen reports that a sealed value failed to authenticate or decode.
var ErrSealOpen = errors.New("cryptox: cannot open sealed value")

// Sealer encrypts credential-store values at rest with ChaCha20-Poly1305.
// The AEAD key is derived from the per-installation device key, so sealed
// values are only readable on the device that wrote them.
type Sealer struct {
	aead interface {
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	}
}

// NewSealer derives the sealing key from the device key and returns a
// ready-to-use Sealer.
func NewSealer(deviceKey []byte) (*Sealer, error) {
	if len(deviceKey) == 0 {
		return nil, errors.New("cryptox: empty device key")
	}

	key := argon2.IDKey(deviceKey, sealContext, sealIterations, sealMemory, sealParallelism, chacha20poly1305.KeySize)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise AEAD: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext and returns base64url([nonce || ciphertext]).
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrSealOpen
	}
	if len(raw) < chacha20poly1305.NonceSize {
		return "", ErrSealOpen
	}

	nonce, ciphertext := raw[:chacha20poly1305.NonceSize], raw[chacha20poly1305.NonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrSealOpen
	}
	return string(plaintext), nil
}
