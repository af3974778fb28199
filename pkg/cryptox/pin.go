package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// FingerprintPIN returns a deterministic SHA-256 fingerprint of a PIN,
// base64url encoded without padding. The digest is intentionally unsalted:
// the stored format is a stable contract and the PIN is a device-local
// convenience factor, not a phishing-resistant secret. Changing this to a
// salted scheme requires a versioned migration of stored values.
func FingerprintPIN(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// VerifyPIN compares a candidate PIN against a stored fingerprint in
// constant time.
func VerifyPIN(pin, fingerprint string) bool {
	computed := FingerprintPIN(pin)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(fingerprint)) == 1
}
