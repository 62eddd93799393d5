package entity

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
)

// KeyLength is the size in bytes of generated secrets. It is a multiple of 5
// so the base32 form needs no padding.
const KeyLength = 20

var (
	// ErrSecretMismatch indicates a (value, confirmation) pair whose
	// elements differ. The check happens before any decoding.
	ErrSecretMismatch = errors.New("token: secret confirmation does not match")

	// ErrSecretEncoding indicates malformed base32 key material. It wraps
	// the underlying decoder message.
	ErrSecretEncoding = errors.New("token: secret is not valid base32")
)

// Secret is raw OTP key material. It is write-only after creation: no read
// path re-emits it, and only the provisioning URI builder re-encodes it.
type Secret []byte

// noPadB32 matches the emitted form: standard alphabet, no padding.
var noPadB32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// Encode returns the base32 text form of the secret with padding trimmed.
func (s Secret) Encode() string {
	return noPadB32.EncodeToString(s)
}

// DecodeSecret parses a base32 text secret. Decoding is case-insensitive and
// tolerates omitted padding.
func DecodeSecret(encoded string) (Secret, error) {
	normalized := strings.ToUpper(strings.TrimSpace(encoded))
	normalized = strings.TrimRight(normalized, "=")

	raw, err := noPadB32.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSecretEncoding, err)
	}

	return Secret(raw), nil
}

// DecodeSecretPair parses a (value, confirmation) pair. Both elements must be
// byte-identical before decoding; a mismatch never reaches the decoder.
func DecodeSecretPair(value, confirm string) (Secret, error) {
	if subtle.ConstantTimeCompare([]byte(value), []byte(confirm)) != 1 {
		return nil, ErrSecretMismatch
	}
	return DecodeSecret(value)
}

// NewRandomSecret generates KeyLength cryptographically random bytes.
func NewRandomSecret() (Secret, error) {
	buf := make([]byte, KeyLength)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return Secret(buf), nil
}
