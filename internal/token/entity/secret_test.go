package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSecret(t *testing.T) {
	sec, err := DecodeSecret("GEZDGNBVGY3TQOJQ")
	require.NoError(t, err)
	assert.Equal(t, Secret("1234567890"), sec)

	// Lowercase and padding are tolerated.
	sec, err = DecodeSecret("mzxw6===")
	require.NoError(t, err)
	assert.Equal(t, Secret("foo"), sec)

	_, err = DecodeSecret("not base32!")
	assert.ErrorIs(t, err, ErrSecretEncoding)
}

func TestDecodeSecretPair(t *testing.T) {
	sec, err := DecodeSecretPair("GEZDGNBVGY3TQOJQ", "GEZDGNBVGY3TQOJQ")
	require.NoError(t, err)
	assert.Equal(t, "GEZDGNBVGY3TQOJQ", sec.Encode())

	_, err = DecodeSecretPair("GEZDGNBVGY3TQOJQ", "GEZDGNBVGY3TQOJA")
	assert.ErrorIs(t, err, ErrSecretMismatch)

	// The comparison runs before any decoding: a matching pair of garbage
	// still reports the encoding problem, a mismatched one never does.
	_, err = DecodeSecretPair("!!", "!!")
	assert.ErrorIs(t, err, ErrSecretEncoding)
}

func TestNewRandomSecret(t *testing.T) {
	a, err := NewRandomSecret()
	require.NoError(t, err)
	assert.Len(t, a, KeyLength)

	// No padding in the emitted form.
	assert.NotContains(t, a.Encode(), "=")

	b, err := NewRandomSecret()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestProvisionURI(t *testing.T) {
	sec, err := DecodeSecret("GEZDGNBVGY3TQOJQ")
	require.NoError(t, err)

	totp := ProvisionParams{
		Type:      TokenTypeTOTP,
		Issuer:    "EXAMPLE.COM",
		ID:        "tok-1",
		Secret:    sec,
		Digits:    DigitsSix,
		Algorithm: AlgorithmSHA1,
		TimeStep:  30,
	}
	assert.Equal(t,
		"otpauth://totp/EXAMPLE.COM:tok-1?issuer=EXAMPLE.COM&secret=GEZDGNBVGY3TQOJQ&digits=6&algorithm=SHA1&period=30",
		totp.URI())

	hotp := ProvisionParams{
		Type:      TokenTypeHOTP,
		Issuer:    "alice@EXAMPLE.COM",
		ID:        "tok 2",
		Secret:    sec,
		Digits:    DigitsEight,
		Algorithm: AlgorithmSHA512,
		Counter:   0,
	}
	assert.Equal(t,
		"otpauth://hotp/alice@EXAMPLE.COM:tok%202?issuer=alice%40EXAMPLE.COM&secret=GEZDGNBVGY3TQOJQ&digits=8&algorithm=SHA512&counter=0",
		hotp.URI())
}

func TestSyncStatusFromString(t *testing.T) {
	assert.Equal(t, SyncStatusOK, SyncStatusFromString("ok"))
	assert.Equal(t, SyncStatusError, SyncStatusFromString("error"))
	assert.Equal(t, SyncStatusInvalidCredentials, SyncStatusFromString("invalid-credentials"))
	assert.Equal(t, SyncStatusUnknown, SyncStatusFromString(""))
	assert.Equal(t, SyncStatusUnknown, SyncStatusFromString("OK"))
}
