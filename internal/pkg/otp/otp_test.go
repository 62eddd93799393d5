package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("12345678901234567890")

func TestValidateTOTP(t *testing.T) {
	v := NewValidator()
	at := time.Date(2025, 6, 15, 12, 0, 15, 0, time.UTC)
	opts := TOTPOptions{Period: 30, Skew: 1, Digits: 6, Algorithm: "sha1"}

	code, err := GenerateTOTPCode(secret, at, opts)
	require.NoError(t, err)
	require.Len(t, code, 6)

	assert.True(t, v.ValidateTOTP(code, secret, at, opts))

	// One adjacent window is inside the skew, two are not.
	assert.True(t, v.ValidateTOTP(code, secret, at.Add(30*time.Second), opts))
	assert.False(t, v.ValidateTOTP(code, secret, at.Add(90*time.Second), opts))

	assert.False(t, v.ValidateTOTP("000000", secret, at, opts))
}

func TestValidateTOTPAlgorithmsDiffer(t *testing.T) {
	v := NewValidator()
	at := time.Date(2025, 6, 15, 12, 0, 15, 0, time.UTC)

	sha1Code, err := GenerateTOTPCode(secret, at, TOTPOptions{Period: 30, Digits: 6, Algorithm: "sha1"})
	require.NoError(t, err)

	sha256Code, err := GenerateTOTPCode(secret, at, TOTPOptions{Period: 30, Digits: 6, Algorithm: "sha256"})
	require.NoError(t, err)

	assert.NotEqual(t, sha1Code, sha256Code)
	assert.False(t, v.ValidateTOTP(sha1Code, secret, at, TOTPOptions{Period: 30, Skew: 1, Digits: 6, Algorithm: "sha256"}))
}

func TestValidateHOTP(t *testing.T) {
	v := NewValidator()
	opts := HOTPOptions{Window: 10, Digits: 6, Algorithm: "sha1"}

	code, err := GenerateHOTPCode(secret, 7, opts)
	require.NoError(t, err)

	next, ok := v.ValidateHOTP(code, secret, 5, opts)
	assert.True(t, ok)
	assert.Equal(t, uint64(8), next)

	// Beyond the look-ahead window the code is rejected and the counter
	// does not move.
	next, ok = v.ValidateHOTP(code, secret, 8, opts)
	assert.False(t, ok)
	assert.Equal(t, uint64(8), next)

	far, err := GenerateHOTPCode(secret, 20, opts)
	require.NoError(t, err)
	_, ok = v.ValidateHOTP(far, secret, 5, opts)
	assert.False(t, ok)
}

func TestRFC4226Vectors(t *testing.T) {
	// Appendix D of RFC 4226, secret "12345678901234567890".
	want := []string{"755224", "287082", "359152", "969429", "338314", "254676"}

	for counter, expected := range want {
		code, err := GenerateHOTPCode(secret, uint64(counter), HOTPOptions{Digits: 6, Algorithm: "sha1"})
		require.NoError(t, err)
		assert.Equal(t, expected, code, "counter %d", counter)
	}
}
