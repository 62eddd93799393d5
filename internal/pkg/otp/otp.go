package otp

import (
	"encoding/base32"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"github.com/pquerna/otp/totp"
)

// Validator defines the contract for checking OTP codes against raw key
// material. Implementations never learn where the secret came from.
type Validator interface {
	// ValidateTOTP checks a time-based code at the given instant.
	ValidateTOTP(code string, secret []byte, at time.Time, opts TOTPOptions) bool
	// ValidateHOTP checks a counter-based code within a look-ahead window
	// starting at counter. On success it returns the next counter value to
	// persist.
	ValidateHOTP(code string, secret []byte, counter uint64, opts HOTPOptions) (uint64, bool)
}

// TOTPOptions carries the per-token parameters of a time-based check.
type TOTPOptions struct {
	// Period is the code validity window in seconds.
	Period uint
	// Skew is how many adjacent windows are accepted.
	Skew uint
	// Digits is 6 or 8.
	Digits int
	// Algorithm is the hash name (sha1, sha256, sha512).
	Algorithm string
}

// HOTPOptions carries the per-token parameters of a counter-based check.
type HOTPOptions struct {
	// Window is how many counters past the stored one are tried.
	Window uint64
	// Digits is 6 or 8.
	Digits int
	// Algorithm is the hash name (sha1, sha256, sha512).
	Algorithm string
}

// Pquerna implements Validator on github.com/pquerna/otp.
type Pquerna struct{}

// NewValidator returns the pquerna-backed validator.
func NewValidator() *Pquerna {
	return &Pquerna{}
}

var noPadB32 = base32.StdEncoding.WithPadding(base32.NoPadding)

func digitsOf(n int) otp.Digits {
	if n == 8 {
		return otp.DigitsEight
	}
	return otp.DigitsSix
}

// algorithmOf maps a hash name to the library constant. The library has no
// SHA384 mode; callers screen that algorithm out before validating.
func algorithmOf(name string) otp.Algorithm {
	switch strings.ToLower(name) {
	case "sha256":
		return otp.AlgorithmSHA256
	case "sha512":
		return otp.AlgorithmSHA512
	default:
		return otp.AlgorithmSHA1
	}
}

// ValidateTOTP checks a time-based code at the given instant.
func (p *Pquerna) ValidateTOTP(code string, secret []byte, at time.Time, opts TOTPOptions) bool {
	if opts.Period == 0 {
		opts.Period = 30
	}
	if opts.Skew == 0 {
		opts.Skew = 1
	}

	ok, err := totp.ValidateCustom(code, noPadB32.EncodeToString(secret), at, totp.ValidateOpts{
		Period:    opts.Period,
		Skew:      opts.Skew,
		Digits:    digitsOf(opts.Digits),
		Algorithm: algorithmOf(opts.Algorithm),
	})

	return ok && err == nil
}

// ValidateHOTP scans counters [counter, counter+Window] for a match.
func (p *Pquerna) ValidateHOTP(code string, secret []byte, counter uint64, opts HOTPOptions) (uint64, bool) {
	encoded := noPadB32.EncodeToString(secret)
	vopts := hotp.ValidateOpts{
		Digits:    digitsOf(opts.Digits),
		Algorithm: algorithmOf(opts.Algorithm),
	}

	for c := counter; c <= counter+opts.Window; c++ {
		ok, err := hotp.ValidateCustom(code, c, encoded, vopts)
		if ok && err == nil {
			return c + 1, true
		}
	}

	return counter, false
}

// GenerateTOTPCode produces a time-based code; used by tests and tooling.
func GenerateTOTPCode(secret []byte, at time.Time, opts TOTPOptions) (string, error) {
	if opts.Period == 0 {
		opts.Period = 30
	}

	return totp.GenerateCodeCustom(noPadB32.EncodeToString(secret), at, totp.ValidateOpts{
		Period:    opts.Period,
		Skew:      opts.Skew,
		Digits:    digitsOf(opts.Digits),
		Algorithm: algorithmOf(opts.Algorithm),
	})
}

// GenerateHOTPCode produces a counter-based code; used by tests and tooling.
func GenerateHOTPCode(secret []byte, counter uint64, opts HOTPOptions) (string, error) {
	return hotp.GenerateCodeCustom(noPadB32.EncodeToString(secret), counter, hotp.ValidateOpts{
		Digits:    digitsOf(opts.Digits),
		Algorithm: algorithmOf(opts.Algorithm),
	})
}
