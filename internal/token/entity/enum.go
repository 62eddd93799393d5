package entity

import "strings"

// TokenType is the closed set of supported OTP token families.
type TokenType string

const (
	// TokenTypeUnknown means the stored record carries no recognizable
	// schema-class marker. Such records have no type-specific fields.
	TokenTypeUnknown TokenType = ""

	// TokenTypeTOTP is a time-based OTP token.
	TokenTypeTOTP TokenType = "totp"

	// TokenTypeHOTP is a counter-based OTP token.
	TokenTypeHOTP TokenType = "hotp"
)

// TokenTypes lists the known types in a stable order.
var TokenTypes = []TokenType{TokenTypeTOTP, TokenTypeHOTP}

// TokenTypeFromString parses a type value case-insensitively.
// Unrecognized values map to TokenTypeUnknown.
func TokenTypeFromString(s string) TokenType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "totp":
		return TokenTypeTOTP
	case "hotp":
		return TokenTypeHOTP
	default:
		return TokenTypeUnknown
	}
}

// String returns the lowercase wire form of the type.
func (t TokenType) String() string {
	return string(t)
}

// Display returns the uppercase form used in read responses.
func (t TokenType) Display() string {
	return strings.ToUpper(string(t))
}

// IsKnown reports whether the type is part of the closed enumeration.
func (t TokenType) IsKnown() bool {
	return t == TokenTypeTOTP || t == TokenTypeHOTP
}

// Algorithm is the hash algorithm an authenticator uses to derive codes.
// It is write-once and defaults to SHA1.
type Algorithm string

const (
	AlgorithmSHA1   Algorithm = "sha1"
	AlgorithmSHA256 Algorithm = "sha256"
	AlgorithmSHA384 Algorithm = "sha384"
	AlgorithmSHA512 Algorithm = "sha512"
)

// DefaultAlgorithm is applied when a create request omits the algorithm.
const DefaultAlgorithm = AlgorithmSHA1

// AlgorithmFromString parses an algorithm case-insensitively; empty or
// unrecognized input yields the empty Algorithm.
func AlgorithmFromString(s string) Algorithm {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sha1":
		return AlgorithmSHA1
	case "sha256":
		return AlgorithmSHA256
	case "sha384":
		return AlgorithmSHA384
	case "sha512":
		return AlgorithmSHA512
	default:
		return ""
	}
}

// String returns the lowercase storage form.
func (a Algorithm) String() string {
	return string(a)
}

// Display returns the uppercase form used in the provisioning URI.
func (a Algorithm) Display() string {
	return strings.ToUpper(string(a))
}

// IsValid reports whether the algorithm is one of the supported values.
func (a Algorithm) IsValid() bool {
	switch a {
	case AlgorithmSHA1, AlgorithmSHA256, AlgorithmSHA384, AlgorithmSHA512:
		return true
	default:
		return false
	}
}

// Digits is the number of digits of every generated code. Write-once.
type Digits int

const (
	DigitsSix   Digits = 6
	DigitsEight Digits = 8
)

// DefaultDigits is applied when a create request omits digits.
const DefaultDigits = DigitsSix

// IsValid reports whether the digit count is one of the supported values.
func (d Digits) IsValid() bool {
	return d == DigitsSix || d == DigitsEight
}
