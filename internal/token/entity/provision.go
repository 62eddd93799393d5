package entity

import (
	"net/url"
	"strconv"
	"strings"
)

// ProvisionParams carries everything the enrollment URI needs. It is
// assembled once during creation, after key material, type, and owner are
// final, and is never persisted: the URI is the only plaintext exposure of
// the secret after creation.
type ProvisionParams struct {
	Type      TokenType
	Issuer    string
	ID        string
	Secret    Secret
	Digits    Digits
	Algorithm Algorithm

	// TimeStep applies to TOTP tokens, Counter to HOTP tokens.
	TimeStep int
	Counter  int
}

// URI renders the standard otpauth enrollment URI:
//
//	otpauth://{type}/{issuer}:{percent-encoded id}?issuer=…&secret=…&digits=…&algorithm=…[&period=…|&counter=…]
//
// Parameter order is fixed so the output is deterministic.
func (p ProvisionParams) URI() string {
	pairs := [][2]string{
		{"issuer", p.Issuer},
		{"secret", p.Secret.Encode()},
		{"digits", strconv.Itoa(int(p.Digits))},
		{"algorithm", p.Algorithm.Display()},
	}

	switch p.Type {
	case TokenTypeTOTP:
		pairs = append(pairs, [2]string{"period", strconv.Itoa(p.TimeStep)})
	case TokenTypeHOTP:
		pairs = append(pairs, [2]string{"counter", strconv.Itoa(p.Counter)})
	}

	var query strings.Builder
	for i, kv := range pairs {
		if i > 0 {
			query.WriteByte('&')
		}
		query.WriteString(kv[0])
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(kv[1]))
	}

	label := url.PathEscape(p.ID)

	return "otpauth://" + p.Type.String() + "/" + p.Issuer + ":" + label + "?" + query.String()
}
