package entity

import (
	"strings"
	"time"
)

// Storage attribute names shared between the usecase layer and the store
// collaborator. The store persists records as flat attribute maps keyed by
// these names; the schema resolver in this package maps them to and from the
// typed Token.
const (
	AttrID          = "id"
	AttrClasses     = "classes"
	AttrSecret      = "secret"
	AttrAlgorithm   = "algorithm"
	AttrDigits      = "digits"
	AttrOwner       = "owner"
	AttrManagedBy   = "managed_by"
	AttrDisabled    = "disabled"
	AttrNotBefore   = "not_before"
	AttrNotAfter    = "not_after"
	AttrDescription = "description"
	AttrVendor      = "vendor"
	AttrModel       = "model"
	AttrSerial      = "serial"

	// TOTP-only attributes.
	AttrTOTPClockOffset = "totp_clock_offset"
	AttrTOTPTimeStep    = "totp_time_step"

	// HOTP-only attributes.
	AttrHOTPCounter = "hotp_counter"
)

// ClassToken is the generic schema-class marker every token record carries.
// Type-specific markers are derived from it (otptokentotp, otptokenhotp).
const ClassToken = "otptoken"

// typeAttrs maps each type to its exclusive attribute group. A record of one
// type must never persist attributes of the other group.
var typeAttrs = map[TokenType][]string{
	TokenTypeTOTP: {AttrTOTPClockOffset, AttrTOTPTimeStep},
	TokenTypeHOTP: {AttrHOTPCounter},
}

// Defaults for type-specific settings.
const (
	DefaultTimeStep    = 30
	MinTimeStep        = 5
	DefaultClockOffset = 0
	DefaultCounter     = 0
)

// TOTPSettings are the fields specific to time-based tokens.
type TOTPSettings struct {
	// ClockOffset is the token/server time difference in seconds.
	ClockOffset int
	// TimeStep is the length of a code validity window in seconds.
	TimeStep int
}

// HOTPSettings are the fields specific to counter-based tokens.
type HOTPSettings struct {
	// Counter is the current event counter value.
	Counter int
}

// Token is the central entity: one OTP credential record.
//
// Exactly one of TOTP/HOTP is non-nil for a typed token, matching Type.
// Untyped records (no recognizable schema-class marker) have both nil.
type Token struct {
	ID        string
	Type      TokenType
	Secret    Secret
	Algorithm Algorithm
	Digits    Digits

	TOTP *TOTPSettings
	HOTP *HOTPSettings

	Owner     string
	ManagedBy string
	Disabled  bool
	NotBefore *time.Time
	NotAfter  *time.Time

	// Informational metadata, free text, never validated.
	Description string
	Vendor      string
	Model       string
	Serial      string
}

// Classes returns the schema-class marker set for the token: the generic
// marker plus the type marker when the type is known.
func (t *Token) Classes() []string {
	classes := []string{ClassToken}
	if t.Type.IsKnown() {
		classes = append(classes, ClassToken+t.Type.String())
	}
	return classes
}

// SelfManaged reports whether owner and manager are the same principal.
func (t *Token) SelfManaged() bool {
	return t.Owner != "" && t.Owner == t.ManagedBy
}

// ClassForType returns the type-specific schema-class marker.
func ClassForType(t TokenType) string {
	return ClassToken + t.String()
}

// ResolveType inspects a stored marker set and returns the first marker
// matching a known type. Records missing every known marker are untyped.
func ResolveType(classes []string) TokenType {
	lowered := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		lowered[strings.ToLower(c)] = struct{}{}
	}

	for _, tt := range TokenTypes {
		if _, ok := lowered[ClassForType(tt)]; ok {
			return tt
		}
	}

	return TokenTypeUnknown
}

// PruneForeignAttrs removes from attrs every attribute belonging to a type
// other than t, whether or not the caller supplied it. The drop is silent.
func PruneForeignAttrs(attrs AttrMap, t TokenType) {
	for tt, names := range typeAttrs {
		if tt == t {
			continue
		}
		for _, name := range names {
			delete(attrs, name)
		}
	}
}
