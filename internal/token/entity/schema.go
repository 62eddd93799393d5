package entity

import "time"

// AttrMap is the flat, string-keyed attribute form a record takes at the
// storage boundary. Values hold the natural Go type of each attribute
// (string, int, bool, []byte, []string, time.Time).
type AttrMap map[string]any

// GetString returns the value for key as a string, or "".
func (m AttrMap) GetString(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// GetInt returns the value for key as an int, or 0.
func (m AttrMap) GetInt(key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}

// GetBool returns the value for key as a bool, or false.
func (m AttrMap) GetBool(key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// GetBytes returns the value for key as raw bytes, or nil.
func (m AttrMap) GetBytes(key string) []byte {
	if v, ok := m[key].([]byte); ok {
		return v
	}
	return nil
}

// GetStrings returns the value for key as a string slice, or nil.
func (m AttrMap) GetStrings(key string) []string {
	if v, ok := m[key].([]string); ok {
		return v
	}
	return nil
}

// GetTime returns the value for key as a timestamp pointer, or nil.
func (m AttrMap) GetTime(key string) *time.Time {
	switch v := m[key].(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		t := v
		return &t
	case *time.Time:
		return v
	default:
		return nil
	}
}

// Has reports whether key is present.
func (m AttrMap) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Clone returns a shallow copy of the map.
func (m AttrMap) Clone() AttrMap {
	out := make(AttrMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SetIfAbsent stores value under key only when the key is missing.
func (m AttrMap) SetIfAbsent(key string, value any) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}

// Attrs flattens the token into its storage attribute form, including the
// schema-class marker set. Only the field group matching the type is
// emitted, keeping the stored record schema-exclusive.
func (t *Token) Attrs() AttrMap {
	attrs := AttrMap{
		AttrID:        t.ID,
		AttrClasses:   t.Classes(),
		AttrAlgorithm: t.Algorithm.String(),
		AttrDigits:    int(t.Digits),
		AttrDisabled:  t.Disabled,
	}

	if len(t.Secret) > 0 {
		attrs[AttrSecret] = []byte(t.Secret)
	}
	if t.Owner != "" {
		attrs[AttrOwner] = t.Owner
	}
	if t.ManagedBy != "" {
		attrs[AttrManagedBy] = t.ManagedBy
	}
	if t.NotBefore != nil {
		attrs[AttrNotBefore] = *t.NotBefore
	}
	if t.NotAfter != nil {
		attrs[AttrNotAfter] = *t.NotAfter
	}
	if t.Description != "" {
		attrs[AttrDescription] = t.Description
	}
	if t.Vendor != "" {
		attrs[AttrVendor] = t.Vendor
	}
	if t.Model != "" {
		attrs[AttrModel] = t.Model
	}
	if t.Serial != "" {
		attrs[AttrSerial] = t.Serial
	}

	switch t.Type {
	case TokenTypeTOTP:
		if t.TOTP != nil {
			attrs[AttrTOTPClockOffset] = t.TOTP.ClockOffset
			attrs[AttrTOTPTimeStep] = t.TOTP.TimeStep
		}
	case TokenTypeHOTP:
		if t.HOTP != nil {
			attrs[AttrHOTPCounter] = t.HOTP.Counter
		}
	}

	return attrs
}

// TokenFromAttrs rebuilds a typed token from its stored attribute form. The
// type is derived from the schema-class marker set; records without a
// recognizable marker come back untyped with no type-specific settings.
//
// The secret is intentionally not copied out: read paths never re-emit key
// material.
func TokenFromAttrs(attrs AttrMap) *Token {
	t := &Token{
		ID:          attrs.GetString(AttrID),
		Type:        ResolveType(attrs.GetStrings(AttrClasses)),
		Algorithm:   AlgorithmFromString(attrs.GetString(AttrAlgorithm)),
		Digits:      Digits(attrs.GetInt(AttrDigits)),
		Owner:       attrs.GetString(AttrOwner),
		ManagedBy:   attrs.GetString(AttrManagedBy),
		Disabled:    attrs.GetBool(AttrDisabled),
		NotBefore:   attrs.GetTime(AttrNotBefore),
		NotAfter:    attrs.GetTime(AttrNotAfter),
		Description: attrs.GetString(AttrDescription),
		Vendor:      attrs.GetString(AttrVendor),
		Model:       attrs.GetString(AttrModel),
		Serial:      attrs.GetString(AttrSerial),
	}

	switch t.Type {
	case TokenTypeTOTP:
		t.TOTP = &TOTPSettings{
			ClockOffset: attrs.GetInt(AttrTOTPClockOffset),
			TimeStep:    attrs.GetInt(AttrTOTPTimeStep),
		}
	case TokenTypeHOTP:
		t.HOTP = &HOTPSettings{
			Counter: attrs.GetInt(AttrHOTPCounter),
		}
	}

	return t
}
