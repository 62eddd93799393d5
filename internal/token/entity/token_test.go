package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenClasses(t *testing.T) {
	totp := &Token{Type: TokenTypeTOTP}
	assert.Equal(t, []string{"otptoken", "otptokentotp"}, totp.Classes())

	hotp := &Token{Type: TokenTypeHOTP}
	assert.Equal(t, []string{"otptoken", "otptokenhotp"}, hotp.Classes())

	untyped := &Token{}
	assert.Equal(t, []string{"otptoken"}, untyped.Classes())
}

func TestResolveType(t *testing.T) {
	assert.Equal(t, TokenTypeTOTP, ResolveType([]string{"otptoken", "otptokentotp"}))
	assert.Equal(t, TokenTypeHOTP, ResolveType([]string{"OTPTOKEN", "OTPTOKENHOTP"}))
	assert.Equal(t, TokenTypeUnknown, ResolveType([]string{"otptoken"}))
	assert.Equal(t, TokenTypeUnknown, ResolveType(nil))
}

func TestSelfManaged(t *testing.T) {
	assert.True(t, (&Token{Owner: "uid=alice", ManagedBy: "uid=alice"}).SelfManaged())
	assert.False(t, (&Token{Owner: "uid=alice", ManagedBy: "uid=bob"}).SelfManaged())
	assert.False(t, (&Token{}).SelfManaged())
}

func TestAttrsRoundTrip(t *testing.T) {
	nb := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	na := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	in := &Token{
		ID:        "tok-1",
		Type:      TokenTypeTOTP,
		Secret:    Secret("12345678901234567890"),
		Algorithm: AlgorithmSHA256,
		Digits:    DigitsEight,
		TOTP:      &TOTPSettings{ClockOffset: -30, TimeStep: 60},
		Owner:     "uid=alice,cn=users",
		ManagedBy: "uid=alice,cn=users",
		Disabled:  true,
		NotBefore: &nb,
		NotAfter:  &na,
		Vendor:    "acme",
	}

	attrs := in.Attrs()
	assert.Equal(t, []string{"otptoken", "otptokentotp"}, attrs.GetStrings(AttrClasses))
	assert.False(t, attrs.Has(AttrHOTPCounter))

	out := TokenFromAttrs(attrs)
	require.NotNil(t, out.TOTP)
	assert.Nil(t, out.HOTP)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Type, out.Type)
	assert.Equal(t, in.Algorithm, out.Algorithm)
	assert.Equal(t, in.Digits, out.Digits)
	assert.Equal(t, -30, out.TOTP.ClockOffset)
	assert.Equal(t, 60, out.TOTP.TimeStep)
	assert.Equal(t, in.Owner, out.Owner)
	assert.True(t, out.Disabled)
	assert.Equal(t, nb, *out.NotBefore)
	assert.Equal(t, na, *out.NotAfter)
	assert.Equal(t, "acme", out.Vendor)

	// Key material never comes back out of the attribute form.
	assert.Empty(t, out.Secret)
}

func TestAttrsOmitsEmptyOptionalFields(t *testing.T) {
	attrs := (&Token{ID: "tok-2", Type: TokenTypeHOTP, HOTP: &HOTPSettings{}}).Attrs()

	for _, key := range []string{AttrOwner, AttrManagedBy, AttrNotBefore, AttrNotAfter, AttrDescription, AttrSecret} {
		assert.False(t, attrs.Has(key), key)
	}
	assert.Equal(t, 0, attrs.GetInt(AttrHOTPCounter))
	assert.True(t, attrs.Has(AttrHOTPCounter))
}

func TestPruneForeignAttrs(t *testing.T) {
	attrs := AttrMap{
		AttrID:              "tok-3",
		AttrTOTPClockOffset: 5,
		AttrTOTPTimeStep:    30,
		AttrHOTPCounter:     7,
	}

	PruneForeignAttrs(attrs, TokenTypeTOTP)
	assert.True(t, attrs.Has(AttrTOTPTimeStep))
	assert.False(t, attrs.Has(AttrHOTPCounter))

	PruneForeignAttrs(attrs, TokenTypeHOTP)
	assert.False(t, attrs.Has(AttrTOTPClockOffset))
	assert.False(t, attrs.Has(AttrTOTPTimeStep))
}

func TestCheckInterval(t *testing.T) {
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)

	assert.True(t, CheckInterval(&early, &late))
	assert.True(t, CheckInterval(&early, &early))
	assert.False(t, CheckInterval(&late, &early))
	assert.True(t, CheckInterval(nil, &early))
	assert.True(t, CheckInterval(&late, nil))
	assert.True(t, CheckInterval(nil, nil))
}

func TestRewriteTypeFilter(t *testing.T) {
	base := "(&(class=otptoken)(owner=uid=alice,cn=users))"

	assert.Equal(t,
		"(&(class=otptokenhotp)(owner=uid=alice,cn=users))",
		RewriteTypeFilter(base, "HOTP"))
	assert.Equal(t, base, RewriteTypeFilter(base, ""))
	assert.Equal(t, base, RewriteTypeFilter(base, "pwtoken"))
}
