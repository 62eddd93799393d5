package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/token/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCreateDefaults(t *testing.T) {
	f := newFixture(t)
	f.store.principals[callerRef] = "alice@EXAMPLE.COM"

	out, err := f.uc.TokenCreate(authCtx(), TokenCreateInput{})
	require.NoError(t, err)

	// An empty request yields a TOTP token with every default filled in
	// and a server-generated id and secret.
	assert.Equal(t, "00000000-0000-4000-8000-000000000001", out.Token.ID)
	assert.Equal(t, "TOTP", out.Token.Type)
	assert.Equal(t, "sha1", out.Token.Algorithm)
	assert.Equal(t, 6, out.Token.Digits)
	require.NotNil(t, out.Token.TimeStep)
	assert.Equal(t, 30, *out.Token.TimeStep)
	require.NotNil(t, out.Token.ClockOffset)
	assert.Equal(t, 0, *out.Token.ClockOffset)
	assert.Nil(t, out.Token.Counter)

	// The caller owns and manages the token.
	assert.Equal(t, callerUID, out.Token.Owner)
	assert.Equal(t, callerUID, out.Token.ManagedBy)

	// The enrollment URI uses the owner's principal as issuer.
	assert.True(t, strings.HasPrefix(out.URI, "otpauth://totp/alice@EXAMPLE.COM:"), out.URI)
	assert.Contains(t, out.URI, "period=30")

	stored, ok := f.store.records[out.Token.ID]
	require.True(t, ok)
	assert.Equal(t, callerRef, stored.GetString(entity.AttrOwner))
	assert.Equal(t, callerRef, stored.GetString(entity.AttrManagedBy))
	assert.NotEmpty(t, stored.GetBytes(entity.AttrSecret))
	assert.False(t, stored.Has(entity.AttrHOTPCounter))

	require.Len(t, f.mq.events, 1)
	assert.Equal(t, "created", f.mq.events[0].kind)
	assert.Equal(t, callerUID, f.mq.events[0].actor)
}

func TestTokenCreateHOTP(t *testing.T) {
	f := newFixture(t)

	counter := 42
	out, err := f.uc.TokenCreate(authCtx(), TokenCreateInput{
		ID:      "hw-token-1",
		Type:    "HOTP",
		Counter: &counter,
		// TOTP settings on an HOTP token are discarded, not rejected.
		TimeStep: ptr(60),
	})
	require.NoError(t, err)

	assert.Equal(t, "hw-token-1", out.Token.ID)
	assert.Equal(t, "HOTP", out.Token.Type)
	require.NotNil(t, out.Token.Counter)
	assert.Equal(t, 42, *out.Token.Counter)
	assert.Nil(t, out.Token.TimeStep)
	assert.Contains(t, out.URI, "counter=42")

	// Realm fallback: no principal on record for the owner.
	assert.True(t, strings.HasPrefix(out.URI, "otpauth://hotp/EXAMPLE.COM:"), out.URI)

	stored := f.store.records["hw-token-1"]
	assert.False(t, stored.Has(entity.AttrTOTPTimeStep))
	assert.False(t, stored.Has(entity.AttrTOTPClockOffset))
}

func TestTokenCreateSuppliedSecret(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.TokenCreate(authCtx(), TokenCreateInput{
		Secret:        "gezdgnbvgy3tqojq",
		SecretConfirm: "gezdgnbvgy3tqojq",
	})
	require.NoError(t, err)

	// The URI re-encodes the decoded material in canonical form.
	assert.Contains(t, out.URI, "secret=GEZDGNBVGY3TQOJQ")
}

func TestTokenCreateSecretMismatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TokenCreate(authCtx(), TokenCreateInput{
		Secret:        "GEZDGNBVGY3TQOJQ",
		SecretConfirm: "GEZDGNBVGY3TQOJA",
	})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeInvalidInput, ge.Code())
	assert.Equal(t, "confirmation does not match", ge.Fields()["secret"])
	assert.Empty(t, f.store.records)
}

func TestTokenCreateInvalidInterval(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	_, err := f.uc.TokenCreate(authCtx(), TokenCreateInput{
		NotBefore: &start,
		NotAfter:  &end,
	})
	ge := requireGoError(t, err)
	assert.Equal(t, "is before the validity start", ge.Fields()["not_after"])
}

func TestTokenCreateForeignOwner(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.TokenCreate(authCtx(), TokenCreateInput{Owner: otherUID})
	require.NoError(t, err)

	// A token created for someone else is not managed by the caller.
	assert.Equal(t, otherUID, out.Token.Owner)
	assert.Empty(t, out.Token.ManagedBy)
}

func TestTokenCreateOwnerByReference(t *testing.T) {
	f := newFixture(t)

	// Passing the caller's own canonical reference still counts as
	// self-enrollment.
	out, err := f.uc.TokenCreate(authCtx(), TokenCreateInput{Owner: callerRef})
	require.NoError(t, err)

	assert.Equal(t, callerUID, out.Token.Owner)
	assert.Equal(t, callerUID, out.Token.ManagedBy)
}

func TestTokenCreateUnknownOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TokenCreate(authCtx(), TokenCreateInput{Owner: "ghost"})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())
	assert.Equal(t, "ghost: user not found", ge.Msg())
}

func TestTokenCreateDuplicateID(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{ID: "dup-1", Type: entity.TokenTypeTOTP})

	_, err := f.uc.TokenCreate(authCtx(), TokenCreateInput{ID: "dup-1"})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeConflict, ge.Code())
	assert.Equal(t, "token with that id already exists", ge.Msg())
}

func TestTokenCreateIdempotencyKey(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TokenCreate(authCtx(), TokenCreateInput{IdempotencyKey: "retry-abc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"retry-abc"}, f.idemp.keys)
}

func TestTokenCreateUnauthenticated(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TokenCreate(context.Background(), TokenCreateInput{})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeUnauthorized, ge.Code())
}

func TestTokenCreateRejectsBadType(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TokenCreate(authCtx(), TokenCreateInput{Type: "pwtoken"})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeInvalidInput, ge.Code())
}

func ptr[T any](v T) *T { return &v }
