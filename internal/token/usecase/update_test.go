package usecase

import (
	"testing"
	"time"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/token/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenUpdateMetadata(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{
		ID:    "tok-1",
		Type:  entity.TokenTypeTOTP,
		TOTP:  &entity.TOTPSettings{TimeStep: 30},
		Owner: callerRef,
	})

	out, err := f.uc.TokenUpdate(authCtx(), TokenUpdateInput{
		ID:          "tok-1",
		Description: ptr("backup token"),
		Disabled:    ptr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "backup token", out.Token.Description)
	assert.True(t, out.Token.Disabled)

	require.Len(t, f.mq.events, 1)
	assert.Equal(t, "updated", f.mq.events[0].kind)
	assert.ElementsMatch(t, []string{entity.AttrDescription, entity.AttrDisabled}, f.mq.events[0].fields)
}

func TestTokenUpdateOwnerFollowsManager(t *testing.T) {
	f := newFixture(t)

	// Self-managed token: reassigning the owner drags the manager along.
	f.seedToken(t, &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeTOTP,
		TOTP:      &entity.TOTPSettings{TimeStep: 30},
		Owner:     callerRef,
		ManagedBy: callerRef,
	})

	out, err := f.uc.TokenUpdate(authCtx(), TokenUpdateInput{ID: "tok-1", Owner: ptr(otherUID), Raw: true})
	require.NoError(t, err)

	assert.Equal(t, otherRef, out.Token.Owner)
	assert.Equal(t, otherRef, out.Token.ManagedBy)
}

func TestTokenUpdateOwnerKeepsForeignManager(t *testing.T) {
	f := newFixture(t)

	// A token managed by someone other than the owner keeps its manager.
	f.seedToken(t, &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeTOTP,
		TOTP:      &entity.TOTPSettings{TimeStep: 30},
		Owner:     callerRef,
		ManagedBy: otherRef,
	})

	out, err := f.uc.TokenUpdate(authCtx(), TokenUpdateInput{ID: "tok-1", Owner: ptr(otherUID), Raw: true})
	require.NoError(t, err)

	assert.Equal(t, otherRef, out.Token.Owner)
	assert.Equal(t, otherRef, out.Token.ManagedBy)

	// ...which here coincides with the new owner; the partial update must
	// not have touched the manager attribute.
	for _, partial := range f.store.updates {
		assert.False(t, partial.Has(entity.AttrManagedBy))
	}
}

func TestTokenUpdateIntervalAgainstStored(t *testing.T) {
	nb := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	na := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("not_after moved before stored start", func(t *testing.T) {
		f := newFixture(t)
		f.seedToken(t, &entity.Token{
			ID: "tok-1", Type: entity.TokenTypeTOTP, TOTP: &entity.TOTPSettings{TimeStep: 30},
			Owner: callerRef, NotBefore: &nb, NotAfter: &na,
		})

		bad := nb.Add(-time.Hour)
		_, err := f.uc.TokenUpdate(authCtx(), TokenUpdateInput{ID: "tok-1", NotAfter: &bad})
		ge := requireGoError(t, err)
		assert.Equal(t, "is before the validity start", ge.Fields()["not_after"])
	})

	t.Run("not_before moved past stored end", func(t *testing.T) {
		f := newFixture(t)
		f.seedToken(t, &entity.Token{
			ID: "tok-1", Type: entity.TokenTypeTOTP, TOTP: &entity.TOTPSettings{TimeStep: 30},
			Owner: callerRef, NotBefore: &nb, NotAfter: &na,
		})

		// The stored end stays put; the supplied start breaks the
		// window, so the start is the field named in the error.
		bad := na.Add(time.Hour)
		_, err := f.uc.TokenUpdate(authCtx(), TokenUpdateInput{ID: "tok-1", NotBefore: &bad})
		ge := requireGoError(t, err)
		assert.Equal(t, "is after the validity end", ge.Fields()["not_before"])
	})

	t.Run("both bounds replaced together", func(t *testing.T) {
		f := newFixture(t)
		f.seedToken(t, &entity.Token{
			ID: "tok-1", Type: entity.TokenTypeTOTP, TOTP: &entity.TOTPSettings{TimeStep: 30},
			Owner: callerRef, NotBefore: &nb, NotAfter: &na,
		})

		// A well-ordered replacement window may ignore the stored one.
		newStart := na.Add(24 * time.Hour)
		newEnd := newStart.Add(24 * time.Hour)
		_, err := f.uc.TokenUpdate(authCtx(), TokenUpdateInput{ID: "tok-1", NotBefore: &newStart, NotAfter: &newEnd})
		assert.NoError(t, err)
	})
}

func TestTokenUpdateNoModifications(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{ID: "tok-1", Type: entity.TokenTypeTOTP, Owner: callerRef, TOTP: &entity.TOTPSettings{TimeStep: 30}})

	_, err := f.uc.TokenUpdate(authCtx(), TokenUpdateInput{ID: "tok-1"})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeInvalidInput, ge.Code())
	assert.Equal(t, "no modifications to be performed", ge.Msg())
	assert.Empty(t, f.mq.events)
}

func TestTokenUpdateMissingToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TokenUpdate(authCtx(), TokenUpdateInput{ID: "ghost", Disabled: ptr(true)})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())
	assert.Equal(t, "token not found", ge.Msg())
}

func TestTokenUpdateByManager(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeTOTP,
		TOTP:      &entity.TOTPSettings{TimeStep: 30},
		Owner:     otherRef,
		ManagedBy: callerRef,
	})

	out, err := f.uc.TokenUpdate(authCtx(), TokenUpdateInput{ID: "tok-1", Disabled: ptr(true)})
	require.NoError(t, err)
	assert.True(t, out.Token.Disabled)
}

func TestTokenUpdateForeignToken(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeTOTP,
		TOTP:      &entity.TOTPSettings{TimeStep: 30},
		Owner:     otherRef,
		ManagedBy: otherRef,
	})

	_, err := f.uc.TokenUpdate(authCtx(), TokenUpdateInput{ID: "tok-1", Disabled: ptr(true)})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeForbidden, ge.Code())
	assert.Equal(t, "caller does not own or manage this token", ge.Msg())

	assert.Empty(t, f.store.updates)
	assert.False(t, f.store.records["tok-1"].GetBool(entity.AttrDisabled))
}
