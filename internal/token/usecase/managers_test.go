package usecase

import (
	"testing"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/token/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerAdd(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{
		ID:    "tok-1",
		Type:  entity.TokenTypeTOTP,
		TOTP:  &entity.TOTPSettings{TimeStep: 30},
		Owner: callerRef,
	})

	err := f.uc.ManagerAdd(authCtx(), ManagerAddInput{TokenID: "tok-1", User: otherUID})
	require.NoError(t, err)

	assert.Equal(t, otherRef, f.store.records["tok-1"].GetString(entity.AttrManagedBy))

	require.Len(t, f.mq.events, 1)
	assert.Equal(t, "updated", f.mq.events[0].kind)
	assert.Equal(t, []string{entity.AttrManagedBy}, f.mq.events[0].fields)
}

func TestManagerAddAlreadyManager(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeTOTP,
		TOTP:      &entity.TOTPSettings{TimeStep: 30},
		Owner:     callerRef,
		ManagedBy: otherRef,
	})

	err := f.uc.ManagerAdd(authCtx(), ManagerAddInput{TokenID: "tok-1", User: otherUID})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeConflict, ge.Code())
	assert.Equal(t, "user already manages this token", ge.Msg())
}

func TestManagerAddUnknownUser(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{ID: "tok-1", Type: entity.TokenTypeTOTP, Owner: callerRef, TOTP: &entity.TOTPSettings{TimeStep: 30}})

	err := f.uc.ManagerAdd(authCtx(), ManagerAddInput{TokenID: "tok-1", User: "ghost"})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())
}

func TestManagerRemove(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeTOTP,
		TOTP:      &entity.TOTPSettings{TimeStep: 30},
		Owner:     callerRef,
		ManagedBy: otherRef,
	})

	err := f.uc.ManagerRemove(authCtx(), ManagerRemoveInput{TokenID: "tok-1", User: otherUID})
	require.NoError(t, err)
	assert.Empty(t, f.store.records["tok-1"].GetString(entity.AttrManagedBy))
}

func TestManagerRemoveNotManager(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeTOTP,
		TOTP:      &entity.TOTPSettings{TimeStep: 30},
		ManagedBy: callerRef,
	})

	err := f.uc.ManagerRemove(authCtx(), ManagerRemoveInput{TokenID: "tok-1", User: otherUID})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())
	assert.Equal(t, "user does not manage this token", ge.Msg())

	// Nothing changed.
	assert.Equal(t, callerRef, f.store.records["tok-1"].GetString(entity.AttrManagedBy))
}

func TestManagerAddForeignToken(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeTOTP,
		TOTP:      &entity.TOTPSettings{TimeStep: 30},
		Owner:     otherRef,
		ManagedBy: otherRef,
	})

	err := f.uc.ManagerAdd(authCtx(), ManagerAddInput{TokenID: "tok-1", User: callerUID})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeForbidden, ge.Code())
	assert.Equal(t, "caller does not own or manage this token", ge.Msg())

	assert.Equal(t, otherRef, f.store.records["tok-1"].GetString(entity.AttrManagedBy))
}
