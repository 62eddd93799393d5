package usecase

import (
	"testing"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/token/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenDetail(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeHOTP,
		Secret:    entity.Secret("12345678901234567890"),
		Algorithm: entity.AlgorithmSHA256,
		Digits:    entity.DigitsEight,
		HOTP:      &entity.HOTPSettings{Counter: 3},
		Owner:     callerRef,
		ManagedBy: callerRef,
	})

	out, err := f.uc.TokenDetail(authCtx(), TokenDetailInput{ID: "tok-1"})
	require.NoError(t, err)

	assert.Equal(t, "HOTP", out.Token.Type)
	assert.Equal(t, "sha256", out.Token.Algorithm)
	assert.Equal(t, 8, out.Token.Digits)
	require.NotNil(t, out.Token.Counter)
	assert.Equal(t, 3, *out.Token.Counter)
	assert.Equal(t, callerUID, out.Token.Owner)
	assert.Nil(t, out.Token.Classes)

	out, err = f.uc.TokenDetail(authCtx(), TokenDetailInput{ID: "tok-1", All: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"otptoken", "otptokenhotp"}, out.Token.Classes)
}

func TestTokenDetailNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TokenDetail(authCtx(), TokenDetailInput{ID: "ghost"})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())
	assert.Equal(t, "token not found", ge.Msg())
}

func TestTokenDelete(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{ID: "tok-1", Type: entity.TokenTypeTOTP, Owner: callerRef, TOTP: &entity.TOTPSettings{TimeStep: 30}})

	err := f.uc.TokenDelete(authCtx(), TokenDeleteInput{ID: "tok-1"})
	require.NoError(t, err)

	assert.Empty(t, f.store.records)
	require.Len(t, f.mq.events, 1)
	assert.Equal(t, "deleted", f.mq.events[0].kind)
	assert.Equal(t, "tok-1", f.mq.events[0].tokenID)
	assert.Equal(t, callerUID, f.mq.events[0].actor)
}

func TestTokenDeleteNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.uc.TokenDelete(authCtx(), TokenDeleteInput{ID: "ghost"})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())
	assert.Empty(t, f.mq.events)
}

func TestTokenDeleteForeignToken(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeTOTP,
		TOTP:      &entity.TOTPSettings{TimeStep: 30},
		Owner:     otherRef,
		ManagedBy: otherRef,
	})

	err := f.uc.TokenDelete(authCtx(), TokenDeleteInput{ID: "tok-1"})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeForbidden, ge.Code())
	assert.Equal(t, "caller does not own or manage this token", ge.Msg())

	// The record survives the refused delete.
	_, ok := f.store.records["tok-1"]
	assert.True(t, ok)
	assert.Empty(t, f.mq.events)
}
