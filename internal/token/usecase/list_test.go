package usecase

import (
	"testing"

	"github.com/authkeep/otpvault/internal/token/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenListDefaultFilter(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.TokenList(authCtx(), TokenListInput{})
	require.NoError(t, err)

	assert.Equal(t, "(class=otptoken)", f.store.lastFilter)
	assert.Equal(t, int32(25), f.store.lastLimit)
	assert.Equal(t, int32(0), f.store.lastOffset)
	assert.Empty(t, out.Tokens)
}

func TestTokenListTypeFilter(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TokenList(authCtx(), TokenListInput{Type: "HOTP"})
	require.NoError(t, err)
	assert.Equal(t, "(class=otptokenhotp)", f.store.lastFilter)

	// An unknown type value matches every token rather than nothing.
	_, err = f.uc.TokenList(authCtx(), TokenListInput{Type: "pwtoken"})
	require.NoError(t, err)
	assert.Equal(t, "(class=otptoken)", f.store.lastFilter)
}

func TestTokenListCombinedFilter(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TokenList(authCtx(), TokenListInput{
		Type:     "totp",
		Owner:    otherUID,
		Disabled: ptr(true),
		Limit:    10,
		Offset:   20,
	})
	require.NoError(t, err)

	assert.Equal(t, "(&(class=otptokentotp)(owner="+otherRef+")(disabled=true))", f.store.lastFilter)
	assert.Equal(t, int32(10), f.store.lastLimit)
	assert.Equal(t, int32(20), f.store.lastOffset)
}

func TestTokenListOutputs(t *testing.T) {
	f := newFixture(t)

	tok := &entity.Token{
		ID:    "tok-1",
		Type:  entity.TokenTypeTOTP,
		TOTP:  &entity.TOTPSettings{TimeStep: 30},
		Owner: callerRef,
	}
	attrs := tok.Attrs()
	entity.PruneForeignAttrs(attrs, tok.Type)
	f.store.results = []entity.AttrMap{attrs}

	out, err := f.uc.TokenList(authCtx(), TokenListInput{})
	require.NoError(t, err)
	require.Len(t, out.Tokens, 1)

	got := out.Tokens[0]
	assert.Equal(t, "tok-1", got.ID)
	assert.Equal(t, "TOTP", got.Type)
	assert.Equal(t, callerUID, got.Owner)
	assert.Nil(t, got.Classes)

	// Raw keeps canonical references, All keeps the marker set.
	out, err = f.uc.TokenList(authCtx(), TokenListInput{All: true, Raw: true})
	require.NoError(t, err)
	require.Len(t, out.Tokens, 1)
	assert.Equal(t, callerRef, out.Tokens[0].Owner)
	assert.Equal(t, []string{"otptoken", "otptokentotp"}, out.Tokens[0].Classes)
}

func TestTokenListUnknownOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TokenList(authCtx(), TokenListInput{Owner: "ghost"})
	ge := requireGoError(t, err)
	assert.Equal(t, "ghost: user not found", ge.Msg())
}
