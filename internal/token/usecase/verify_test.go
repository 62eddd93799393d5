package usecase

import (
	"testing"
	"time"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/pkg/otp"
	"github.com/authkeep/otpvault/internal/token/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verifySecret = entity.Secret("12345678901234567890")

func seedTOTP(t *testing.T, f *fixture, mut func(tok *entity.Token)) {
	t.Helper()

	tok := &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeTOTP,
		Secret:    verifySecret,
		Algorithm: entity.AlgorithmSHA1,
		Digits:    entity.DigitsSix,
		Owner:     callerRef,
		TOTP:      &entity.TOTPSettings{TimeStep: 30},
	}
	if mut != nil {
		mut(tok)
	}
	f.seedToken(t, tok)
}

func totpCode(t *testing.T, at time.Time) string {
	t.Helper()

	code, err := otp.GenerateTOTPCode(verifySecret, at, otp.TOTPOptions{Period: 30, Digits: 6, Algorithm: "sha1"})
	require.NoError(t, err)

	return code
}

func TestTokenVerifyTOTP(t *testing.T) {
	f := newFixture(t)
	seedTOTP(t, f, nil)

	out, err := f.uc.TokenVerify(authCtx(), TokenVerifyInput{ID: "tok-1", Code: totpCode(t, f.now)})
	require.NoError(t, err)
	assert.True(t, out.Verified)

	out, err = f.uc.TokenVerify(authCtx(), TokenVerifyInput{ID: "tok-1", Code: "000000"})
	require.NoError(t, err)
	assert.False(t, out.Verified)
}

func TestTokenVerifyTOTPClockOffset(t *testing.T) {
	f := newFixture(t)
	seedTOTP(t, f, func(tok *entity.Token) {
		tok.TOTP.ClockOffset = -300
	})

	// The token runs five minutes behind; a code from its notion of now
	// passes, a code from the server's does not.
	out, err := f.uc.TokenVerify(authCtx(), TokenVerifyInput{
		ID:   "tok-1",
		Code: totpCode(t, f.now.Add(-300*time.Second)),
	})
	require.NoError(t, err)
	assert.True(t, out.Verified)

	out, err = f.uc.TokenVerify(authCtx(), TokenVerifyInput{ID: "tok-1", Code: totpCode(t, f.now)})
	require.NoError(t, err)
	assert.False(t, out.Verified)
}

func TestTokenVerifyHOTPAdvancesCounter(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeHOTP,
		Secret:    verifySecret,
		Algorithm: entity.AlgorithmSHA1,
		Digits:    entity.DigitsSix,
		Owner:     callerRef,
		HOTP:      &entity.HOTPSettings{Counter: 5},
	})

	// The authenticator has been pressed twice without the server seeing
	// it; the look-ahead window absorbs the gap.
	code, err := otp.GenerateHOTPCode(verifySecret, 7, otp.HOTPOptions{Digits: 6, Algorithm: "sha1"})
	require.NoError(t, err)

	out, err := f.uc.TokenVerify(authCtx(), TokenVerifyInput{ID: "tok-1", Code: code})
	require.NoError(t, err)
	assert.True(t, out.Verified)

	// The counter lands one past the consumed value so the same code can
	// never be replayed.
	assert.Equal(t, 8, f.store.records["tok-1"].GetInt(entity.AttrHOTPCounter))

	out, err = f.uc.TokenVerify(authCtx(), TokenVerifyInput{ID: "tok-1", Code: code})
	require.NoError(t, err)
	assert.False(t, out.Verified)
}

func TestTokenVerifyHOTPBeyondWindow(t *testing.T) {
	f := newFixture(t)
	f.seedToken(t, &entity.Token{
		ID:        "tok-1",
		Type:      entity.TokenTypeHOTP,
		Secret:    verifySecret,
		Algorithm: entity.AlgorithmSHA1,
		Digits:    entity.DigitsSix,
		Owner:     callerRef,
		HOTP:      &entity.HOTPSettings{Counter: 0},
	})

	code, err := otp.GenerateHOTPCode(verifySecret, hotpLookAhead+1, otp.HOTPOptions{Digits: 6, Algorithm: "sha1"})
	require.NoError(t, err)

	out, err := f.uc.TokenVerify(authCtx(), TokenVerifyInput{ID: "tok-1", Code: code})
	require.NoError(t, err)
	assert.False(t, out.Verified)
	assert.Equal(t, 0, f.store.records["tok-1"].GetInt(entity.AttrHOTPCounter))
}

func TestTokenVerifyGuards(t *testing.T) {
	t.Run("disabled token", func(t *testing.T) {
		f := newFixture(t)
		seedTOTP(t, f, func(tok *entity.Token) { tok.Disabled = true })

		_, err := f.uc.TokenVerify(authCtx(), TokenVerifyInput{ID: "tok-1", Code: "123456"})
		ge := requireGoError(t, err)
		assert.Equal(t, goerror.CodeForbidden, ge.Code())
		assert.Equal(t, "token is disabled", ge.Msg())
	})

	t.Run("not yet valid", func(t *testing.T) {
		f := newFixture(t)
		seedTOTP(t, f, func(tok *entity.Token) {
			nb := f.now.Add(time.Hour)
			tok.NotBefore = &nb
		})

		_, err := f.uc.TokenVerify(authCtx(), TokenVerifyInput{ID: "tok-1", Code: "123456"})
		ge := requireGoError(t, err)
		assert.Equal(t, goerror.CodeForbidden, ge.Code())
		assert.Equal(t, "token is outside its validity period", ge.Msg())
	})

	t.Run("expired", func(t *testing.T) {
		f := newFixture(t)
		seedTOTP(t, f, func(tok *entity.Token) {
			na := f.now.Add(-time.Hour)
			tok.NotAfter = &na
		})

		_, err := f.uc.TokenVerify(authCtx(), TokenVerifyInput{ID: "tok-1", Code: "123456"})
		ge := requireGoError(t, err)
		assert.Equal(t, goerror.CodeForbidden, ge.Code())
	})

	t.Run("missing token", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.TokenVerify(authCtx(), TokenVerifyInput{ID: "ghost", Code: "123456"})
		ge := requireGoError(t, err)
		assert.Equal(t, goerror.CodeNotFound, ge.Code())
	})

	t.Run("someone else's token", func(t *testing.T) {
		f := newFixture(t)
		seedTOTP(t, f, func(tok *entity.Token) {
			tok.Owner = otherRef
			tok.ManagedBy = otherRef
		})

		_, err := f.uc.TokenVerify(authCtx(), TokenVerifyInput{ID: "tok-1", Code: totpCode(t, f.now)})
		ge := requireGoError(t, err)
		assert.Equal(t, goerror.CodeForbidden, ge.Code())
		assert.Equal(t, "caller does not own or manage this token", ge.Msg())
	})
}

func TestTokenVerifySHA384Rejected(t *testing.T) {
	f := newFixture(t)
	seedTOTP(t, f, func(tok *entity.Token) { tok.Algorithm = entity.AlgorithmSHA384 })

	// The validator library has no SHA384 mode, so a genuine code would
	// never match; the caller gets told instead of a silent mismatch.
	_, err := f.uc.TokenVerify(authCtx(), TokenVerifyInput{ID: "tok-1", Code: "123456"})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeInvalidInput, ge.Code())
	assert.Equal(t, "sha384 codes cannot be verified", ge.Msg())
}
