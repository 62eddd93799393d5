package usecase

import (
	"errors"
	"testing"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/token/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSync(t *testing.T) {
	f := newFixture(t)

	err := f.uc.TokenSync(authCtx(), TokenSyncInput{
		User:       " alice ",
		Password:   "hunter2",
		FirstCode:  "123456",
		SecondCode: "654321",
		Token:      "tok-1",
	})
	require.NoError(t, err)

	// The request reaches the gateway with the credentials untouched,
	// apart from identifier trimming.
	assert.Equal(t, SyncRequest{
		User:       "alice",
		Password:   "hunter2",
		FirstCode:  "123456",
		SecondCode: "654321",
		Token:      "tok-1",
	}, f.sync.got)
}

func TestTokenSyncStatusMapping(t *testing.T) {
	in := TokenSyncInput{User: "alice", Password: "pw", FirstCode: "111111", SecondCode: "222222"}

	tests := []struct {
		name     string
		status   entity.SyncStatus
		wantCode goerror.Code
		wantMsg  string
	}{
		{
			name:     "invalid credentials",
			status:   entity.SyncStatusInvalidCredentials,
			wantCode: goerror.CodeUnauthorized,
			wantMsg:  "invalid credentials",
		},
		{
			name:     "gateway reported failure",
			status:   entity.SyncStatusError,
			wantCode: goerror.CodeInvalidInput,
			wantMsg:  "token synchronization failed",
		},
		{
			name:     "unrecognized status",
			status:   entity.SyncStatusUnknown,
			wantCode: goerror.CodeInternal,
			wantMsg:  "token synchronization failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.sync.status = tc.status

			err := f.uc.TokenSync(authCtx(), in)
			ge := requireGoError(t, err)
			assert.Equal(t, tc.wantCode, ge.Code())
			assert.Equal(t, tc.wantMsg, ge.Msg())
		})
	}
}

func TestTokenSyncTransportFailure(t *testing.T) {
	f := newFixture(t)
	f.sync.err = errors.New("connection refused")

	err := f.uc.TokenSync(authCtx(), TokenSyncInput{
		User: "alice", Password: "pw", FirstCode: "111111", SecondCode: "222222",
	})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeInternal, ge.Code())
}

func TestTokenSyncRejectsNonNumericCodes(t *testing.T) {
	f := newFixture(t)

	err := f.uc.TokenSync(authCtx(), TokenSyncInput{
		User: "alice", Password: "pw", FirstCode: "abcdef", SecondCode: "222222",
	})
	ge := requireGoError(t, err)
	assert.Equal(t, goerror.CodeInvalidInput, ge.Code())
	assert.Empty(t, f.sync.got.User)
}
