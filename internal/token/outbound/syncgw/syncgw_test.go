package syncgw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/authkeep/otpvault/internal/pkg/instrument"
	"github.com/authkeep/otpvault/internal/token/entity"
	"github.com/authkeep/otpvault/internal/token/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResync(t *testing.T) {
	var got *http.Request
	var gotForm map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got, gotForm = r, r.PostForm
		w.Header().Set(ResultHeader, "ok")
	}))
	defer srv.Close()

	gw := NewGateway(srv.Client(), srv.URL, instrument.NewNoop())

	status, err := gw.Resync(context.Background(), usecase.SyncRequest{
		User:       "alice",
		Password:   "hunter2",
		FirstCode:  "123456",
		SecondCode: "654321",
		Token:      "tok-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SyncStatusOK, status)

	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "application/x-www-form-urlencoded", got.Header.Get("Content-Type"))
	assert.Equal(t, []string{"alice"}, gotForm["user"])
	assert.Equal(t, []string{"hunter2"}, gotForm["password"])
	assert.Equal(t, []string{"123456"}, gotForm["first_code"])
	assert.Equal(t, []string{"654321"}, gotForm["second_code"])
	assert.Equal(t, []string{"tok-1"}, gotForm["token"])
}

func TestResyncOmitsEmptyToken(t *testing.T) {
	var gotForm map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set(ResultHeader, "invalid-credentials")
	}))
	defer srv.Close()

	gw := NewGateway(srv.Client(), srv.URL, instrument.NewNoop())

	status, err := gw.Resync(context.Background(), usecase.SyncRequest{
		User: "alice", Password: "pw", FirstCode: "111111", SecondCode: "222222",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SyncStatusInvalidCredentials, status)
	assert.NotContains(t, gotForm, "token")
}

func TestResyncUnrecognizedHeader(t *testing.T) {
	// A reachable endpoint that answers without the result header maps to
	// the unknown status without retrying.
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw := NewGateway(srv.Client(), srv.URL, instrument.NewNoop())

	status, err := gw.Resync(context.Background(), usecase.SyncRequest{User: "alice"})
	require.NoError(t, err)
	assert.Equal(t, entity.SyncStatusUnknown, status)
	assert.Equal(t, 1, calls)
}

func TestResyncIgnoresHeaderOnErrorStatus(t *testing.T) {
	// A 500 carrying a verdict header is the endpoint failing, not a sync
	// result; the header must not be trusted.
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set(ResultHeader, "ok")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gw := NewGateway(srv.Client(), srv.URL, instrument.NewNoop())

	status, err := gw.Resync(context.Background(), usecase.SyncRequest{User: "alice"})
	require.NoError(t, err)
	assert.Equal(t, entity.SyncStatusUnknown, status)
	assert.Equal(t, 1, calls)
}

func TestResyncTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listening anymore

	gw := NewGateway(nil, srv.URL, instrument.NewNoop())

	status, err := gw.Resync(context.Background(), usecase.SyncRequest{User: "alice"})
	assert.Error(t, err)
	assert.Equal(t, entity.SyncStatusUnknown, status)
}
