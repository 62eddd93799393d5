package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/authkeep/otpvault/internal/audit/entity"
	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/pkg/instrument"
	"github.com/authkeep/otpvault/internal/pkg/jwt"
	"github.com/authkeep/otpvault/internal/pkg/validator"
	"github.com/authkeep/otpvault/internal/pkg/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditStore struct {
	entries    []entity.Entry
	lastFilter entity.ListFilter
	total      int64
	err        error
}

func (f *fakeAuditStore) CreateEntry(_ context.Context, entry entity.Entry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)

	return nil
}

func (f *fakeAuditStore) ListEntries(_ context.Context, filter entity.ListFilter) ([]entity.Entry, int64, error) {
	f.lastFilter = filter

	return f.entries, f.total, f.err
}

type seqID struct {
	next int64
}

func (s *seqID) Generate() int64 {
	s.next++
	return s.next
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }

func newTestUsecase(t *testing.T) (*Usecase, *fakeAuditStore, time.Time) {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	store := &fakeAuditStore{}
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	uc := New(Dependency{
		RepoDB:     store,
		UID:        &seqID{},
		Clock:      fixedClock{now: now},
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})

	return uc, store, now
}

func authCtx() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UID: "admin"})
}

func TestRecord(t *testing.T) {
	uc, store, now := newTestUsecase(t)

	err := uc.Record(context.Background(), RecordInput{
		Action:   "created",
		TokenID:  "tok-1",
		Actor:    "alice",
		Metadata: valueobject.JSONMap{"type": "totp"},
	})
	require.NoError(t, err)

	require.Len(t, store.entries, 1)
	got := store.entries[0]
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, entity.ActionCreated, got.Action)
	assert.Equal(t, "tok-1", got.TokenID)
	assert.Equal(t, "alice", got.Actor)
	assert.Equal(t, now, got.OccurredAt)
}

func TestRecordRejectsUnknownAction(t *testing.T) {
	uc, store, _ := newTestUsecase(t)

	err := uc.Record(context.Background(), RecordInput{Action: "renamed", TokenID: "tok-1"})
	ge := &goerror.Error{}
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, goerror.CodeInvalidInput, ge.Code())
	assert.Empty(t, store.entries)
}

func TestAuditList(t *testing.T) {
	uc, store, now := newTestUsecase(t)
	store.entries = []entity.Entry{{ID: 2, Action: entity.ActionDeleted, TokenID: "tok-1", OccurredAt: now}}
	store.total = 7

	out, err := uc.AuditList(authCtx(), AuditListInput{TokenID: "tok-1", Action: "deleted", Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(7), out.Total)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, entity.ListFilter{
		TokenID: "tok-1",
		Action:  entity.ActionDeleted,
		Limit:   10,
	}, store.lastFilter)
}

func TestAuditListDefaultLimit(t *testing.T) {
	uc, store, _ := newTestUsecase(t)

	_, err := uc.AuditList(authCtx(), AuditListInput{})
	require.NoError(t, err)
	assert.Equal(t, int32(25), store.lastFilter.Limit)
}

func TestAuditListUnauthenticated(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	_, err := uc.AuditList(context.Background(), AuditListInput{})
	ge := &goerror.Error{}
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, goerror.CodeUnauthorized, ge.Code())
}
