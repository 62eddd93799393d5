package inbound

import (
	"context"
	"testing"
	"time"

	"github.com/authkeep/otpvault/internal/audit/usecase"
	"github.com/authkeep/otpvault/internal/pkg/instrument"
	"github.com/authkeep/otpvault/internal/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessage struct {
	body    []byte
	headers []messaging.Header
}

func (m *fakeMessage) Body() []byte                  { return m.body }
func (m *fakeMessage) Key() []byte                   { return nil }
func (m *fakeMessage) Headers() []messaging.Header   { return m.headers }
func (m *fakeMessage) Attributes() map[string]string { return nil }
func (m *fakeMessage) ID() string                    { return "" }
func (m *fakeMessage) Topic() string                 { return "" }
func (m *fakeMessage) Subject() string               { return "" }
func (m *fakeMessage) Timestamp() time.Time          { return time.Time{} }
func (m *fakeMessage) Ack(context.Context) error     { return nil }

type recordingUC struct {
	records []usecase.RecordInput
	err     error
}

func (r *recordingUC) Record(_ context.Context, in usecase.RecordInput) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, in)

	return nil
}

func (r *recordingUC) AuditList(context.Context, usecase.AuditListInput) (*usecase.AuditListOutput, error) {
	return &usecase.AuditListOutput{}, nil
}

type staticID string

func (s staticID) Generate() string { return string(s) }

func newTestHandler() (*MQHandler, *recordingUC) {
	rec := &recordingUC{}
	h := &MQHandler{
		uc:   rec,
		uuid: staticID("generated-cid"),
		ins:  instrument.NewNoop(),
	}

	return h, rec
}

func TestTokenCreatedAudit(t *testing.T) {
	h, rec := newTestHandler()

	msg := &fakeMessage{
		body:    []byte(`{"token_id":"tok-1","type":"totp","owner":"uid=alice,cn=users","actor":"alice"}`),
		headers: []messaging.Header{{Key: "cID", Value: []byte("abc-123")}},
	}

	err := h.TokenCreatedAudit(context.Background(), msg)
	require.NoError(t, err)

	require.Len(t, rec.records, 1)
	got := rec.records[0]
	assert.Equal(t, "created", got.Action)
	assert.Equal(t, "tok-1", got.TokenID)
	assert.Equal(t, "alice", got.Actor)

	assert.Equal(t, "totp", got.Metadata.GetString("type"))
	assert.Equal(t, "uid=alice,cn=users", got.Metadata.GetString("owner"))
}

func TestTokenUpdatedAudit(t *testing.T) {
	h, rec := newTestHandler()

	msg := &fakeMessage{body: []byte(`{"token_id":"tok-1","fields":["disabled"],"actor":"alice"}`)}

	err := h.TokenUpdatedAudit(context.Background(), msg)
	require.NoError(t, err)

	require.Len(t, rec.records, 1)
	assert.Equal(t, "updated", rec.records[0].Action)

	assert.Equal(t, []string{"disabled"}, rec.records[0].Metadata.Get("fields"))
}

func TestTokenDeletedAudit(t *testing.T) {
	h, rec := newTestHandler()

	msg := &fakeMessage{body: []byte(`{"token_id":"tok-1","actor":"alice"}`)}

	err := h.TokenDeletedAudit(context.Background(), msg)
	require.NoError(t, err)

	require.Len(t, rec.records, 1)
	assert.Equal(t, "deleted", rec.records[0].Action)
	assert.Equal(t, "tok-1", rec.records[0].TokenID)
}

func TestAuditHandlersDropMalformedPayload(t *testing.T) {
	h, rec := newTestHandler()

	// A payload that can never parse is logged and dropped, not redelivered.
	msg := &fakeMessage{body: []byte(`{`)}

	assert.NoError(t, h.TokenCreatedAudit(context.Background(), msg))
	assert.NoError(t, h.TokenUpdatedAudit(context.Background(), msg))
	assert.NoError(t, h.TokenDeletedAudit(context.Background(), msg))
	assert.Empty(t, rec.records)
}
