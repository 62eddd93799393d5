package mq

import (
	"context"
	"encoding/json"

	"github.com/authkeep/otpvault/internal/pkg/instrument"
	"github.com/authkeep/otpvault/internal/pkg/messaging"
	"github.com/authkeep/otpvault/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) publish(ctx context.Context, span trace.Span, destination string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishTokenCreated(ctx context.Context, tokenID, tokenType, owner, actor string) error {
	ctx, span := m.ins.Tracer("token.outbound.mq").Start(ctx, "PublishTokenCreated")
	defer span.End()

	return m.publish(ctx, span, event.TokenCreatedDestination, event.TokenCreatedMessage{
		TokenID: tokenID,
		Type:    tokenType,
		Owner:   owner,
		Actor:   actor,
	})
}

func (m *Messaging) PublishTokenUpdated(ctx context.Context, tokenID string, fields []string, actor string) error {
	ctx, span := m.ins.Tracer("token.outbound.mq").Start(ctx, "PublishTokenUpdated")
	defer span.End()

	return m.publish(ctx, span, event.TokenUpdatedDestination, event.TokenUpdatedMessage{
		TokenID: tokenID,
		Fields:  fields,
		Actor:   actor,
	})
}

func (m *Messaging) PublishTokenDeleted(ctx context.Context, tokenID, actor string) error {
	ctx, span := m.ins.Tracer("token.outbound.mq").Start(ctx, "PublishTokenDeleted")
	defer span.End()

	return m.publish(ctx, span, event.TokenDeletedDestination, event.TokenDeletedMessage{
		TokenID: tokenID,
		Actor:   actor,
	})
}
