package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/authkeep/otpvault/internal/audit/usecase"
	"github.com/authkeep/otpvault/internal/pkg/instrument"
	"github.com/authkeep/otpvault/internal/pkg/messaging"
	"github.com/authkeep/otpvault/internal/pkg/uid"
	"github.com/authkeep/otpvault/internal/pkg/valueobject"
	"github.com/authkeep/otpvault/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) TokenCreatedAudit(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("audit.inbound.mq").Start(ctx, "TokenCreatedAudit")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: token created audit", "msg_body", string(body))

	var payload event.TokenCreatedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of token created audit", "msg_body", string(body), "error", err)
		return nil
	}

	metadata := valueobject.JSONMap{}
	if payload.Type != "" {
		metadata.Set("type", payload.Type)
	}
	if payload.Owner != "" {
		metadata.Set("owner", payload.Owner)
	}

	if err := h.uc.Record(ctx, usecase.RecordInput{
		Action:   "created",
		TokenID:  payload.TokenID,
		Actor:    payload.Actor,
		Metadata: metadata,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to record token created audit", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) TokenUpdatedAudit(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("audit.inbound.mq").Start(ctx, "TokenUpdatedAudit")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: token updated audit", "msg_body", string(body))

	var payload event.TokenUpdatedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of token updated audit", "msg_body", string(body), "error", err)
		return nil
	}

	metadata := valueobject.JSONMap{}
	if len(payload.Fields) > 0 {
		metadata.Set("fields", payload.Fields)
	}

	if err := h.uc.Record(ctx, usecase.RecordInput{
		Action:   "updated",
		TokenID:  payload.TokenID,
		Actor:    payload.Actor,
		Metadata: metadata,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to record token updated audit", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) TokenDeletedAudit(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("audit.inbound.mq").Start(ctx, "TokenDeletedAudit")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: token deleted audit", "msg_body", string(body))

	var payload event.TokenDeletedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of token deleted audit", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.Record(ctx, usecase.RecordInput{
		Action:  "deleted",
		TokenID: payload.TokenID,
		Actor:   payload.Actor,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to record token deleted audit", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
