package usecase

import (
	"context"
	"log/slog"

	"github.com/authkeep/otpvault/internal/audit/entity"
	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/pkg/valueobject"
)

type RecordInput struct {
	Action   string `validate:"required,oneof=created updated deleted"`
	TokenID  string `validate:"required,max=64"`
	Actor    string `validate:"omitempty,max=255"`
	Metadata valueobject.JSONMap
}

// Record appends one entry to the audit trail.
func (s *Usecase) Record(ctx context.Context, in RecordInput) error {
	ctx, span := s.startSpan(ctx, "Record")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	entry := entity.Entry{
		ID:         s.uid.Generate(),
		Action:     entity.ActionFromString(in.Action),
		TokenID:    in.TokenID,
		Actor:      in.Actor,
		Metadata:   in.Metadata,
		OccurredAt: s.clock.Now(),
	}

	if err := s.repoDB.CreateEntry(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to repo create audit entry", "token_id", in.TokenID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
