package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/authkeep/otpvault/internal/audit/entity"
	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/pkg/jwt"
)

type (
	AuditListInput struct {
		TokenID string `validate:"omitempty,max=64"`
		Actor   string `validate:"omitempty,max=255"`
		Action  string `validate:"omitempty,oneof=created updated deleted"`

		Limit  int32 `validate:"omitempty,min=1,max=100"`
		Offset int32 `validate:"omitempty,min=0"`
	}

	AuditListOutput struct {
		Entries []entity.Entry
		Total   int64
	}
)

// AuditList returns a page of the audit trail, newest first.
func (s *Usecase) AuditList(ctx context.Context, in AuditListInput) (*AuditListOutput, error) {
	ctx, span := s.startSpan(ctx, "AuditList")
	defer span.End()

	in.TokenID = strings.TrimSpace(in.TokenID)
	in.Actor = strings.TrimSpace(in.Actor)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if jwt.GetAuth(ctx) == nil {
		return nil, goerror.NewBusiness("missing authentication", goerror.CodeUnauthorized)
	}

	if in.Limit == 0 {
		in.Limit = 25
	}

	entries, total, err := s.repoDB.ListEntries(ctx, entity.ListFilter{
		TokenID: in.TokenID,
		Actor:   in.Actor,
		Action:  entity.ActionFromString(in.Action),
		Limit:   in.Limit,
		Offset:  in.Offset,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list audit entries", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AuditListOutput{Entries: entries, Total: total}, nil
}
