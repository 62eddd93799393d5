package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
)

type TokenDeleteInput struct {
	ID string `validate:"required,max=64"`
}

func (s *Usecase) TokenDelete(ctx context.Context, in TokenDeleteInput) error {
	ctx, span := s.startSpan(ctx, "TokenDelete")
	defer span.End()

	in.ID = strings.TrimSpace(in.ID)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.caller(ctx)
	if err != nil {
		return err
	}

	attrs, err := s.readTokenRecord(ctx, in.ID)
	if err != nil {
		return err
	}

	if err := authorizeManage(clm, attrs); err != nil {
		return err
	}

	if err := s.repoDB.DeleteRecord(ctx, in.ID); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.NewBusiness("token not found", goerror.CodeNotFound)
		}

		slog.ErrorContext(ctx, "failed to repo delete token record", "token_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishTokenDeleted(ctx, in.ID, clm.UID); err != nil {
		slog.ErrorContext(ctx, "failed to publish token deleted", "token_id", in.ID, "error", err)
	}

	return nil
}
