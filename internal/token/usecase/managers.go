package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/token/entity"
)

type (
	ManagerAddInput struct {
		TokenID string `validate:"required,max=64"`
		User    string `validate:"required,max=255"`
	}

	ManagerRemoveInput struct {
		TokenID string `validate:"required,max=64"`
		User    string `validate:"required,max=255"`
	}
)

// ManagerAdd assigns a user as the token's manager.
func (s *Usecase) ManagerAdd(ctx context.Context, in ManagerAddInput) error {
	ctx, span := s.startSpan(ctx, "ManagerAdd")
	defer span.End()

	in.TokenID = strings.TrimSpace(in.TokenID)
	in.User = strings.TrimSpace(in.User)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.caller(ctx)
	if err != nil {
		return err
	}

	attrs, err := s.readTokenRecord(ctx, in.TokenID)
	if err != nil {
		return err
	}

	if err := authorizeManage(clm, attrs); err != nil {
		return err
	}

	managerRef, err := s.resolveIdentity(ctx, in.User)
	if err != nil {
		return err
	}

	if current := attrs.GetString(entity.AttrManagedBy); current == managerRef {
		return goerror.NewBusiness("user already manages this token", goerror.CodeConflict)
	}

	partial := entity.AttrMap{entity.AttrManagedBy: managerRef}
	if err := s.repoDB.UpdateRecord(ctx, in.TokenID, partial); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.NewBusiness("token not found", goerror.CodeNotFound)
		}

		slog.ErrorContext(ctx, "failed to repo assign token manager", "token_id", in.TokenID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishTokenUpdated(ctx, in.TokenID, []string{entity.AttrManagedBy}, clm.UID); err != nil {
		slog.ErrorContext(ctx, "failed to publish token updated", "token_id", in.TokenID, "error", err)
	}

	return nil
}

// ManagerRemove withdraws a user's management of the token. The user must
// currently be the manager.
func (s *Usecase) ManagerRemove(ctx context.Context, in ManagerRemoveInput) error {
	ctx, span := s.startSpan(ctx, "ManagerRemove")
	defer span.End()

	in.TokenID = strings.TrimSpace(in.TokenID)
	in.User = strings.TrimSpace(in.User)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.caller(ctx)
	if err != nil {
		return err
	}

	attrs, err := s.readTokenRecord(ctx, in.TokenID)
	if err != nil {
		return err
	}

	if err := authorizeManage(clm, attrs); err != nil {
		return err
	}

	managerRef, err := s.resolveIdentity(ctx, in.User)
	if err != nil {
		return err
	}

	if current := attrs.GetString(entity.AttrManagedBy); current != managerRef {
		return goerror.NewBusiness("user does not manage this token", goerror.CodeNotFound)
	}

	partial := entity.AttrMap{entity.AttrManagedBy: ""}
	if err := s.repoDB.UpdateRecord(ctx, in.TokenID, partial); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.NewBusiness("token not found", goerror.CodeNotFound)
		}

		slog.ErrorContext(ctx, "failed to repo withdraw token manager", "token_id", in.TokenID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishTokenUpdated(ctx, in.TokenID, []string{entity.AttrManagedBy}, clm.UID); err != nil {
		slog.ErrorContext(ctx, "failed to publish token updated", "token_id", in.TokenID, "error", err)
	}

	return nil
}

func (s *Usecase) readTokenRecord(ctx context.Context, id string) (entity.AttrMap, error) {
	attrs, err := s.repoDB.ReadRecord(ctx, id)
	if err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, goerror.NewBusiness("token not found", goerror.CodeNotFound)
		}

		slog.ErrorContext(ctx, "failed to repo read token record", "token_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	return attrs, nil
}
