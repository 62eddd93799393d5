package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/token/entity"
)

type TokenSyncInput struct {
	User       string `validate:"required,max=255"`
	Password   string `validate:"required"`
	FirstCode  string `validate:"required,numeric"`
	SecondCode string `validate:"required,numeric"`

	// Token optionally pins the sync to one token id; without it the
	// remote end scans the user's tokens.
	Token string `validate:"omitempty,max=64"`
}

// TokenSync forwards a resynchronization request to the sync gateway. The
// two consecutive codes let the remote end recompute the token's drift. The
// credentials pass through opaque; only the resulting status is interpreted.
func (s *Usecase) TokenSync(ctx context.Context, in TokenSyncInput) error {
	ctx, span := s.startSpan(ctx, "TokenSync")
	defer span.End()

	in.User = strings.TrimSpace(in.User)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	status, err := s.syncGW.Resync(ctx, SyncRequest{
		User:       in.User,
		Password:   in.Password,
		FirstCode:  in.FirstCode,
		SecondCode: in.SecondCode,
		Token:      in.Token,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to forward token sync", "user", in.User, "error", err)
		return goerror.NewServer(err)
	}

	switch status {
	case entity.SyncStatusOK:
		return nil
	case entity.SyncStatusInvalidCredentials:
		return goerror.NewBusiness("invalid credentials", goerror.CodeUnauthorized)
	case entity.SyncStatusError:
		return goerror.NewBusiness("token synchronization failed", goerror.CodeInvalidInput)
	default:
		slog.WarnContext(ctx, "unrecognized token sync result", "user", in.User, "status", status.String())
		return goerror.NewBusiness("token synchronization failed", goerror.CodeInternal)
	}
}
