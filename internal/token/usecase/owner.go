package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/pkg/jwt"
	"github.com/authkeep/otpvault/internal/token/entity"
)

// caller returns the authenticated caller's claims.
func (s *Usecase) caller(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("missing authentication", goerror.CodeUnauthorized)
	}

	return clm, nil
}

// authorizeManage checks that the caller owns or manages the record. Every
// operation that mutates or exercises a token passes through here; other
// users see the record's metadata but cannot act on it.
func authorizeManage(clm *jwt.Claims, attrs entity.AttrMap) error {
	if clm.UID == displayIdentifier(attrs.GetString(entity.AttrOwner)) ||
		clm.UID == displayIdentifier(attrs.GetString(entity.AttrManagedBy)) {
		return nil
	}

	return goerror.NewBusiness("caller does not own or manage this token", goerror.CodeForbidden)
}

// resolveIdentity maps a user identifier to its canonical reference. A
// missing user is the submitter's mistake and is reported as a not-found
// business error that names the identifier.
func (s *Usecase) resolveIdentity(ctx context.Context, identifier string) (string, error) {
	ref, err := s.repoDB.ResolveIdentity(ctx, identifier)
	if err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "referenced user does not exist", "identifier", identifier)
			return "", goerror.NewBusiness(fmt.Sprintf("%s: user not found", identifier), goerror.CodeNotFound)
		}

		slog.ErrorContext(ctx, "failed to repo resolve identity", "identifier", identifier, "error", err)
		return "", goerror.NewServer(err)
	}

	return ref, nil
}
