package usecase

import (
	"context"
	"strings"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
)

type (
	TokenDetailInput struct {
		ID string `validate:"required,max=64"`

		All bool
		Raw bool
	}

	TokenDetailOutput struct {
		Token TokenOutput
	}
)

func (s *Usecase) TokenDetail(ctx context.Context, in TokenDetailInput) (*TokenDetailOutput, error) {
	ctx, span := s.startSpan(ctx, "TokenDetail")
	defer span.End()

	in.ID = strings.TrimSpace(in.ID)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.caller(ctx); err != nil {
		return nil, err
	}

	attrs, err := s.readTokenRecord(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	return &TokenDetailOutput{
		Token: s.buildOutput(attrs, OutputOptions{All: in.All, Raw: in.Raw}),
	}, nil
}
