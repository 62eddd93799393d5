package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/token/entity"
	"github.com/samber/lo"
)

type (
	TokenListInput struct {
		// Type narrows the result to one token family; any other value,
		// including none, matches every token.
		Type string `validate:"omitempty,max=16"`
		// Owner narrows the result to tokens owned by one user.
		Owner string `validate:"omitempty,max=255"`
		// Disabled, when set, narrows on the disabled flag.
		Disabled *bool

		Limit  int32 `validate:"omitempty,min=1,max=100"`
		Offset int32 `validate:"omitempty,min=0"`

		All bool
		Raw bool
	}

	TokenListOutput struct {
		Tokens []TokenOutput
	}
)

func (s *Usecase) TokenList(ctx context.Context, in TokenListInput) (*TokenListOutput, error) {
	ctx, span := s.startSpan(ctx, "TokenList")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.caller(ctx); err != nil {
		return nil, err
	}

	if in.Limit == 0 {
		in.Limit = 25
	}

	filter, err := s.buildFilter(ctx, in)
	if err != nil {
		return nil, err
	}

	records, err := s.repoDB.Search(ctx, filter, in.Limit, in.Offset)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo search token records", "filter", filter, "error", err)
		return nil, goerror.NewServer(err)
	}

	opts := OutputOptions{All: in.All, Raw: in.Raw}

	return &TokenListOutput{
		Tokens: lo.Map(records, func(attrs entity.AttrMap, _ int) TokenOutput {
			return s.buildOutput(attrs, opts)
		}),
	}, nil
}

// buildFilter assembles the search filter expression. The generic class
// predicate goes in first so the type rewrite has something to narrow.
func (s *Usecase) buildFilter(ctx context.Context, in TokenListInput) (string, error) {
	predicates := []string{"(class=" + entity.ClassToken + ")"}

	if owner := strings.TrimSpace(in.Owner); owner != "" {
		ref, err := s.resolveIdentity(ctx, owner)
		if err != nil {
			return "", err
		}
		predicates = append(predicates, "(owner="+ref+")")
	}

	if in.Disabled != nil {
		if *in.Disabled {
			predicates = append(predicates, "(disabled=true)")
		} else {
			predicates = append(predicates, "(disabled=false)")
		}
	}

	filter := predicates[0]
	if len(predicates) > 1 {
		filter = "(&" + strings.Join(predicates, "") + ")"
	}

	return entity.RewriteTypeFilter(filter, in.Type), nil
}
