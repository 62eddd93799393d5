package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/token/entity"
)

type (
	TokenCreateInput struct {
		ID   string `validate:"omitempty,max=64"`
		Type string `validate:"required,oneof=totp hotp"`

		// Secret is optional base32 key material; SecretConfirm, when
		// supplied, must match it byte for byte. Absent secret means
		// the server generates one.
		Secret        string `validate:"omitempty,base32"`
		SecretConfirm string `validate:"omitempty,base32"`

		Algorithm string `validate:"omitempty,oneof=sha1 sha256 sha384 sha512"`
		Digits    int    `validate:"omitempty,oneof=6 8"`

		Owner    string `validate:"omitempty,max=255"`
		Disabled bool

		NotBefore *time.Time
		NotAfter  *time.Time

		Description string `validate:"omitempty,max=255"`
		Vendor      string `validate:"omitempty,max=255"`
		Model       string `validate:"omitempty,max=255"`
		Serial      string `validate:"omitempty,max=255"`

		// Type-specific settings. Settings of the other type are
		// silently discarded.
		ClockOffset *int
		TimeStep    *int `validate:"omitempty,min=5"`
		Counter     *int `validate:"omitempty,min=0"`

		// IdempotencyKey deduplicates retried submissions when present.
		IdempotencyKey string

		All bool
		Raw bool
	}

	TokenCreateOutput struct {
		Token TokenOutput
		// URI is the otpauth enrollment URI, the only place the secret
		// leaves the server.
		URI string
	}
)

func (s *Usecase) TokenCreate(ctx context.Context, in TokenCreateInput) (*TokenCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "TokenCreate")
	defer span.End()

	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	if in.Type == "" {
		in.Type = entity.TokenTypeTOTP.String()
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	if !entity.CheckInterval(in.NotBefore, in.NotAfter) {
		return nil, goerror.NewInvalidInput(nil, "not_after", "is before the validity start")
	}

	secret, err := s.resolveSecret(ctx, in.Secret, in.SecretConfirm)
	if err != nil {
		return nil, err
	}

	tok := s.newToken(in, secret)
	if tok.ID == "" {
		tok.ID = s.uuid.Generate()
	}

	// If no owner was given the token belongs to the caller. The caller
	// becomes the manager only when it ends up owning the token.
	ownerID := strings.TrimSpace(in.Owner)
	if ownerID == "" {
		ownerID = clm.UID
	}

	ownerRef, err := s.resolveIdentity(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	tok.Owner = ownerRef

	if displayIdentifier(ownerID) == clm.UID {
		callerRef := ownerRef
		if ownerID != clm.UID {
			if callerRef, err = s.resolveIdentity(ctx, clm.UID); err != nil {
				return nil, err
			}
		}
		tok.ManagedBy = callerRef
	}

	issuer := s.issuerFor(ctx, ownerRef)

	attrs := tok.Attrs()
	entity.PruneForeignAttrs(attrs, tok.Type)

	create := func(ctx context.Context) error {
		if _, err := s.repoDB.CreateRecord(ctx, attrs); err != nil {
			if errors.Is(err, goerror.ErrConflict) {
				slog.WarnContext(ctx, "token id already exists", "token_id", tok.ID)
				return goerror.NewBusiness("token with that id already exists", goerror.CodeConflict)
			}

			slog.ErrorContext(ctx, "failed to repo create token record", "token_id", tok.ID, "error", err)
			return goerror.NewServer(err)
		}
		return nil
	}

	if in.IdempotencyKey != "" {
		err = s.idemp.Exec(ctx, in.IdempotencyKey, create)
	} else {
		err = create(ctx)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repoMessaging.PublishTokenCreated(ctx, tok.ID, tok.Type.String(), tok.Owner, clm.UID); err != nil {
		slog.ErrorContext(ctx, "failed to publish token created", "token_id", tok.ID, "error", err)
	}

	params := entity.ProvisionParams{
		Type:      tok.Type,
		Issuer:    issuer,
		ID:        tok.ID,
		Secret:    tok.Secret,
		Digits:    tok.Digits,
		Algorithm: tok.Algorithm,
	}
	if tok.TOTP != nil {
		params.TimeStep = tok.TOTP.TimeStep
	}
	if tok.HOTP != nil {
		params.Counter = tok.HOTP.Counter
	}

	return &TokenCreateOutput{
		Token: s.buildOutput(attrs, OutputOptions{All: in.All, Raw: in.Raw}),
		URI:   params.URI(),
	}, nil
}

// newToken maps the validated input onto a typed token with defaults filled
// in. Settings that belong to the other type never make it onto the entity.
func (s *Usecase) newToken(in TokenCreateInput, secret entity.Secret) *entity.Token {
	tok := &entity.Token{
		ID:          strings.TrimSpace(in.ID),
		Type:        entity.TokenTypeFromString(in.Type),
		Secret:      secret,
		Algorithm:   entity.DefaultAlgorithm,
		Digits:      entity.DefaultDigits,
		Disabled:    in.Disabled,
		NotBefore:   in.NotBefore,
		NotAfter:    in.NotAfter,
		Description: strings.TrimSpace(in.Description),
		Vendor:      strings.TrimSpace(in.Vendor),
		Model:       strings.TrimSpace(in.Model),
		Serial:      strings.TrimSpace(in.Serial),
	}

	if in.Algorithm != "" {
		tok.Algorithm = entity.AlgorithmFromString(in.Algorithm)
	}
	if in.Digits != 0 {
		tok.Digits = entity.Digits(in.Digits)
	}

	switch tok.Type {
	case entity.TokenTypeTOTP:
		settings := &entity.TOTPSettings{
			ClockOffset: entity.DefaultClockOffset,
			TimeStep:    entity.DefaultTimeStep,
		}
		if in.ClockOffset != nil {
			settings.ClockOffset = *in.ClockOffset
		}
		if in.TimeStep != nil {
			settings.TimeStep = *in.TimeStep
		}
		tok.TOTP = settings
	case entity.TokenTypeHOTP:
		settings := &entity.HOTPSettings{Counter: entity.DefaultCounter}
		if in.Counter != nil {
			settings.Counter = *in.Counter
		}
		tok.HOTP = settings
	}

	return tok
}

// resolveSecret decodes supplied key material or generates fresh material
// when none was given.
func (s *Usecase) resolveSecret(ctx context.Context, value, confirm string) (entity.Secret, error) {
	if value == "" {
		secret, err := entity.NewRandomSecret()
		if err != nil {
			slog.ErrorContext(ctx, "failed to generate token secret", "error", err)
			return nil, goerror.NewServer(err)
		}
		return secret, nil
	}

	var (
		secret entity.Secret
		err    error
	)
	if confirm != "" {
		secret, err = entity.DecodeSecretPair(value, confirm)
	} else {
		secret, err = entity.DecodeSecret(value)
	}

	switch {
	case errors.Is(err, entity.ErrSecretMismatch):
		return nil, goerror.NewInvalidInput(nil, "secret", "confirmation does not match")
	case errors.Is(err, entity.ErrSecretEncoding):
		return nil, goerror.NewInvalidInput(nil, "secret", "must be base32 encoded")
	case err != nil:
		slog.ErrorContext(ctx, "failed to decode token secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	return secret, nil
}

// issuerFor picks the enrollment URI issuer: the owner's authentication
// principal when one is on record, the configured realm otherwise.
func (s *Usecase) issuerFor(ctx context.Context, ownerRef string) string {
	issuer := s.realm()
	if ownerRef == "" {
		return issuer
	}

	principal, err := s.repoDB.LookupAttribute(ctx, ownerRef, "principal")
	if err != nil {
		if !errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "failed to look up owner principal", "owner", ownerRef, "error", err)
		}
		return issuer
	}
	if principal != "" {
		issuer = principal
	}

	return issuer
}
