package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/authkeep/otpvault/internal/pkg/clock"
	"github.com/authkeep/otpvault/internal/pkg/config"
	"github.com/authkeep/otpvault/internal/pkg/idempotency"
	"github.com/authkeep/otpvault/internal/pkg/instrument"
	"github.com/authkeep/otpvault/internal/pkg/otp"
	"github.com/authkeep/otpvault/internal/pkg/uid"
	"github.com/authkeep/otpvault/internal/pkg/validator"
	"github.com/authkeep/otpvault/internal/token/entity"
	"go.opentelemetry.io/otel/trace"
)

// SyncRequest is the parameter bundle forwarded to the resynchronization
// gateway. The core never inspects the credentials; they travel opaque.
type SyncRequest struct {
	User       string
	Password   string
	FirstCode  string
	SecondCode string
	// Token optionally pins the sync to one token id.
	Token string
}

// repoDB is the store collaborator. Records cross this boundary as flat
// attribute maps; any atomicity needed around read-validate-write belongs to
// the implementation, not to this package.
type repoDB interface {
	CreateRecord(ctx context.Context, attrs entity.AttrMap) (string, error)
	ReadRecord(ctx context.Context, id string) (entity.AttrMap, error)
	UpdateRecord(ctx context.Context, id string, partial entity.AttrMap) error
	DeleteRecord(ctx context.Context, id string) error
	Search(ctx context.Context, filter string, limit, offset int32) ([]entity.AttrMap, error)

	// ResolveIdentity maps a user identifier to its canonical reference.
	ResolveIdentity(ctx context.Context, identifier string) (string, error)
	// LookupAttribute reads one attribute of a referenced principal.
	// Absence is reported as goerror.ErrNotFound and is non-fatal to callers.
	LookupAttribute(ctx context.Context, ref, attribute string) (string, error)
}

type repoMessaging interface {
	PublishTokenCreated(ctx context.Context, tokenID, tokenType, owner, actor string) error
	PublishTokenUpdated(ctx context.Context, tokenID string, fields []string, actor string) error
	PublishTokenDeleted(ctx context.Context, tokenID, actor string) error
}

// syncGateway forwards a resynchronization request over an encrypted channel
// and reports the gateway's status token.
type syncGateway interface {
	Resync(ctx context.Context, req SyncRequest) (entity.SyncStatus, error)
}

// Usecase implements the token lifecycle operations.
type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	syncGW        syncGateway
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	uuid          uid.StringID
	otp           otp.Validator
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

// Dependency lists what the Usecase needs; all fields are required.
type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	SyncGateway   syncGateway
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	UUID          uid.StringID
	OTP           otp.Validator
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

// New constructs the Usecase.
func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		syncGW:        dep.SyncGateway,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uuid:          dep.UUID,
		otp:           dep.OTP,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("token.usecase").Start(ctx, name)
}

// realm returns the authentication realm used as the issuer fallback.
func (s *Usecase) realm() string {
	return s.cfg.GetString("modules.token.realm")
}

// TokenOutput is the non-secret view of a token returned by every read path.
type TokenOutput struct {
	ID        string
	Type      string
	Algorithm string
	Digits    int

	ClockOffset *int
	TimeStep    *int
	Counter     *int

	Owner     string
	ManagedBy string
	Disabled  bool
	NotBefore *time.Time
	NotAfter  *time.Time

	Description string
	Vendor      string
	Model       string
	Serial      string

	// Classes is populated only when the caller asked for the full marker
	// set; otherwise the markers are stripped from the output.
	Classes []string
}

// OutputOptions control post-processing of read results.
type OutputOptions struct {
	// All keeps the schema-class marker set in the output.
	All bool
	// Raw skips owner denormalization and returns canonical references.
	Raw bool
}

// buildOutput applies the output-side schema resolution: derive the display
// type from the stored markers, strip the marker set unless requested, and
// denormalize the owner reference.
func (s *Usecase) buildOutput(attrs entity.AttrMap, opts OutputOptions) TokenOutput {
	tok := entity.TokenFromAttrs(attrs)

	out := TokenOutput{
		ID:          tok.ID,
		Algorithm:   tok.Algorithm.String(),
		Digits:      int(tok.Digits),
		Owner:       tok.Owner,
		ManagedBy:   tok.ManagedBy,
		Disabled:    tok.Disabled,
		NotBefore:   tok.NotBefore,
		NotAfter:    tok.NotAfter,
		Description: tok.Description,
		Vendor:      tok.Vendor,
		Model:       tok.Model,
		Serial:      tok.Serial,
	}

	if tok.Type.IsKnown() {
		out.Type = tok.Type.Display()
	}

	switch {
	case tok.TOTP != nil:
		offset, step := tok.TOTP.ClockOffset, tok.TOTP.TimeStep
		out.ClockOffset, out.TimeStep = &offset, &step
	case tok.HOTP != nil:
		counter := tok.HOTP.Counter
		out.Counter = &counter
	}

	if opts.All {
		out.Classes = attrs.GetStrings(entity.AttrClasses)
	}

	if !opts.Raw {
		out.Owner = displayIdentifier(out.Owner)
		out.ManagedBy = displayIdentifier(out.ManagedBy)
	}

	return out
}

// displayIdentifier converts a canonical reference back to the short user
// identifier shown to callers. Values that are not references pass through.
func displayIdentifier(ref string) string {
	if ref == "" {
		return ""
	}

	first := ref
	if i := strings.IndexByte(ref, ','); i >= 0 {
		first = ref[:i]
	}

	if v, ok := strings.CutPrefix(first, "uid="); ok {
		return v
	}

	return ref
}
