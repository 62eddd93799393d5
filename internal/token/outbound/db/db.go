package db

import (
	"context"
	"errors"
	"time"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/pkg/instrument"
	"github.com/authkeep/otpvault/internal/token/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{
		conn: conn,
		ins:  ins,
	}
}

// mapError normalizes driver errors: no rows becomes goerror.ErrNotFound and
// a unique violation (23505) becomes goerror.ErrConflict.
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("token.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// tokenColumns is the select list every read shares; rowToAttrs scans it.
const tokenColumns = `id, classes, secret, algorithm, digits, owner, managed_by, disabled,
	not_before, not_after, description, vendor, model, serial,
	totp_clock_offset, totp_time_step, hotp_counter`

func rowToAttrs(row pgx.Row) (entity.AttrMap, error) {
	var (
		id, algorithm                     string
		classes                           []string
		secret                            []byte
		digits                            int32
		owner, managedBy                  *string
		disabled                          bool
		notBefore, notAfter               *time.Time
		description, vendor, model, srl   *string
		clockOffset, timeStep, hotpCtr    *int32
	)

	err := row.Scan(&id, &classes, &secret, &algorithm, &digits, &owner, &managedBy,
		&disabled, &notBefore, &notAfter, &description, &vendor, &model, &srl,
		&clockOffset, &timeStep, &hotpCtr)
	if err != nil {
		return nil, err
	}

	attrs := entity.AttrMap{
		entity.AttrID:        id,
		entity.AttrClasses:   classes,
		entity.AttrAlgorithm: algorithm,
		entity.AttrDigits:    int(digits),
		entity.AttrDisabled:  disabled,
	}

	if len(secret) > 0 {
		attrs[entity.AttrSecret] = secret
	}

	setString := func(key string, v *string) {
		if v != nil && *v != "" {
			attrs[key] = *v
		}
	}
	setString(entity.AttrOwner, owner)
	setString(entity.AttrManagedBy, managedBy)
	setString(entity.AttrDescription, description)
	setString(entity.AttrVendor, vendor)
	setString(entity.AttrModel, model)
	setString(entity.AttrSerial, srl)

	if notBefore != nil {
		attrs[entity.AttrNotBefore] = *notBefore
	}
	if notAfter != nil {
		attrs[entity.AttrNotAfter] = *notAfter
	}
	if clockOffset != nil {
		attrs[entity.AttrTOTPClockOffset] = int(*clockOffset)
	}
	if timeStep != nil {
		attrs[entity.AttrTOTPTimeStep] = int(*timeStep)
	}
	if hotpCtr != nil {
		attrs[entity.AttrHOTPCounter] = int(*hotpCtr)
	}

	return attrs, nil
}
