package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/token/entity"
)

func (s *DB) CreateRecord(ctx context.Context, attrs entity.AttrMap) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "CreateRecord")
	defer func() { s.endSpan(span, err) }()

	var (
		notBefore, notAfter            *time.Time
		clockOffset, timeStep, counter *int
	)

	notBefore = attrs.GetTime(entity.AttrNotBefore)
	notAfter = attrs.GetTime(entity.AttrNotAfter)

	if attrs.Has(entity.AttrTOTPClockOffset) {
		v := attrs.GetInt(entity.AttrTOTPClockOffset)
		clockOffset = &v
	}
	if attrs.Has(entity.AttrTOTPTimeStep) {
		v := attrs.GetInt(entity.AttrTOTPTimeStep)
		timeStep = &v
	}
	if attrs.Has(entity.AttrHOTPCounter) {
		v := attrs.GetInt(entity.AttrHOTPCounter)
		counter = &v
	}

	const query = `INSERT INTO tokens
		(id, classes, secret, algorithm, digits, owner, managed_by, disabled,
		 not_before, not_after, description, vendor, model, serial,
		 totp_clock_offset, totp_time_step, hotp_counter)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8,
		 $9, $10, NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, ''), NULLIF($14, ''),
		 $15, $16, $17)`

	_, err = s.conn.Exec(ctx, query,
		attrs.GetString(entity.AttrID),
		attrs.GetStrings(entity.AttrClasses),
		attrs.GetBytes(entity.AttrSecret),
		attrs.GetString(entity.AttrAlgorithm),
		attrs.GetInt(entity.AttrDigits),
		attrs.GetString(entity.AttrOwner),
		attrs.GetString(entity.AttrManagedBy),
		attrs.GetBool(entity.AttrDisabled),
		notBefore,
		notAfter,
		attrs.GetString(entity.AttrDescription),
		attrs.GetString(entity.AttrVendor),
		attrs.GetString(entity.AttrModel),
		attrs.GetString(entity.AttrSerial),
		clockOffset,
		timeStep,
		counter,
	)
	if err != nil {
		return "", s.mapError(err)
	}

	return attrs.GetString(entity.AttrID), nil
}

func (s *DB) ReadRecord(ctx context.Context, id string) (_ entity.AttrMap, err error) {
	ctx, span := s.startSpan(ctx, "ReadRecord")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE id = $1`

	attrs, err := rowToAttrs(s.conn.QueryRow(ctx, query, id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return attrs, nil
}

// updatableColumns guards the dynamic SET clause: only attributes the update
// path may touch are mapped to columns.
var updatableColumns = map[string]string{
	entity.AttrOwner:       "owner",
	entity.AttrManagedBy:   "managed_by",
	entity.AttrDisabled:    "disabled",
	entity.AttrNotBefore:   "not_before",
	entity.AttrNotAfter:    "not_after",
	entity.AttrDescription: "description",
	entity.AttrVendor:      "vendor",
	entity.AttrModel:       "model",
	entity.AttrSerial:      "serial",
	entity.AttrHOTPCounter: "hotp_counter",
}

func (s *DB) UpdateRecord(ctx context.Context, id string, partial entity.AttrMap) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateRecord")
	defer func() { s.endSpan(span, err) }()

	sets := make([]string, 0, len(partial)+1)
	args := make([]any, 0, len(partial)+1)
	args = append(args, id)

	for name, value := range partial {
		column, ok := updatableColumns[name]
		if !ok {
			return fmt.Errorf("attribute %q is not updatable", name)
		}

		if v, isStr := value.(string); isStr && v == "" {
			value = nil
		}

		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if len(sets) == 0 {
		return nil
	}

	query := `UPDATE tokens SET ` + strings.Join(sets, ", ") + `, updated_at = now() WHERE id = $1`

	tag, err := s.conn.Exec(ctx, query, args...)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) DeleteRecord(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteRecord")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM tokens WHERE id = $1`, id)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
