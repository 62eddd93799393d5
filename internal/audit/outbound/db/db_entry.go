package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/authkeep/otpvault/internal/audit/entity"
)

func (s *DB) CreateEntry(ctx context.Context, entry entity.Entry) (err error) {
	ctx, span := s.startSpan(ctx, "CreateEntry")
	defer func() { s.endSpan(span, err) }()

	const query = `INSERT INTO audit_entries (id, action, token_id, actor, metadata, occurred_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)`

	_, err = s.conn.Exec(ctx, query,
		entry.ID,
		entry.Action.String(),
		entry.TokenID,
		entry.Actor,
		entry.Metadata,
		entry.OccurredAt,
	)
	return s.mapError(err)
}

func (s *DB) ListEntries(ctx context.Context, filter entity.ListFilter) (_ []entity.Entry, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "ListEntries")
	defer func() { s.endSpan(span, err) }()

	var (
		clauses []string
		args    []any
	)

	if filter.TokenID != "" {
		args = append(args, filter.TokenID)
		clauses = append(clauses, fmt.Sprintf("token_id = $%d", len(args)))
	}
	if filter.Actor != "" {
		args = append(args, filter.Actor)
		clauses = append(clauses, fmt.Sprintf("actor = $%d", len(args)))
	}
	if filter.Action != entity.ActionUnknown {
		args = append(args, filter.Action.String())
		clauses = append(clauses, fmt.Sprintf("action = $%d", len(args)))
	}

	where := ""
	if len(clauses) > 0 {
		where = ` WHERE ` + strings.Join(clauses, " AND ")
	}

	var total int64
	if err = s.conn.QueryRow(ctx, `SELECT count(*) FROM audit_entries`+where, args...).Scan(&total); err != nil {
		return nil, 0, s.mapError(err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT id, action, token_id, actor, metadata, occurred_at FROM audit_entries` + where +
		fmt.Sprintf(` ORDER BY occurred_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	var entries []entity.Entry
	for rows.Next() {
		var (
			e      entity.Entry
			action string
			actor  *string
		)
		if err = rows.Scan(&e.ID, &action, &e.TokenID, &actor, &e.Metadata, &e.OccurredAt); err != nil {
			return nil, 0, s.mapError(err)
		}

		e.Action = entity.ActionFromString(action)
		if actor != nil {
			e.Actor = *actor
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return entries, total, nil
}
