package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/authkeep/otpvault/internal/token/entity"
	"github.com/jackc/pgx/v5"
)

// Search evaluates a filter expression against the token table. The filter
// grammar is the minimal one the usecase layer emits: simple (name=value)
// predicates, optionally conjoined as (&(a=x)(b=y)).
func (s *DB) Search(ctx context.Context, filter string, limit, offset int32) (_ []entity.AttrMap, err error) {
	ctx, span := s.startSpan(ctx, "Search")
	defer func() { s.endSpan(span, err) }()

	where, args, err := filterToSQL(filter)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + tokenColumns + ` FROM tokens`
	if where != "" {
		query += ` WHERE ` + where
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var records []entity.AttrMap
	for rows.Next() {
		attrs, err := rowToAttrs(pgx.Row(rows))
		if err != nil {
			return nil, s.mapError(err)
		}
		records = append(records, attrs)
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return records, nil
}

// filterToSQL translates the filter expression into a WHERE fragment.
func filterToSQL(filter string) (string, []any, error) {
	predicates, err := splitPredicates(filter)
	if err != nil {
		return "", nil, err
	}

	var (
		clauses []string
		args    []any
	)

	for _, pred := range predicates {
		name, value, ok := strings.Cut(pred, "=")
		if !ok {
			return "", nil, fmt.Errorf("malformed predicate %q", pred)
		}

		switch name {
		case "class":
			// The generic marker is carried by every record.
			if value == entity.ClassToken {
				continue
			}
			args = append(args, []string{value})
			clauses = append(clauses, fmt.Sprintf("classes @> $%d", len(args)))
		case "owner":
			args = append(args, value)
			clauses = append(clauses, fmt.Sprintf("owner = $%d", len(args)))
		case "disabled":
			args = append(args, value == "true")
			clauses = append(clauses, fmt.Sprintf("disabled = $%d", len(args)))
		case "id":
			args = append(args, value)
			clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
		default:
			return "", nil, fmt.Errorf("unsupported predicate attribute %q", name)
		}
	}

	return strings.Join(clauses, " AND "), args, nil
}

// splitPredicates unwraps an optional (&...) conjunction and returns the bare
// name=value elements.
func splitPredicates(filter string) ([]string, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil, nil
	}

	if strings.HasPrefix(filter, "(&") && strings.HasSuffix(filter, ")") {
		filter = filter[2 : len(filter)-1]
	}

	var predicates []string
	for filter != "" {
		if filter[0] != '(' {
			return nil, fmt.Errorf("malformed filter near %q", filter)
		}
		end := strings.IndexByte(filter, ')')
		if end < 0 {
			return nil, fmt.Errorf("unterminated predicate in %q", filter)
		}
		predicates = append(predicates, filter[1:end])
		filter = filter[end+1:]
	}

	return predicates, nil
}
