package db

import (
	"context"
)

// ResolveIdentity maps a short user identifier to its canonical reference.
// A canonical reference resolves to itself, so callers can pass either form.
func (s *DB) ResolveIdentity(ctx context.Context, identifier string) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "ResolveIdentity")
	defer func() { s.endSpan(span, err) }()

	var ref string
	err = s.conn.QueryRow(ctx,
		`SELECT ref FROM principals WHERE uid = $1 OR ref = $1`, identifier,
	).Scan(&ref)
	if err != nil {
		return "", s.mapError(err)
	}

	return ref, nil
}

// LookupAttribute reads one attribute of a referenced principal. Only the
// attributes the principals table carries are addressable.
func (s *DB) LookupAttribute(ctx context.Context, ref, attribute string) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "LookupAttribute")
	defer func() { s.endSpan(span, err) }()

	var column string
	switch attribute {
	case "principal":
		column = "principal"
	case "uid":
		column = "uid"
	default:
		return "", s.mapError(errNoSuchAttribute(attribute))
	}

	var value *string
	err = s.conn.QueryRow(ctx,
		`SELECT `+column+` FROM principals WHERE ref = $1`, ref,
	).Scan(&value)
	if err != nil {
		return "", s.mapError(err)
	}
	if value == nil {
		return "", nil
	}

	return *value, nil
}

type errNoSuchAttribute string

func (e errNoSuchAttribute) Error() string {
	return "principals have no attribute " + string(e)
}
