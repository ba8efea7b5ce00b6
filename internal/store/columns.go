package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vidctl/internal/ident"
	"vidctl/internal/model"
	"vidctl/internal/rational"
	"vidctl/internal/timestamp"
)

// ErrMissingID is returned when a record without an identifier is stored.
var ErrMissingID = errors.New("record has no id")

type scanner interface{ Scan(dest ...any) error }

type tokener interface {
	StorageToken() (string, error)
}

func token(field string, v tokener) (string, error) {
	tok, err := v.StorageToken()
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	return tok, nil
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableID(value *ident.ID) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return value.String()
}

func optionalID(value ident.ID) any {
	if value.IsZero() {
		return nil
	}
	return value.String()
}

func nullableTime(value timestamp.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.String()
}

func nullableRational(value *rational.Rational) any {
	if value == nil {
		return nil
	}
	return value.String()
}

func jsonColumn[M ~map[string]V, V any](value M) (any, error) {
	if len(value) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func parseID(ns sql.NullString) (ident.ID, error) {
	if !ns.Valid {
		return ident.ID{}, nil
	}
	return ident.Parse(ns.String)
}

func parseIDPtr(ns sql.NullString) (*ident.ID, error) {
	if !ns.Valid {
		return nil, nil
	}
	id, err := ident.Parse(ns.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseTime(ns sql.NullString) (timestamp.Time, error) {
	if !ns.Valid {
		return timestamp.Time{}, nil
	}
	return timestamp.Parse(ns.String)
}

func parseMetadata(ns sql.NullString) (model.Metadata, error) {
	if !ns.Valid {
		return nil, nil
	}
	var m model.Metadata
	if err := json.Unmarshal([]byte(ns.String), &m); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return m, nil
}

// rowTimes scans the created/updated pair shared by most tables.
type rowTimes struct {
	created sql.NullString
	updated sql.NullString
}

func (r rowTimes) parse() (created, updated timestamp.Time, err error) {
	if created, err = parseTime(r.created); err != nil {
		return created, updated, fmt.Errorf("created_at: %w", err)
	}
	if updated, err = parseTime(r.updated); err != nil {
		return created, updated, fmt.Errorf("updated_at: %w", err)
	}
	return created, updated, nil
}

func notFound(entity string, id ident.ID, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("get %s %s: %w", entity, id, ErrNotFound)
	}
	return fmt.Errorf("get %s %s: %w", entity, id, err)
}
