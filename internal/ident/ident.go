package ident

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"vidctl/internal/apierr"
)

// ID is an immutable resource identifier. The zero value is the nil UUID,
// which Parse accepts but IsZero reports so factories can reject it.
type ID struct {
	u uuid.UUID
}

// Nil is the all-zero identifier.
var Nil = ID{}

// New returns a random (version 4) identifier.
func New() ID {
	return ID{u: uuid.New()}
}

// FromUUID wraps an existing uuid.UUID.
func FromUUID(u uuid.UUID) ID {
	return ID{u: u}
}

const canonicalLen = 36

// Parse accepts only xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx with lowercase hex
// digits. Braced, URN, unhyphenated and uppercase forms fail with
// apierr.ErrMalformedIdentifier.
func Parse(s string) (ID, error) {
	if len(s) != canonicalLen {
		return ID{}, apierr.Malformed(apierr.ErrMalformedIdentifier, s, "expected 36 characters")
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return ID{}, apierr.Malformed(apierr.ErrMalformedIdentifier, s, fmt.Sprintf("expected '-' at offset %d", i))
			}
		default:
			if !isLowerHex(c) {
				return ID{}, apierr.Malformed(apierr.ErrMalformedIdentifier, s, fmt.Sprintf("invalid character at offset %d", i))
			}
		}
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, apierr.Malformed(apierr.ErrMalformedIdentifier, s, err.Error())
	}
	return ID{u: u}, nil
}

// MustParse is Parse for constants in tests and fixtures.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func isLowerHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

// IsZero reports whether id is the nil identifier.
func (id ID) IsZero() bool { return id.u == uuid.Nil }

// UUID returns the underlying value.
func (id ID) UUID() uuid.UUID { return id.u }

// String returns the canonical lowercase hyphenated form.
func (id ID) String() string { return id.u.String() }

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.u.String())
}

// UnmarshalJSON accepts only a JSON string in canonical form.
func (id *ID) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return apierr.Malformed(apierr.ErrMalformedIdentifier, string(data), "expected JSON string")
	}
	return id.UnmarshalText([]byte(text))
}

// Value implements driver.Valuer; identifiers are stored as canonical text.
func (id ID) Value() (driver.Value, error) {
	return id.u.String(), nil
}

// Scan implements sql.Scanner for TEXT columns.
func (id *ID) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		return id.UnmarshalText(v)
	default:
		return fmt.Errorf("scan identifier: unsupported column type %T", src)
	}
}
