package timestamp

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Layout is the wire and storage form: UTC, microsecond precision.
const Layout = "2006-01-02T15:04:05.000000Z"

// ErrMalformedTimestamp is returned for text that is not an RFC 3339 instant
// with an explicit offset.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Time is an instant normalized to UTC at microsecond precision.
type Time struct {
	t time.Time
}

// From converts t, dropping sub-microsecond precision.
func From(t time.Time) Time {
	if t.IsZero() {
		return Time{}
	}
	return Time{t: t.UTC().Truncate(time.Microsecond)}
}

// Now returns the current instant.
func Now() Time {
	return From(time.Now())
}

// Parse accepts any RFC 3339 timestamp carrying a zone ("Z" or an offset)
// and normalizes it to UTC.
func Parse(s string) (Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return From(t), nil
}

// Time returns the instant as a time.Time in UTC.
func (t Time) Time() time.Time { return t.t }

// IsZero reports whether t is unset.
func (t Time) IsZero() bool { return t.t.IsZero() }

// Before reports whether t is earlier than other.
func (t Time) Before(other Time) bool { return t.t.Before(other.t) }

// Equal reports whether both values denote the same instant.
func (t Time) Equal(other Time) bool { return t.t.Equal(other.t) }

func (t Time) String() string {
	return t.t.Format(Layout)
}

// MarshalText implements encoding.TextMarshaler.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Time) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("%w: expected JSON string", ErrMalformedTimestamp)
	}
	return t.UnmarshalText([]byte(text))
}

// Value implements driver.Valuer.
func (t Time) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner for TEXT columns.
func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return t.UnmarshalText([]byte(v))
	case []byte:
		return t.UnmarshalText(v)
	case time.Time:
		*t = From(v)
		return nil
	default:
		return fmt.Errorf("scan timestamp: unsupported column type %T", src)
	}
}
