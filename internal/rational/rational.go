package rational

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"vidctl/internal/apierr"
)

// Rational is an immutable fraction. The zero value is 0/1.
type Rational struct {
	num int64
	den int64
}

// New returns num/den reduced to lowest terms. A zero denominator, or a
// component equal to math.MinInt64 whose sign cannot be normalized, fails
// with apierr.ErrMalformedNumber.
func New(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, apierr.Malformed(apierr.ErrMalformedNumber, formatPair(num, den), "zero denominator")
	}
	if num == math.MinInt64 || den == math.MinInt64 {
		return Rational{}, apierr.Malformed(apierr.ErrMalformedNumber, formatPair(num, den), "out of range")
	}
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd(abs(num), den); g > 1 {
		num /= g
		den /= g
	}
	if num == 0 {
		den = 1
	}
	return Rational{num: num, den: den}, nil
}

// MustNew is New for constants known to be valid.
func MustNew(num, den int64) Rational {
	r, err := New(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

// FromInt returns n/1.
func FromInt(n int64) Rational {
	return Rational{num: n, den: 1}
}

// Parse reads the "<int>/<int>" form. Signs are only accepted as a leading
// '-' on either component; whitespace, decimals and exponents are rejected.
func Parse(s string) (Rational, error) {
	numText, denText, ok := strings.Cut(s, "/")
	if !ok {
		return Rational{}, apierr.Malformed(apierr.ErrMalformedNumber, s, "expected <int>/<int>")
	}
	num, err := parseComponent(numText)
	if err != nil {
		return Rational{}, apierr.Malformed(apierr.ErrMalformedNumber, s, "bad numerator")
	}
	den, err := parseComponent(denText)
	if err != nil {
		return Rational{}, apierr.Malformed(apierr.ErrMalformedNumber, s, "bad denominator")
	}
	if den == 0 {
		return Rational{}, apierr.Malformed(apierr.ErrMalformedNumber, s, "zero denominator")
	}
	return New(num, den)
}

func parseComponent(text string) (int64, error) {
	digits := strings.TrimPrefix(text, "-")
	if digits == "" {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.ParseInt(text, 10, 64)
}

// Num returns the reduced numerator.
func (r Rational) Num() int64 { return r.num }

// Den returns the reduced denominator, which is always positive.
func (r Rational) Den() int64 {
	if r.den == 0 {
		return 1
	}
	return r.den
}

// IsZero reports whether r equals 0.
func (r Rational) IsZero() bool { return r.num == 0 }

// IsPositive reports whether r is strictly greater than zero.
func (r Rational) IsPositive() bool { return r.num > 0 }

// Equal reports value equality. Because values are always reduced this is
// the same as ==, except that the zero value equals 0/1.
func (r Rational) Equal(other Rational) bool {
	return r.num == other.num && r.Den() == other.Den()
}

// Cmp returns -1, 0 or +1 comparing r with other without overflow.
func (r Rational) Cmp(other Rational) int {
	left := mulWide(r.num, other.Den())
	right := mulWide(other.num, r.Den())
	return left.cmp(right)
}

func (r Rational) String() string {
	return formatPair(r.num, r.Den())
}

// MarshalText implements encoding.TextMarshaler.
func (r Rational) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rational) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalJSON renders the string form, e.g. "30/1".
func (r Rational) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

type objectForm struct {
	Num *json.Number `json:"num"`
	Den *json.Number `json:"den"`
}

// UnmarshalJSON accepts the string form, an object {"num":n,"den":d}, or a
// bare integer literal n meaning n/1. Non-integral numbers are rejected.
func (r *Rational) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return apierr.Malformed(apierr.ErrMalformedNumber, "", "empty input")
	}
	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return apierr.Malformed(apierr.ErrMalformedNumber, string(data), err.Error())
		}
		return r.UnmarshalText([]byte(text))
	case '{':
		var obj objectForm
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		dec.DisallowUnknownFields()
		if err := dec.Decode(&obj); err != nil {
			return apierr.Malformed(apierr.ErrMalformedNumber, string(data), err.Error())
		}
		if obj.Num == nil || obj.Den == nil {
			return apierr.Malformed(apierr.ErrMalformedNumber, string(data), "num and den are required")
		}
		num, err := parseComponent(obj.Num.String())
		if err != nil {
			return apierr.Malformed(apierr.ErrMalformedNumber, string(data), "bad numerator")
		}
		den, err := parseComponent(obj.Den.String())
		if err != nil {
			return apierr.Malformed(apierr.ErrMalformedNumber, string(data), "bad denominator")
		}
		parsed, err := New(num, den)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	default:
		n, err := parseComponent(string(data))
		if err != nil {
			return apierr.Malformed(apierr.ErrMalformedNumber, string(data), "expected fraction string, object or integer")
		}
		*r = FromInt(n)
		return nil
	}
}

// Value implements driver.Valuer; the column holds the text form.
func (r Rational) Value() (driver.Value, error) {
	return r.String(), nil
}

// Scan implements sql.Scanner for TEXT columns.
func (r *Rational) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("scan rational: unsupported column type %T", src)
	}
}

func formatPair(num, den int64) string {
	return strconv.FormatInt(num, 10) + "/" + strconv.FormatInt(den, 10)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
