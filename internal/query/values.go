package query

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateKey is returned by Parse when a key appears more than once.
	ErrDuplicateKey = errors.New("duplicate query key")
	// ErrUnknownKey is returned by Unmarshal for keys no field claims.
	ErrUnknownKey = errors.New("unknown query key")
)

// Values is a flat mapping of unique keys to values that remembers
// insertion order. The zero value is empty and ready to use.
type Values struct {
	keys []string
	vals map[string]string
}

// Set stores value under key. Replacing an existing key keeps its position.
func (v *Values) Set(key, value string) {
	if v.vals == nil {
		v.vals = make(map[string]string)
	}
	if _, ok := v.vals[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.vals[key] = value
}

// Get returns the value for key.
func (v Values) Get(key string) (string, bool) {
	value, ok := v.vals[key]
	return value, ok
}

// Del removes key.
func (v *Values) Del(key string) {
	if _, ok := v.vals[key]; !ok {
		return
	}
	delete(v.vals, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i:i], v.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (v Values) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Len returns the number of keys.
func (v Values) Len() int { return len(v.keys) }

// Map returns an unordered copy.
func (v Values) Map() map[string]string {
	out := make(map[string]string, len(v.vals))
	for k, val := range v.vals {
		out[k] = val
	}
	return out
}

// Encode renders the values as key=value pairs joined by '&', escaping both
// sides with Escape.
func (v Values) Encode() string {
	if len(v.keys) == 0 {
		return ""
	}
	var b strings.Builder
	for i, k := range v.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Escape(k))
		b.WriteByte('=')
		b.WriteString(Escape(v.vals[k]))
	}
	return b.String()
}

// Parse decodes a query string, with or without a leading '?'. Empty
// segments are skipped and a segment without '=' yields an empty value.
func Parse(raw string) (Values, error) {
	raw = strings.TrimPrefix(raw, "?")
	var out Values
	for segment := range strings.SplitSeq(raw, "&") {
		if segment == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(segment, "=")
		key := Unescape(rawKey)
		if _, dup := out.Get(key); dup {
			return Values{}, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		out.Set(key, Unescape(rawValue))
	}
	return out, nil
}
