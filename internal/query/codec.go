package query

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"vidctl/internal/apierr"
)

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

type field struct {
	name      string
	index     int
	omitEmpty bool
}

// fields lists the query fields of struct type t in declaration order and
// rejects any whose type cannot be flattened.
func fields(t reflect.Type) ([]field, error) {
	var out []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("query")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = sf.Name
		}
		if kind, ok := scalar(sf.Type); !ok {
			return nil, &apierr.QueryFieldError{Field: name, Kind: kind}
		}
		out = append(out, field{name: name, index: i, omitEmpty: opts == "omitempty"})
	}
	return out, nil
}

// scalar reports whether t flattens to a single string. The returned kind
// names the rejected shape otherwise.
func scalar(t reflect.Type) (string, bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Implements(textMarshalerType) && reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return "", true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "", true
	case reflect.Slice, reflect.Array:
		return "collection", false
	case reflect.Map:
		return "map", false
	case reflect.Struct:
		return "nested struct", false
	default:
		return t.Kind().String(), false
	}
}

func structValue(v any, op string) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("query %s: nil %s", op, rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("query %s: %s is not a struct", op, rv.Type())
	}
	return rv, nil
}

// Marshal flattens the tagged fields of a struct, or pointer to struct,
// into Values. Nil pointers and omitempty zero values are left out.
func Marshal(v any) (Values, error) {
	rv, err := structValue(v, "marshal")
	if err != nil {
		return Values{}, err
	}
	fs, err := fields(rv.Type())
	if err != nil {
		return Values{}, err
	}
	var out Values
	for _, f := range fs {
		fv := rv.Field(f.index)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		} else if f.omitEmpty && fv.IsZero() {
			continue
		}
		text, err := formatScalar(fv)
		if err != nil {
			return Values{}, fmt.Errorf("query field %q: %w", f.name, err)
		}
		out.Set(f.name, text)
	}
	return out, nil
}

func formatScalar(v reflect.Value) (string, error) {
	if m, ok := v.Interface().(encoding.TextMarshaler); ok {
		b, err := m.MarshalText()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), nil
	}
	return "", fmt.Errorf("cannot format %s", v.Type())
}

// Unmarshal fills the struct pointed to by v from values. Keys that no
// field claims are rejected.
func Unmarshal(values Values, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("query unmarshal: destination must be a non-nil pointer")
	}
	rv, err := structValue(v, "unmarshal")
	if err != nil {
		return err
	}
	fs, err := fields(rv.Type())
	if err != nil {
		return err
	}
	claimed := make(map[string]struct{}, len(fs))
	for _, f := range fs {
		claimed[f.name] = struct{}{}
		text, ok := values.Get(f.name)
		if !ok {
			continue
		}
		fv := rv.Field(f.index)
		if fv.Kind() == reflect.Pointer {
			ptr := reflect.New(fv.Type().Elem())
			if err := parseScalar(ptr.Elem(), text); err != nil {
				return fmt.Errorf("query field %q: %w", f.name, err)
			}
			fv.Set(ptr)
			continue
		}
		if err := parseScalar(fv, text); err != nil {
			return fmt.Errorf("query field %q: %w", f.name, err)
		}
	}
	for _, key := range values.Keys() {
		if _, ok := claimed[key]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
	}
	return nil
}

func parseScalar(v reflect.Value, text string) error {
	if u, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return u.UnmarshalText([]byte(text))
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(text)
		return nil
	case reflect.Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %w", apierr.ErrMalformedNumber, err)
		}
		v.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %w", apierr.ErrMalformedNumber, err)
		}
		v.SetUint(n)
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(text, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %w", apierr.ErrMalformedNumber, err)
		}
		v.SetFloat(f)
		return nil
	}
	return fmt.Errorf("cannot parse into %s", v.Type())
}

// Encode marshals v and renders the query string.
func Encode(v any) (string, error) {
	values, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return values.Encode(), nil
}

// Decode parses raw and unmarshals it into v.
func Decode(raw string, v any) error {
	values, err := Parse(raw)
	if err != nil {
		return err
	}
	return Unmarshal(values, v)
}
