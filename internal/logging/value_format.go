package logging

import (
	"encoding"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

const redacted = "[redacted]"

// sensitiveKeys never reach a log sink with their value.
var sensitiveKeys = map[string]bool{
	"token":         true,
	"access_token":  true,
	"authorization": true,
}

func isSensitive(key string) bool {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	return sensitiveKeys[strings.ToLower(key)]
}

// plainText renders v without quoting. Ids, enums and rationals log in
// their wire form through encoding.TextMarshaler.
func plainText(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindTime:
		return v.Time().UTC().Format(timeLayout)
	case slog.KindAny:
		return anyText(v.Any())
	}
	return v.String()
}

func anyText(value any) string {
	switch x := value.(type) {
	case nil:
		return "<nil>"
	case error:
		return x.Error()
	case encoding.TextMarshaler:
		if text, err := x.MarshalText(); err == nil {
			return string(text)
		}
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(value)
}

// fieldText renders a field value for the console, quoting anything that
// would be ambiguous on a "key: value" line.
func fieldText(key string, v slog.Value) string {
	if isSensitive(key) {
		return redacted
	}
	s := plainText(v)
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '"' || r == ':' }) {
		return strconv.Quote(s)
	}
	return s
}
