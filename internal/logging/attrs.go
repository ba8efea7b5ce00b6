package logging

import (
	"fmt"
	"log/slog"
	"time"
)

// String is slog.String, re-exported so callers need only this package.
func String(key, value string) slog.Attr { return slog.String(key, value) }

// Error records err under the "error" key. A nil error yields an empty
// attribute, which handlers drop.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Status records an HTTP response status.
func Status(code int) slog.Attr { return slog.Int(FieldStatus, code) }

// Elapsed records a duration in whole milliseconds.
func Elapsed(d time.Duration) slog.Attr { return slog.Int64("elapsed_ms", d.Milliseconds()) }

// Request returns the method and path of an API call, ready for Logger.With.
func Request(method, path string) []any {
	return []any{slog.String(FieldMethod, method), slog.String(FieldPath, path)}
}

// Entity returns the kind and id of a record, ready for Logger.With or a
// log call. Any fmt.Stringer works as the id.
func Entity(kind string, id fmt.Stringer) []any {
	return []any{slog.String(FieldEntity, kind), slog.String(FieldEntityID, id.String())}
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger { return slog.New(slog.DiscardHandler) }

// NewComponentLogger tags logger with a component name. A nil logger
// becomes a discarding one.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}
