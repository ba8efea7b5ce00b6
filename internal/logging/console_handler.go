package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// timeLayout is the fixed UTC form used in JSON records, matching the
	// timestamps vidctl puts on the wire.
	timeLayout = "2006-01-02T15:04:05.000000Z07:00"
	// clockLayout prefixes console lines.
	clockLayout = "15:04:05.000"
)

// consoleHandler writes a human-oriented header line per record followed
// by one indented line per remaining field:
//
//	12:00:01.250 INFO [client] GET /v1/apps/… · deployment 1f… – request finished
//	    - status: 200
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool
	prefix    string
	preset    fieldSet
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) slog.Handler {
	return &consoleHandler{mu: new(sync.Mutex), w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = h.preset.clone()
	for _, attr := range attrs {
		next.preset.addAttr(h.prefix, attr)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := h.preset.clone()
	record.Attrs(func(attr slog.Attr) bool {
		fields.addAttr(h.prefix, attr)
		return true
	})

	component := fields.take(FieldComponent)
	subject := FormatSubject(fields.take(FieldMethod), fields.take(FieldPath), fields.take(FieldEntity), fields.take(FieldEntityID))

	when := record.Time
	if when.IsZero() {
		when = time.Now()
	}
	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var b strings.Builder
	b.WriteString(when.Local().Format(clockLayout))
	b.WriteString(" ")
	b.WriteString(levelName(record.Level))
	if component != "" {
		b.WriteString(" [" + component + "]")
	}
	if subject != "" {
		b.WriteString(" " + subject)
	}
	b.WriteString(" – " + message)
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			b.WriteString(" (" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + ")")
		}
	}
	b.WriteByte('\n')
	for _, f := range fields.items {
		b.WriteString("    - " + f.key + ": " + fieldText(f.key, f.value) + "\n")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}

type field struct {
	key   string
	value slog.Value
}

// fieldSet keeps fields in first-seen order; a repeated key overwrites the
// earlier value in place.
type fieldSet struct {
	items []field
}

func (s fieldSet) clone() fieldSet {
	return fieldSet{items: append([]field(nil), s.items...)}
}

func (s *fieldSet) addAttr(prefix string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner = prefix + attr.Key + "."
		}
		for _, member := range value.Group() {
			s.addAttr(inner, member)
		}
		return
	}
	s.set(prefix+attr.Key, value)
}

func (s *fieldSet) set(key string, value slog.Value) {
	for i := range s.items {
		if s.items[i].key == key {
			s.items[i].value = value
			return
		}
	}
	s.items = append(s.items, field{key: key, value: value})
}

// take removes key and returns its plain text, or "" when absent.
func (s *fieldSet) take(key string) string {
	for i, f := range s.items {
		if f.key == key {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return plainText(f.value)
		}
	}
	return ""
}
