package enum

import (
	"fmt"

	"vidctl/internal/apierr"
)

// Entry declares one variant. Aliases are extra wire strings accepted on
// decode; encoding always produces Wire.
type Entry[T comparable] struct {
	Value   T
	Wire    string
	Storage string
	Aliases []string
}

// Registry is the declared variant set of one enumeration.
type Registry[T comparable] struct {
	name      string
	entries   []Entry[T]
	byValue   map[T]int
	byWire    map[string]int
	byStorage map[string]int
	persisted bool
}

// New builds a registry named name. Storage tokens are declared for every
// variant or for none; a registry without them has no storage mapping. New
// panics when a value, wire string, alias or storage token is empty or
// declared twice, since that is an error in the declaration itself.
func New[T comparable](name string, entries ...Entry[T]) *Registry[T] {
	if len(entries) == 0 {
		panic(fmt.Sprintf("enum %s: no variants declared", name))
	}
	r := &Registry[T]{
		name:      name,
		entries:   make([]Entry[T], len(entries)),
		byValue:   make(map[T]int, len(entries)),
		byWire:    make(map[string]int, len(entries)),
		byStorage: make(map[string]int, len(entries)),
		persisted: entries[0].Storage != "",
	}
	copy(r.entries, entries)
	for i, e := range entries {
		if _, dup := r.byValue[e.Value]; dup {
			panic(fmt.Sprintf("enum %s: value %v declared twice", name, e.Value))
		}
		r.byValue[e.Value] = i
		if (e.Storage != "") != r.persisted {
			panic(fmt.Sprintf("enum %s: storage tokens must be declared for every variant or none", name))
		}
		if r.persisted {
			if _, dup := r.byStorage[e.Storage]; dup {
				panic(fmt.Sprintf("enum %s: storage token %q declared twice", name, e.Storage))
			}
			r.byStorage[e.Storage] = i
		}
		for _, w := range append([]string{e.Wire}, e.Aliases...) {
			if w == "" {
				panic(fmt.Sprintf("enum %s: empty wire string for value %v", name, e.Value))
			}
			if _, dup := r.byWire[w]; dup {
				panic(fmt.Sprintf("enum %s: wire string %q declared twice", name, w))
			}
			r.byWire[w] = i
		}
	}
	return r
}

// Name returns the enumeration name used in error messages.
func (r *Registry[T]) Name() string { return r.name }

// Values returns the declared variants in declaration order.
func (r *Registry[T]) Values() []T {
	out := make([]T, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Value
	}
	return out
}

// Contains reports whether v is a declared variant.
func (r *Registry[T]) Contains(v T) bool {
	_, ok := r.byValue[v]
	return ok
}

// Wire returns the canonical wire string for v.
func (r *Registry[T]) Wire(v T) (string, error) {
	i, ok := r.byValue[v]
	if !ok {
		return "", r.unknown(fmt.Sprint(v))
	}
	return r.entries[i].Wire, nil
}

// Parse decodes a wire string, accepting declared aliases.
func (r *Registry[T]) Parse(s string) (T, error) {
	i, ok := r.byWire[s]
	if !ok {
		var zero T
		return zero, r.unknown(s)
	}
	return r.entries[i].Value, nil
}

// Persisted reports whether the registry declares storage tokens.
func (r *Registry[T]) Persisted() bool { return r.persisted }

// Storage returns the storage token for v.
func (r *Registry[T]) Storage(v T) (string, error) {
	if !r.persisted {
		return "", fmt.Errorf("enum %s: no storage mapping", r.name)
	}
	i, ok := r.byValue[v]
	if !ok {
		return "", r.unknown(fmt.Sprint(v))
	}
	return r.entries[i].Storage, nil
}

// ParseStorage decodes a storage token. Wire strings are not accepted here.
func (r *Registry[T]) ParseStorage(s string) (T, error) {
	if !r.persisted {
		var zero T
		return zero, fmt.Errorf("enum %s: no storage mapping", r.name)
	}
	i, ok := r.byStorage[s]
	if !ok {
		var zero T
		return zero, r.unknown(s)
	}
	return r.entries[i].Value, nil
}

// String renders v for logs and fmt verbs. Undeclared values render as
// "<name>(<value>)" instead of failing.
func (r *Registry[T]) String(v T) string {
	if i, ok := r.byValue[v]; ok {
		return r.entries[i].Wire
	}
	return fmt.Sprintf("%s(%v)", r.name, v)
}

// MarshalText is the encoding.TextMarshaler body shared by enum types.
func (r *Registry[T]) MarshalText(v T) ([]byte, error) {
	s, err := r.Wire(v)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText is the encoding.TextUnmarshaler body shared by enum types.
func (r *Registry[T]) UnmarshalText(text []byte, dst *T) error {
	v, err := r.Parse(string(text))
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func (r *Registry[T]) unknown(name string) error {
	return &apierr.UnknownVariantError{Enum: r.name, Name: name}
}
