package nonempty

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"vidctl/internal/apierr"
)

// Slice is an immutable ordered sequence of one or more values. Only Of,
// FromSlice and UnmarshalJSON produce usable sequences; the zero value is an
// unset placeholder that IsZero reports and that holds no elements.
type Slice[T any] struct {
	head T
	tail []T
	set  bool
}

// Of builds a sequence from at least one element.
func Of[T any](first T, rest ...T) Slice[T] {
	return Slice[T]{head: first, tail: cloneTail(rest), set: true}
}

// FromSlice builds a sequence from items, failing with
// apierr.ErrEmptyCollection when items is empty.
func FromSlice[T any](items []T) (Slice[T], error) {
	if len(items) == 0 {
		return Slice[T]{}, fmt.Errorf("%w: need at least one element", apierr.ErrEmptyCollection)
	}
	return Of(items[0], items[1:]...), nil
}

func cloneTail[T any](rest []T) []T {
	if len(rest) == 0 {
		return nil
	}
	out := make([]T, len(rest))
	copy(out, rest)
	return out
}

// IsZero reports whether s is the unset zero value.
func (s Slice[T]) IsZero() bool { return !s.set }

// First returns the first element.
func (s Slice[T]) First() T { return s.head }

// Last returns the final element.
func (s Slice[T]) Last() T {
	if len(s.tail) == 0 {
		return s.head
	}
	return s.tail[len(s.tail)-1]
}

// Len returns the number of elements, at least 1 for a set sequence.
func (s Slice[T]) Len() int {
	if !s.set {
		return 0
	}
	return 1 + len(s.tail)
}

// At returns the element at index i and panics when i is out of range, like
// ordinary slice indexing.
func (s Slice[T]) At(i int) T {
	if i == 0 {
		return s.head
	}
	return s.tail[i-1]
}

// All iterates index/element pairs in order.
func (s Slice[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if !s.set || !yield(0, s.head) {
			return
		}
		for i, v := range s.tail {
			if !yield(i+1, v) {
				return
			}
		}
	}
}

// Values iterates elements in order.
func (s Slice[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		if !s.set || !yield(s.head) {
			return
		}
		for _, v := range s.tail {
			if !yield(v) {
				return
			}
		}
	}
}

// ToSlice returns a fresh copy of the elements.
func (s Slice[T]) ToSlice() []T {
	if !s.set {
		return []T{}
	}
	out := make([]T, 0, s.Len())
	out = append(out, s.head)
	return append(out, s.tail...)
}

// Append returns a new sequence with items added at the end. The receiver is
// unchanged.
func (s Slice[T]) Append(items ...T) Slice[T] {
	if !s.set {
		if len(items) == 0 {
			return s
		}
		return Of(items[0], items[1:]...)
	}
	tail := make([]T, 0, len(s.tail)+len(items))
	tail = append(tail, s.tail...)
	tail = append(tail, items...)
	return Slice[T]{head: s.head, tail: tail, set: true}
}

// Replace returns a new sequence with the element at i set to v.
func (s Slice[T]) Replace(i int, v T) Slice[T] {
	items := s.ToSlice()
	items[i] = v
	return Of(items[0], items[1:]...)
}

// Map applies fn to every element, stopping at the first error.
func Map[T, U any](s Slice[T], fn func(int, T) (U, error)) (Slice[U], error) {
	if !s.set {
		return Slice[U]{}, nil
	}
	out := make([]U, 0, s.Len())
	for i, v := range s.All() {
		mapped, err := fn(i, v)
		if err != nil {
			return Slice[U]{}, err
		}
		out = append(out, mapped)
	}
	return Of(out[0], out[1:]...), nil
}

// MarshalJSON renders a JSON array.
func (s Slice[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToSlice())
}

// UnmarshalJSON accepts a JSON array with at least one element. null and []
// fail with apierr.ErrEmptyCollection.
func (s *Slice[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("%w: got null", apierr.ErrEmptyCollection)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	parsed, err := FromSlice(items)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
