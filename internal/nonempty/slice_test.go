package nonempty

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vidctl/internal/apierr"
)

func TestFromSliceRejectsEmpty(t *testing.T) {
	if _, err := FromSlice([]string{}); !errors.Is(err, apierr.ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
	if _, err := FromSlice[int](nil); !errors.Is(err, apierr.ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection for nil, got %v", err)
	}
}

func TestSingleElementFirst(t *testing.T) {
	s, err := FromSlice([]string{"a"})
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	if s.First() != "a" || s.Last() != "a" || s.Len() != 1 {
		t.Fatalf("unexpected sequence %v", s.ToSlice())
	}
}

func TestZeroValueIsUnset(t *testing.T) {
	var s Slice[int]
	if !s.IsZero() || s.Len() != 0 || len(s.ToSlice()) != 0 {
		t.Fatalf("zero value should be unset and empty, got len %d %v", s.Len(), s.ToSlice())
	}
	for range s.All() {
		t.Fatal("zero value must not yield elements")
	}
	if Of(0).IsZero() {
		t.Fatal("a built sequence holding a zero element is set")
	}
	grown := s.Append(7, 8)
	if grown.IsZero() || grown.First() != 7 || grown.Len() != 2 {
		t.Fatalf("Append on the zero value should start a sequence, got %v", grown.ToSlice())
	}
	mapped, err := Map(s, func(_ int, v int) (string, error) { return "x", nil })
	if err != nil || !mapped.IsZero() {
		t.Fatalf("Map of the zero value should stay unset, got %v %v", mapped.ToSlice(), err)
	}
}

func TestOrderingAndIteration(t *testing.T) {
	s := Of("a", "b", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, s.ToSlice()); diff != "" {
		t.Fatalf("ToSlice mismatch (-want +got):\n%s", diff)
	}
	var seen []string
	for i, v := range s.All() {
		if s.At(i) != v {
			t.Fatalf("At(%d) = %q, iteration gave %q", i, s.At(i), v)
		}
		seen = append(seen, v)
	}
	if diff := cmp.Diff(s.ToSlice(), seen); diff != "" {
		t.Fatalf("iteration mismatch (-want +got):\n%s", diff)
	}
	var early []string
	for v := range s.Values() {
		early = append(early, v)
		if v == "b" {
			break
		}
	}
	if len(early) != 2 {
		t.Fatalf("expected early stop after two values, got %v", early)
	}
}

func TestAppendAndReplaceDoNotAlias(t *testing.T) {
	source := []int{1, 2}
	s, _ := FromSlice(source)
	source[1] = 99
	if s.At(1) != 2 {
		t.Fatal("sequence aliased caller slice")
	}

	grown := s.Append(3)
	replaced := grown.Replace(0, 10)
	if diff := cmp.Diff([]int{1, 2}, s.ToSlice()); diff != "" {
		t.Fatalf("Append mutated receiver:\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, grown.ToSlice()); diff != "" {
		t.Fatalf("Replace mutated receiver:\n%s", diff)
	}
	if diff := cmp.Diff([]int{10, 2, 3}, replaced.ToSlice()); diff != "" {
		t.Fatalf("Replace result mismatch:\n%s", diff)
	}
}

func TestMap(t *testing.T) {
	s := Of(1, 2, 3)
	doubled, err := Map(s, func(_ int, v int) (int, error) { return v * 2, nil })
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if diff := cmp.Diff([]int{2, 4, 6}, doubled.ToSlice()); diff != "" {
		t.Fatalf("Map mismatch:\n%s", diff)
	}
	boom := errors.New("boom")
	if _, err := Map(s, func(i int, v int) (int, error) {
		if i == 1 {
			return 0, boom
		}
		return v, nil
	}); !errors.Is(err, boom) {
		t.Fatalf("expected Map to surface error, got %v", err)
	}
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(Of("x", "y"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `["x","y"]` {
		t.Fatalf("unexpected JSON %s", data)
	}
	var decoded Slice[string]
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.First() != "x" || decoded.Len() != 2 {
		t.Fatalf("unexpected decoded sequence %v", decoded.ToSlice())
	}
	for _, input := range []string{`[]`, `null`} {
		if err := json.Unmarshal([]byte(input), &decoded); !errors.Is(err, apierr.ErrEmptyCollection) {
			t.Fatalf("Unmarshal(%s) expected ErrEmptyCollection, got %v", input, err)
		}
	}
}
