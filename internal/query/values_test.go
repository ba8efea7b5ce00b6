package query

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValuesKeepInsertionOrder(t *testing.T) {
	var v Values
	v.Set("b", "2")
	v.Set("a", "1")
	v.Set("b", "3")
	if diff := cmp.Diff([]string{"b", "a"}, v.Keys()); diff != "" {
		t.Fatalf("Keys mismatch (-want +got):\n%s", diff)
	}
	if got := v.Encode(); got != "b=3&a=1" {
		t.Fatalf("Encode = %q", got)
	}
	v.Del("b")
	if got := v.Encode(); got != "a=1" {
		t.Fatalf("Encode after Del = %q", got)
	}
}

func TestParse(t *testing.T) {
	v, err := Parse("?id=abc&note=a%26b%3Dc&&flag&space=x+y")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := map[string]string{"id": "abc", "note": "a&b=c", "flag": "", "space": "x y"}
	if diff := cmp.Diff(want, v.Map()); diff != "" {
		t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"id", "note", "flag", "space"}, v.Keys()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsDuplicateKeys(t *testing.T) {
	if _, err := Parse("a=1&b=2&a=3"); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	var v Values
	v.Set("id", "5f4d0c2a-8a4e-4c43-9d7e-0a6f3c1b2e9d")
	v.Set("rate", "30/1")
	v.Set("note", "x&y=z 100%")
	back, err := Parse(v.Encode())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(v.Map(), back.Map()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(v.Keys(), back.Keys()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}
