package timestamp

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"
)

func TestParseNormalizesToUTC(t *testing.T) {
	got, err := Parse("2024-03-01T12:00:00.5+02:00")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.String() != "2024-03-01T10:00:00.500000Z" {
		t.Fatalf("unexpected rendering %s", got)
	}
}

func TestParseRequiresZone(t *testing.T) {
	for _, input := range []string{"2024-03-01T12:00:00", "2024-03-01", "yesterday", ""} {
		if _, err := Parse(input); !errors.Is(err, ErrMalformedTimestamp) {
			t.Fatalf("Parse(%q) expected ErrMalformedTimestamp, got %v", input, err)
		}
	}
}

func TestFixedWidthSortsChronologically(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	instants := []Time{
		From(base.Add(90 * time.Minute)),
		From(base.Add(1500 * time.Millisecond)),
		From(base),
		From(base.Add(time.Microsecond)),
	}
	texts := make([]string, len(instants))
	for i, ts := range instants {
		texts[i] = ts.String()
		if len(texts[i]) != len(Layout) {
			t.Fatalf("expected fixed width rendering, got %q", texts[i])
		}
	}
	sort.Strings(texts)
	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })
	for i := range instants {
		if instants[i].String() != texts[i] {
			t.Fatalf("lexical order diverged at %d: %s vs %s", i, instants[i], texts[i])
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	orig := From(time.Date(2023, 7, 4, 8, 30, 15, 123456789, time.FixedZone("X", -5*3600)))
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2023-07-04T13:30:15.123456Z"` {
		t.Fatalf("unexpected JSON %s", data)
	}
	var decoded Time
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.Equal(orig) {
		t.Fatalf("round trip mismatch %s vs %s", decoded, orig)
	}
}
