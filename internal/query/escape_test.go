package query

import (
	"fmt"
	"testing"
)

func TestEscapeTableCoversEveryByte(t *testing.T) {
	for b := 0; b < 256; b++ {
		c := byte(b)
		var want string
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9',
			c == '*', c == '-', c == '.', c == '_':
			want = string([]byte{c})
		case c == ' ':
			want = "+"
		default:
			want = fmt.Sprintf("%%%02X", c)
		}
		if got := Escape(string([]byte{c})); got != want {
			t.Fatalf("Escape(0x%02x) = %q, want %q", c, got, want)
		}
		if got := Unescape(want); got != string([]byte{c}) {
			t.Fatalf("Unescape(%q) = %q, want 0x%02x", want, got, c)
		}
	}
}

func TestEscapeTokenAlphabet(t *testing.T) {
	cases := map[string]string{
		"30/1":                                 "30%2F1",
		"-30000/1001":                          "-30000%2F1001",
		"f65c8128-e25a-11ec-b486-efa3b8212d7f": "f65c8128-e25a-11ec-b486-efa3b8212d7f",
		"2024-01-02T03:04:05.000000Z":          "2024-01-02T03%3A04%3A05.000000Z",
		"a&b=c":                                "a%26b%3Dc",
		"two words":                            "two+words",
		"plus+sign":                            "plus%2Bsign",
		"tilde~star*":                          "tilde%7Estar*",
		"café":                                 "caf%C3%A9",
	}
	for in, want := range cases {
		if got := Escape(in); got != want {
			t.Errorf("Escape(%q) = %q, want %q", in, got, want)
		}
		if back := Unescape(want); back != in {
			t.Errorf("Unescape(%q) = %q, want %q", want, back, in)
		}
	}
}

func TestUnescapeKeepsMalformedPercent(t *testing.T) {
	cases := map[string]string{
		"100%":   "100%",
		"%zz":    "%zz",
		"%4":     "%4",
		"%4g%41": "%4gA",
		"%2f":    "/",
	}
	for in, want := range cases {
		if got := Unescape(in); got != want {
			t.Errorf("Unescape(%q) = %q, want %q", in, got, want)
		}
	}
}
