package model

import (
	"fmt"
	"maps"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"vidctl/internal/apierr"
	"vidctl/internal/rational"
)

// Metadata is free-form key/value data attached to a record.
type Metadata map[string]string

// Clone returns an independent copy, or nil when m is empty.
func (m Metadata) Clone() Metadata {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}

func (m Metadata) validate() error {
	for k := range m {
		if strings.TrimSpace(k) == "" {
			return apierr.Invalid("metadata", "keys must not be blank")
		}
	}
	return nil
}

// Resolution is a frame size in pixels, written "WxH".
type Resolution struct {
	Width  uint32
	Height uint32
}

// ParseResolution parses "WxH" with both sides positive.
func ParseResolution(s string) (Resolution, error) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return Resolution{}, fmt.Errorf("bad resolution format: %q", s)
	}
	width, err := strconv.ParseUint(w, 10, 32)
	if err != nil {
		return Resolution{}, fmt.Errorf("bad resolution width: %q", s)
	}
	height, err := strconv.ParseUint(h, 10, 32)
	if err != nil {
		return Resolution{}, fmt.Errorf("bad resolution height: %q", s)
	}
	if width == 0 || height == 0 {
		return Resolution{}, fmt.Errorf("resolution must be positive: %q", s)
	}
	return Resolution{Width: uint32(width), Height: uint32(height)}, nil
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

func (r Resolution) MarshalText() ([]byte, error) {
	if r.Width == 0 || r.Height == 0 {
		return nil, fmt.Errorf("resolution must be positive: %s", r)
	}
	return []byte(r.String()), nil
}

func (r *Resolution) UnmarshalText(text []byte) error {
	parsed, err := ParseResolution(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Crop is the number of pixels removed from each edge, written
// "left:right:top:bottom".
type Crop struct {
	Left   uint32
	Right  uint32
	Top    uint32
	Bottom uint32
}

// ParseCrop parses "left:right:top:bottom".
func ParseCrop(s string) (Crop, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return Crop{}, fmt.Errorf("bad crop format: %q", s)
	}
	var edges [4]uint32
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return Crop{}, fmt.Errorf("failed to parse crop region: %q", s)
		}
		edges[i] = uint32(n)
	}
	return Crop{Left: edges[0], Right: edges[1], Top: edges[2], Bottom: edges[3]}, nil
}

func (c Crop) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", c.Left, c.Right, c.Top, c.Bottom)
}

func (c Crop) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Crop) UnmarshalText(text []byte) error {
	parsed, err := ParseCrop(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// normalizeName trims and NFC-normalizes a display name.
func normalizeName(field, name string) (string, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return "", apierr.Invalid(field, "must not be empty")
	}
	return name, nil
}

func optionalName(field string, name *string) (*string, error) {
	if name == nil {
		return nil, nil
	}
	n, err := normalizeName(field, *name)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// checkRate rejects rate-like values that are not strictly positive.
func checkRate(field string, r *rational.Rational) error {
	if r != nil && !r.IsPositive() {
		return apierr.Invalid(field, fmt.Sprintf("must be positive, got %s", r))
	}
	return nil
}

// checkURI requires an absolute URI with a scheme.
func checkURI(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return apierr.InvalidCause(field, err)
	}
	if !u.IsAbs() {
		return apierr.Invalid(field, fmt.Sprintf("must be an absolute URI, got %q", raw))
	}
	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
