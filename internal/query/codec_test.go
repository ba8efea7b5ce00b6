package query_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vidctl/internal/apierr"
	"vidctl/internal/ident"
	"vidctl/internal/query"
	"vidctl/internal/rational"
)

type rateParams struct {
	ID   ident.ID          `query:"id"`
	Rate rational.Rational `query:"rate"`
}

type listParams struct {
	Limit    *int              `query:"limit"`
	Name     string            `query:"name,omitempty"`
	Enabled  bool              `query:"enabled,omitempty"`
	Pipeline *ident.ID         `query:"pipeline_id"`
	Rate     *rational.Rational `query:"rate"`
	Skipped  string            `query:"-"`
	internal string
}

func TestRateQueryEndToEnd(t *testing.T) {
	params := rateParams{
		ID:   ident.MustParse("5f4d0c2a-8a4e-4c43-9d7e-0a6f3c1b2e9d"),
		Rate: rational.MustNew(30, 1),
	}
	encoded, err := query.Encode(params)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if encoded != "id=5f4d0c2a-8a4e-4c43-9d7e-0a6f3c1b2e9d&rate=30%2F1" {
		t.Fatalf("unexpected query %q", encoded)
	}
	var decoded rateParams
	if err := query.Decode(encoded, &decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.ID != params.ID || !decoded.Rate.Equal(params.Rate) {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestMarshalSkipsAbsentFields(t *testing.T) {
	limit := 0
	values, err := query.Marshal(&listParams{Limit: &limit, Skipped: "x"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"limit": "0"}, values.Map()); diff != "" {
		t.Fatalf("Marshal mismatch (-want +got):\n%s", diff)
	}
}

func TestScalarValuesRequiringEscapes(t *testing.T) {
	rate := rational.MustNew(60000, 2002)
	in := listParams{Name: "a&b=c d", Enabled: true, Rate: &rate}
	encoded, err := query.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if encoded != "name=a%26b%3Dc+d&enabled=true&rate=30000%2F1001" {
		t.Fatalf("unexpected query %q", encoded)
	}
	var out listParams
	if err := query.Decode(encoded, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Name != in.Name || !out.Enabled || out.Rate == nil || !out.Rate.Equal(rate) || out.Limit != nil {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestCollectionFieldsAreRejected(t *testing.T) {
	cases := map[string]any{
		"tags": struct {
			Tags []string `query:"tags"`
		}{},
		"metadata": struct {
			Metadata map[string]string `query:"metadata"`
		}{Metadata: map[string]string{"k": "v"}},
		"nested": &struct {
			Nested struct{ A int } `query:"nested,omitempty"`
		}{},
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := query.Marshal(v)
			if !errors.Is(err, apierr.ErrUnsupportedQueryField) {
				t.Fatalf("expected ErrUnsupportedQueryField, got %v", err)
			}
			var qerr *apierr.QueryFieldError
			if !errors.As(err, &qerr) || qerr.Field != name {
				t.Fatalf("expected field %q in error, got %v", name, err)
			}
		})
	}
}

func TestUnmarshalErrors(t *testing.T) {
	var p rateParams
	if err := query.Decode("rate=30%2F0", &p); !errors.Is(err, apierr.ErrMalformedNumber) {
		t.Fatalf("expected ErrMalformedNumber, got %v", err)
	}
	if err := query.Decode("id=5F4D0C2A-8A4E-4C43-9D7E-0A6F3C1B2E9D", &p); !errors.Is(err, apierr.ErrMalformedIdentifier) {
		t.Fatalf("expected ErrMalformedIdentifier, got %v", err)
	}
	if err := query.Decode("other=1", &p); !errors.Is(err, query.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if err := query.Decode("id=1", p); err == nil {
		t.Fatal("expected error for non-pointer destination")
	}
}
