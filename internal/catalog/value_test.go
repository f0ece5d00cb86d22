package catalog_test

import (
	"errors"
	"math"
	"testing"

	"hylla/internal/catalog"
)

func TestParseValueFlags(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"YES", true},
		{"on", true},
		{"1", true},
		{"false", false},
		{"no", false},
		{"0", false},
	}
	for _, tc := range cases {
		value, err := catalog.ParseValue(catalog.FieldOwnsPhysical, tc.raw)
		if err != nil {
			t.Fatalf("ParseValue(%q) returned error: %v", tc.raw, err)
		}
		got, ok := value.Bool()
		if !ok || got != tc.want {
			t.Fatalf("ParseValue(%q) = %v ok=%v, want %v", tc.raw, got, ok, tc.want)
		}
	}

	if _, err := catalog.ParseValue(catalog.FieldOwnsDigital, "maybe"); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad flag, got %v", err)
	}
}

func TestParseValueRating(t *testing.T) {
	value, err := catalog.ParseValue(catalog.FieldRating, "4.46")
	if err != nil {
		t.Fatalf("ParseValue rating: %v", err)
	}
	score, rated := value.Rating()
	if !rated || score != 4.5 {
		t.Fatalf("expected 4.5 after rounding, got %v rated=%v", score, rated)
	}

	unrated, err := catalog.ParseValue(catalog.FieldRating, "none")
	if err != nil {
		t.Fatalf("ParseValue none: %v", err)
	}
	if _, rated := unrated.Rating(); rated {
		t.Fatal("expected unrated value")
	}

	for _, raw := range []string{"10.1", "-0.5", "eleven", "nan", "inf", "+inf", "-inf"} {
		if _, err := catalog.ParseValue(catalog.FieldRating, raw); !errors.Is(err, catalog.ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", raw, err)
		}
	}
}

func TestValidateForRejectsNonFiniteRating(t *testing.T) {
	for _, score := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := catalog.RatingValue(score).ValidateFor(catalog.FieldRating); !errors.Is(err, catalog.ErrValidation) {
			t.Fatalf("expected ErrValidation for score %v, got %v", score, err)
		}
	}
}

func TestValidateForRejectsTypeMismatch(t *testing.T) {
	if err := catalog.BoolValue(true).ValidateFor(catalog.FieldRating); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("bool value for rating field should fail validation, got %v", err)
	}
	if err := catalog.RatingValue(5).ValidateFor(catalog.FieldOwnsPhysical); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("rating value for flag field should fail validation, got %v", err)
	}
	if err := catalog.Unrated().ValidateFor(catalog.FieldRating); err != nil {
		t.Fatalf("unrated should be a valid rating value, got %v", err)
	}
}

func TestValueTextRoundTrip(t *testing.T) {
	cases := []struct {
		field catalog.Field
		value catalog.Value
	}{
		{catalog.FieldOwnsPhysical, catalog.BoolValue(true)},
		{catalog.FieldOwnsDigital, catalog.BoolValue(false)},
		{catalog.FieldRating, catalog.RatingValue(9.9)},
		{catalog.FieldRating, catalog.Unrated()},
	}
	for _, tc := range cases {
		decoded, err := catalog.DecodeValue(tc.field, tc.value.Text())
		if err != nil {
			t.Fatalf("DecodeValue(%s, %q): %v", tc.field, tc.value.Text(), err)
		}
		if !decoded.Equal(tc.value) {
			t.Fatalf("round trip mismatch for %s: got %v want %v", tc.field, decoded, tc.value)
		}
	}
}

func TestParseField(t *testing.T) {
	for raw, want := range map[string]catalog.Field{
		"physical": catalog.FieldOwnsPhysical,
		"digital":  catalog.FieldOwnsDigital,
		"rating":   catalog.FieldRating,
		"RATING":   catalog.FieldRating,
	} {
		got, err := catalog.ParseField(raw)
		if err != nil || got != want {
			t.Fatalf("ParseField(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}
	if _, err := catalog.ParseField("placement"); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("expected ErrValidation for unaudited field, got %v", err)
	}
}

func TestEntryValue(t *testing.T) {
	score := 7.5
	entry := &catalog.Entry{OwnsPhysical: true, Rating: &score}
	if v := entry.Value(catalog.FieldOwnsPhysical); !v.Equal(catalog.BoolValue(true)) {
		t.Fatalf("owns_physical value = %v", v)
	}
	if v := entry.Value(catalog.FieldOwnsDigital); !v.Equal(catalog.BoolValue(false)) {
		t.Fatalf("owns_digital value = %v", v)
	}
	if v := entry.Value(catalog.FieldRating); !v.Equal(catalog.RatingValue(7.5)) {
		t.Fatalf("rating value = %v", v)
	}
}
