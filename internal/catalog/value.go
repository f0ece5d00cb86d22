package catalog

import (
	"math"
	"strconv"
	"strings"
)

// RatingMax is the inclusive upper bound for ratings; the lower bound is 0.
const RatingMax = 10.0

type valueKind int

const (
	kindNone valueKind = iota
	kindBool
	kindRating
)

// Value is the typed payload of an audited field: a boolean for the
// ownership flags, an optional one-decimal score for the rating. The zero
// Value is invalid and fails ValidateFor.
type Value struct {
	kind  valueKind
	flag  bool
	score float64
	rated bool
}

// BoolValue wraps an ownership flag.
func BoolValue(v bool) Value {
	return Value{kind: kindBool, flag: v}
}

// RatingValue wraps a score, rounded to one decimal place. Range checking
// happens in ValidateFor so out-of-range input surfaces as ErrValidation.
func RatingValue(score float64) Value {
	return Value{kind: kindRating, score: math.Round(score*10) / 10, rated: true}
}

// Unrated is the rating value for an entry with no score.
func Unrated() Value {
	return Value{kind: kindRating}
}

// Bool returns the flag and whether the value is boolean-typed.
func (v Value) Bool() (bool, bool) {
	return v.flag, v.kind == kindBool
}

// Rating returns the score and whether a score is present. The second
// result is false both for unrated values and for boolean values.
func (v Value) Rating() (float64, bool) {
	return v.score, v.kind == kindRating && v.rated
}

// Equal reports whether two values carry the same type and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

// ValidateFor checks that the value type-checks against the field and, for
// ratings, that the score is in range.
func (v Value) ValidateFor(field Field) error {
	if !field.Valid() {
		return Errorf(ErrValidation, "unknown field %q", field)
	}
	switch field {
	case FieldRating:
		if v.kind != kindRating {
			return Errorf(ErrValidation, "field %s requires a rating value", field)
		}
		if v.rated {
			if math.IsNaN(v.score) || math.IsInf(v.score, 0) {
				return Errorf(ErrValidation, "rating must be a finite number")
			}
			if v.score < 0 || v.score > RatingMax {
				return Errorf(ErrValidation, "rating %.1f out of range [0.0, %.1f]", v.score, RatingMax)
			}
		}
	default:
		if v.kind != kindBool {
			return Errorf(ErrValidation, "field %s requires a boolean value", field)
		}
	}
	return nil
}

// String renders the value for humans: "true", "7.5", or "unrated".
func (v Value) String() string {
	switch v.kind {
	case kindBool:
		return strconv.FormatBool(v.flag)
	case kindRating:
		if !v.rated {
			return "unrated"
		}
		return strconv.FormatFloat(v.score, 'f', 1, 64)
	default:
		return "invalid"
	}
}

// Text is the canonical storage encoding: "true"/"false" for flags, a
// one-decimal number for scores, and the empty string for unrated.
func (v Value) Text() string {
	if v.kind == kindRating && !v.rated {
		return ""
	}
	return v.String()
}

// DecodeValue rebuilds a Value from its storage encoding.
func DecodeValue(field Field, text string) (Value, error) {
	switch field {
	case FieldOwnsPhysical, FieldOwnsDigital:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, Errorf(ErrValidation, "decode %s value %q", field, text)
		}
		return BoolValue(b), nil
	case FieldRating:
		if text == "" {
			return Unrated(), nil
		}
		score, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, Errorf(ErrValidation, "decode rating value %q", text)
		}
		return RatingValue(score), nil
	default:
		return Value{}, Errorf(ErrValidation, "unknown field %q", field)
	}
}

// ParseValue interprets user input for a field: yes/no style flags for the
// ownership fields, a number or "none" for the rating.
func ParseValue(field Field, raw string) (Value, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	switch field {
	case FieldOwnsPhysical, FieldOwnsDigital:
		switch trimmed {
		case "true", "yes", "on", "1":
			return BoolValue(true), nil
		case "false", "no", "off", "0":
			return BoolValue(false), nil
		default:
			return Value{}, Errorf(ErrValidation, "field %s wants true/false, got %q", field, raw)
		}
	case FieldRating:
		switch trimmed {
		case "", "none", "unrated", "-":
			return Unrated(), nil
		}
		score, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return Value{}, Errorf(ErrValidation, "rating wants a number or none, got %q", raw)
		}
		value := RatingValue(score)
		if err := value.ValidateFor(FieldRating); err != nil {
			return Value{}, err
		}
		return value, nil
	default:
		return Value{}, Errorf(ErrValidation, "unknown field %q", field)
	}
}
