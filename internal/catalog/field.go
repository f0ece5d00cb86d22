package catalog

import "strings"

// Field names an audited entry field. The set is closed: adding a field
// means adding a column, a Value kind, and replay support in the ledger.
type Field string

const (
	FieldOwnsPhysical Field = "owns_physical"
	FieldOwnsDigital  Field = "owns_digital"
	FieldRating       Field = "rating"
)

// Fields lists every audited field in declaration order.
func Fields() []Field {
	return []Field{FieldOwnsPhysical, FieldOwnsDigital, FieldRating}
}

// ParseField resolves user input to a Field, accepting a few CLI-friendly
// aliases.
func ParseField(raw string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "owns_physical", "physical", "disc":
		return FieldOwnsPhysical, nil
	case "owns_digital", "digital", "ripped":
		return FieldOwnsDigital, nil
	case "rating", "score":
		return FieldRating, nil
	default:
		return "", Errorf(ErrValidation, "unknown field %q", raw)
	}
}

// Valid reports whether the field belongs to the audited set.
func (f Field) Valid() bool {
	switch f {
	case FieldOwnsPhysical, FieldOwnsDigital, FieldRating:
		return true
	default:
		return false
	}
}

func (f Field) String() string {
	return string(f)
}
