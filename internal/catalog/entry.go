package catalog

import (
	"strings"
	"time"
)

// Entry is the current-state row for a catalog item. ID is assigned at
// creation and never changes. Version counts accepted mutations to the
// audited fields and always equals the number of committed audit records
// for the entry.
type Entry struct {
	ID          string
	Title       string
	Year        int
	Genre       string
	Director    string
	Cast        string
	Runtime     int
	Plot        string
	Poster      string
	MediaFormat string
	Placement   string

	OwnsPhysical bool
	OwnsDigital  bool
	Rating       *float64

	Version       int64
	IntegrityHold string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Held reports whether the entry is under an integrity hold. Held entries
// refuse mutations until an operator clears the hold.
func (e *Entry) Held() bool {
	return e != nil && strings.TrimSpace(e.IntegrityHold) != ""
}

// Value returns the current value of an audited field.
func (e *Entry) Value(field Field) Value {
	switch field {
	case FieldOwnsPhysical:
		return BoolValue(e.OwnsPhysical)
	case FieldOwnsDigital:
		return BoolValue(e.OwnsDigital)
	case FieldRating:
		if e.Rating == nil {
			return Unrated()
		}
		return RatingValue(*e.Rating)
	default:
		return Value{}
	}
}

// AuditRecord is one immutable ledger row describing a single accepted
// mutation. RecordID is assigned by the ledger and defines the total order
// across all entries; EntityVersionAfter is contiguous per entry, starting
// at 1.
type AuditRecord struct {
	RecordID           int64
	EntityID           string
	ActorID            string
	Field              Field
	OldValue           Value
	NewValue           Value
	EntityVersionAfter int64
	CreatedAt          time.Time
}

// WishItem is a wishlist row awaiting promotion into the catalog.
type WishItem struct {
	ID        int64
	Title     string
	Year      int
	Genre     string
	Poster    string
	Priority  Priority
	CreatedAt time.Time
}

// Priority orders wishlist items.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ParsePriority normalizes a user-supplied priority, defaulting to Medium.
func ParsePriority(raw string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return PriorityHigh, nil
	case "medium", "":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	default:
		return "", Errorf(ErrValidation, "unknown priority %q", raw)
	}
}
