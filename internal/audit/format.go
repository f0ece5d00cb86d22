package audit

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hylla/internal/catalog"
)

var titleCaser = cases.Title(language.English)

// FieldLabel renders a field name for display: "owns_physical" becomes
// "Owns Physical".
func FieldLabel(field catalog.Field) string {
	return titleCaser.String(strings.ReplaceAll(string(field), "_", " "))
}

// FormatChange renders one audit record as a single human-readable line,
// e.g. "Rating: 'unrated' → '7.5'".
func FormatChange(record catalog.AuditRecord) string {
	return fmt.Sprintf("%s: '%s' → '%s'", FieldLabel(record.Field), record.OldValue, record.NewValue)
}

// Summarize renders a record with its context: who, when, what.
func Summarize(record catalog.AuditRecord) string {
	return fmt.Sprintf("#%d %s %s %s",
		record.RecordID,
		record.CreatedAt.Format("2006-01-02 15:04"),
		record.ActorID,
		FormatChange(record),
	)
}
