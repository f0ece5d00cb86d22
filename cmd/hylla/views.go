package main

import (
	"time"

	"hylla/internal/audit"
	"hylla/internal/catalog"
)

type entryView struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Year          int       `json:"year,omitempty"`
	Genre         string    `json:"genre,omitempty"`
	Director      string    `json:"director,omitempty"`
	Cast          string    `json:"cast,omitempty"`
	Runtime       int       `json:"runtime,omitempty"`
	Plot          string    `json:"plot,omitempty"`
	Poster        string    `json:"poster,omitempty"`
	MediaFormat   string    `json:"media_format,omitempty"`
	Placement     string    `json:"placement,omitempty"`
	OwnsPhysical  bool      `json:"owns_physical"`
	OwnsDigital   bool      `json:"owns_digital"`
	Rating        *float64  `json:"rating"`
	Version       int64     `json:"version"`
	IntegrityHold string    `json:"integrity_hold,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func newEntryView(entry *catalog.Entry) entryView {
	return entryView{
		ID:            entry.ID,
		Title:         entry.Title,
		Year:          entry.Year,
		Genre:         entry.Genre,
		Director:      entry.Director,
		Cast:          entry.Cast,
		Runtime:       entry.Runtime,
		Plot:          entry.Plot,
		Poster:        entry.Poster,
		MediaFormat:   entry.MediaFormat,
		Placement:     entry.Placement,
		OwnsPhysical:  entry.OwnsPhysical,
		OwnsDigital:   entry.OwnsDigital,
		Rating:        entry.Rating,
		Version:       entry.Version,
		IntegrityHold: entry.IntegrityHold,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
}

func newEntryViews(entries []*catalog.Entry) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, newEntryView(entry))
	}
	return views
}

type recordView struct {
	RecordID           int64     `json:"record_id"`
	EntityID           string    `json:"entity_id"`
	ActorID            string    `json:"actor_id"`
	Field              string    `json:"field"`
	OldValue           string    `json:"old_value"`
	NewValue           string    `json:"new_value"`
	EntityVersionAfter int64     `json:"entity_version_after"`
	CreatedAt          time.Time `json:"created_at"`
}

func newRecordViews(records []catalog.AuditRecord) []recordView {
	views := make([]recordView, 0, len(records))
	for _, record := range records {
		views = append(views, recordView{
			RecordID:           record.RecordID,
			EntityID:           record.EntityID,
			ActorID:            record.ActorID,
			Field:              record.Field.String(),
			OldValue:           record.OldValue.String(),
			NewValue:           record.NewValue.String(),
			EntityVersionAfter: record.EntityVersionAfter,
			CreatedAt:          record.CreatedAt,
		})
	}
	return views
}

func recordRows(records []catalog.AuditRecord, includeEntity bool, titles map[string]string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := []string{
			record.CreatedAt.Local().Format("2006-01-02 15:04"),
			record.ActorID,
			audit.FormatChange(record),
		}
		if includeEntity {
			label := titles[record.EntityID]
			if label == "" {
				label = record.EntityID
			}
			row = append([]string{label}, row...)
		}
		rows = append(rows, row)
	}
	return rows
}

type wishView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Year      int       `json:"year,omitempty"`
	Genre     string    `json:"genre,omitempty"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

func newWishViews(items []*catalog.WishItem) []wishView {
	views := make([]wishView, 0, len(items))
	for _, item := range items {
		views = append(views, wishView{
			ID:        item.ID,
			Title:     item.Title,
			Year:      item.Year,
			Genre:     item.Genre,
			Priority:  string(item.Priority),
			CreatedAt: item.CreatedAt,
		})
	}
	return views
}
