package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hylla/internal/catalog"
)

const entryColumns = "id, title, year, genre, director, cast_names, runtime, plot, poster, media_format, placement, owns_physical, owns_digital, rating, version, integrity_hold, created_at, updated_at"

// CreateEntry inserts a new catalog entry. Audited fields always start at
// their zero state (no ownership, unrated, version 0); ownership claims are
// proposed afterwards so they land in the audit log. When the draft carries
// an ID and an entry with that ID already exists, the existing entry is
// returned unchanged.
func (s *Store) CreateEntry(ctx context.Context, draft *catalog.Entry) (*catalog.Entry, error) {
	if draft == nil || strings.TrimSpace(draft.Title) == "" {
		return nil, catalog.Errorf(catalog.ErrValidation, "entry title required")
	}

	id := strings.TrimSpace(draft.ID)
	if id != "" {
		existing, err := s.GetEntry(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	} else {
		id = uuid.NewString()
	}

	now := time.Now().UTC()
	timestamp := formatTime(now)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO entries (
            id, title, year, genre, director, cast_names, runtime, plot, poster,
            media_format, placement, owns_physical, owns_digital, rating,
            version, integrity_hold, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, NULL, 0, NULL, ?, ?)`,
		id,
		strings.TrimSpace(draft.Title),
		nullableInt(draft.Year),
		nullableString(draft.Genre),
		nullableString(draft.Director),
		nullableString(draft.Cast),
		nullableInt(draft.Runtime),
		nullableString(draft.Plot),
		nullableString(draft.Poster),
		nullableString(draft.MediaFormat),
		nullableString(draft.Placement),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	return s.GetEntry(ctx, id)
}

// GetEntry fetches an entry by identifier, returning nil when absent.
func (s *Store) GetEntry(ctx context.Context, id string) (*catalog.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// FindByTitle returns the first entry whose title matches exactly,
// case-insensitively.
func (s *Store) FindByTitle(ctx context.Context, title string) (*catalog.Entry, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+entryColumns+` FROM entries WHERE title = ? COLLATE NOCASE ORDER BY created_at LIMIT 1`,
		strings.TrimSpace(title),
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by title: %w", err)
	}
	return entry, nil
}

// ListFilter narrows and orders ListEntries output.
type ListFilter struct {
	Search string // matches title, director, or cast
	Genre  string
	Decade int // e.g. 1990 selects years 1990-1999
	Sort   string
}

// ListEntries returns catalog entries matching the filter.
func (s *Store) ListEntries(ctx context.Context, filter ListFilter) ([]*catalog.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE 1=1`
	var args []any

	if search := strings.TrimSpace(filter.Search); search != "" {
		query += ` AND (title LIKE ? OR director LIKE ? OR cast_names LIKE ?)`
		like := "%" + search + "%"
		args = append(args, like, like, like)
	}
	if genre := strings.TrimSpace(filter.Genre); genre != "" {
		query += ` AND genre LIKE ?`
		args = append(args, "%"+genre+"%")
	}
	if filter.Decade > 0 {
		query += ` AND year BETWEEN ? AND ?`
		args = append(args, filter.Decade, filter.Decade+9)
	}

	switch filter.Sort {
	case "title_desc":
		query += ` ORDER BY title COLLATE NOCASE DESC`
	case "year_desc":
		query += ` ORDER BY year DESC, title COLLATE NOCASE`
	case "rating_desc":
		query += ` ORDER BY rating DESC, title COLLATE NOCASE`
	case "genre":
		query += ` ORDER BY genre COLLATE NOCASE, title COLLATE NOCASE`
	default:
		query += ` ORDER BY title COLLATE NOCASE`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*catalog.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpdateDetails persists descriptive metadata for an existing entry. The
// audited fields, version, and integrity hold are untouched; those change
// only through Propose and the reconciler.
func (s *Store) UpdateDetails(ctx context.Context, entry *catalog.Entry) error {
	if entry == nil || entry.ID == "" {
		return catalog.Errorf(catalog.ErrValidation, "entry id required")
	}
	if strings.TrimSpace(entry.Title) == "" {
		return catalog.Errorf(catalog.ErrValidation, "entry title required")
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE entries
         SET title = ?, year = ?, genre = ?, director = ?, cast_names = ?,
             runtime = ?, plot = ?, poster = ?, media_format = ?, placement = ?,
             updated_at = ?
         WHERE id = ?`,
		strings.TrimSpace(entry.Title),
		nullableInt(entry.Year),
		nullableString(entry.Genre),
		nullableString(entry.Director),
		nullableString(entry.Cast),
		nullableInt(entry.Runtime),
		nullableString(entry.Plot),
		nullableString(entry.Poster),
		nullableString(entry.MediaFormat),
		nullableString(entry.Placement),
		formatTime(time.Now().UTC()),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry details: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return catalog.Errorf(catalog.ErrNotFound, "entry %s", entry.ID)
	}
	return nil
}

// RemoveEntry deletes an entry together with its audit records. The two are
// only ever removed as a unit; the foreign key cascade guarantees no history
// survives its entry and no API exists to delete history alone.
func (s *Store) RemoveEntry(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// SetIntegrityHold disables the mutation path for an entry pending operator
// review. Only the reconciler places holds.
func (s *Store) SetIntegrityHold(ctx context.Context, id, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return catalog.Errorf(catalog.ErrValidation, "hold reason required")
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE entries SET integrity_hold = ?, updated_at = ? WHERE id = ?`,
		reason,
		formatTime(time.Now().UTC()),
		id,
	)
	if err != nil {
		return fmt.Errorf("set integrity hold: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return catalog.Errorf(catalog.ErrNotFound, "entry %s", id)
	}
	return nil
}

// ClearIntegrityHold re-enables the mutation path after operator review.
func (s *Store) ClearIntegrityHold(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE entries SET integrity_hold = NULL, updated_at = ? WHERE id = ?`,
		formatTime(time.Now().UTC()),
		id,
	)
	if err != nil {
		return fmt.Errorf("clear integrity hold: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return catalog.Errorf(catalog.ErrNotFound, "entry %s", id)
	}
	return nil
}

// Stats summarizes catalog state for diagnostic output.
type Stats struct {
	Entries      int   `json:"entries"`
	Physical     int   `json:"physical"`
	Digital      int   `json:"digital"`
	Rated        int   `json:"rated"`
	Held         int   `json:"held"`
	AuditRecords int64 `json:"audit_records"`
	Wishlist     int   `json:"wishlist"`
}

// Stats returns aggregate counts across the catalog.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	row := s.db.QueryRowContext(ctx, `
        SELECT COUNT(1),
               COALESCE(SUM(owns_physical), 0),
               COALESCE(SUM(owns_digital), 0),
               COALESCE(SUM(CASE WHEN rating IS NOT NULL THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(CASE WHEN integrity_hold IS NOT NULL THEN 1 ELSE 0 END), 0)
        FROM entries`)
	if err := row.Scan(&stats.Entries, &stats.Physical, &stats.Digital, &stats.Rated, &stats.Held); err != nil {
		return Stats{}, fmt.Errorf("entry stats: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM audit_log`).Scan(&stats.AuditRecords); err != nil {
		return Stats{}, fmt.Errorf("audit stats: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM wishlist`).Scan(&stats.Wishlist); err != nil {
		return Stats{}, fmt.Errorf("wishlist stats: %w", err)
	}
	return stats, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*catalog.Entry, error) {
	var (
		id           string
		title        string
		year         sql.NullInt64
		genre        sql.NullString
		director     sql.NullString
		castNames    sql.NullString
		runtime      sql.NullInt64
		plot         sql.NullString
		poster       sql.NullString
		mediaFormat  sql.NullString
		placement    sql.NullString
		ownsPhysical int
		ownsDigital  int
		rating       sql.NullFloat64
		version      int64
		hold         sql.NullString
		createdRaw   string
		updatedRaw   string
	)

	if err := scanner.Scan(
		&id,
		&title,
		&year,
		&genre,
		&director,
		&castNames,
		&runtime,
		&plot,
		&poster,
		&mediaFormat,
		&placement,
		&ownsPhysical,
		&ownsDigital,
		&rating,
		&version,
		&hold,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &catalog.Entry{
		ID:            id,
		Title:         title,
		Year:          int(year.Int64),
		Genre:         genre.String,
		Director:      director.String,
		Cast:          castNames.String,
		Runtime:       int(runtime.Int64),
		Plot:          plot.String,
		Poster:        poster.String,
		MediaFormat:   mediaFormat.String,
		Placement:     placement.String,
		OwnsPhysical:  ownsPhysical != 0,
		OwnsDigital:   ownsDigital != 0,
		Version:       version,
		IntegrityHold: hold.String,
	}
	if rating.Valid {
		value := rating.Float64
		entry.Rating = &value
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		entry.UpdatedAt = updated
	}
	return entry, nil
}
