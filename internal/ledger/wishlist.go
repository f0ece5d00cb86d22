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

const wishColumns = "id, title, year, genre, poster, priority, created_at"

// WishlistAdd inserts a wishlist item.
func (s *Store) WishlistAdd(ctx context.Context, item *catalog.WishItem) (*catalog.WishItem, error) {
	if item == nil || strings.TrimSpace(item.Title) == "" {
		return nil, catalog.Errorf(catalog.ErrValidation, "wishlist title required")
	}
	priority := item.Priority
	if priority == "" {
		priority = catalog.PriorityMedium
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO wishlist (title, year, genre, poster, priority, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(item.Title),
		nullableInt(item.Year),
		nullableString(item.Genre),
		nullableString(item.Poster),
		string(priority),
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert wishlist item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.wishlistGet(ctx, id)
}

// WishlistItems returns the wishlist ordered by priority, then title.
func (s *Store) WishlistItems(ctx context.Context) ([]*catalog.WishItem, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+wishColumns+` FROM wishlist
         ORDER BY CASE priority WHEN 'High' THEN 0 WHEN 'Medium' THEN 1 ELSE 2 END, title COLLATE NOCASE`,
	)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	var items []*catalog.WishItem
	for rows.Next() {
		item, err := scanWishItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// WishlistRemove deletes a wishlist item by identifier.
func (s *Store) WishlistRemove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM wishlist WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete wishlist item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// WishlistPromote moves a wishlist item into the catalog: the new entry is
// created and the wish deleted in one transaction. The entry starts with no
// ownership claims; callers propose those separately so they are audited.
func (s *Store) WishlistPromote(ctx context.Context, id int64) (*catalog.Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin promote tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+wishColumns+` FROM wishlist WHERE id = ?`, id)
	item, err := scanWishItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.Errorf(catalog.ErrNotFound, "wishlist item %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get wishlist item: %w", err)
	}

	entryID := uuid.NewString()
	timestamp := formatTime(time.Now().UTC())
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO entries (
            id, title, year, genre, poster,
            owns_physical, owns_digital, rating, version, integrity_hold,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, 0, 0, NULL, 0, NULL, ?, ?)`,
		entryID,
		item.Title,
		nullableInt(item.Year),
		nullableString(item.Genre),
		nullableString(item.Poster),
		timestamp,
		timestamp,
	); err != nil {
		return nil, fmt.Errorf("promote wishlist item: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM wishlist WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("remove promoted item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit promote: %w", err)
	}

	return s.GetEntry(ctx, entryID)
}

func (s *Store) wishlistGet(ctx context.Context, id int64) (*catalog.WishItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+wishColumns+` FROM wishlist WHERE id = ?`, id)
	item, err := scanWishItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.Errorf(catalog.ErrNotFound, "wishlist item %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get wishlist item: %w", err)
	}
	return item, nil
}

func scanWishItem(scanner interface{ Scan(dest ...any) error }) (*catalog.WishItem, error) {
	var (
		id         int64
		title      string
		year       sql.NullInt64
		genre      sql.NullString
		poster     sql.NullString
		priority   string
		createdRaw string
	)
	if err := scanner.Scan(&id, &title, &year, &genre, &poster, &priority, &createdRaw); err != nil {
		return nil, err
	}
	item := &catalog.WishItem{
		ID:       id,
		Title:    title,
		Year:     int(year.Int64),
		Genre:    genre.String,
		Poster:   poster.String,
		Priority: catalog.Priority(priority),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		item.CreatedAt = created
	}
	return item, nil
}
