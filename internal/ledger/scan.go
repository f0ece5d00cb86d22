package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hylla/internal/catalog"
)

const recordColumns = "record_id, entity_id, actor_id, field_name, old_value, new_value, entity_version_after, created_at"

// Filter narrows Scan output. Zero fields are unbounded; the time range is
// inclusive on both ends.
type Filter struct {
	EntityID string
	ActorID  string
	From     time.Time
	To       time.Time
}

// Scan returns committed audit records matching the filter, ordered by
// record_id ascending. Records of an in-flight proposal are never visible.
func (s *Store) Scan(ctx context.Context, filter Filter) ([]catalog.AuditRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM audit_log WHERE 1=1`
	var args []any

	if id := strings.TrimSpace(filter.EntityID); id != "" {
		query += ` AND entity_id = ?`
		args = append(args, id)
	}
	if actor := strings.TrimSpace(filter.ActorID); actor != "" {
		query += ` AND actor_id = ?`
		args = append(args, actor)
	}
	if !filter.From.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, formatTime(filter.From))
	}
	if !filter.To.IsZero() {
		query += ` AND created_at <= ?`
		args = append(args, formatTime(filter.To))
	}
	query += ` ORDER BY record_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan audit log: %w", err)
	}
	defer rows.Close()

	var records []catalog.AuditRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// LedgerVersion returns the number of committed audit records for an entry.
// Equal to the entry's version whenever store and ledger agree.
func (s *Store) LedgerVersion(ctx context.Context, entityID string) (int64, error) {
	var count int64
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM audit_log WHERE entity_id = ?`, entityID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("ledger version: %w", err)
	}
	return count, nil
}

// RecordsAfter returns an entry's audit records with entity_version_after
// greater than version, in replay order.
func (s *Store) RecordsAfter(ctx context.Context, entityID string, version int64) ([]catalog.AuditRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM audit_log WHERE entity_id = ? AND entity_version_after > ? ORDER BY record_id`,
		entityID,
		version,
	)
	if err != nil {
		return nil, fmt.Errorf("records after: %w", err)
	}
	defer rows.Close()

	var records []catalog.AuditRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ApplyRecords replays audit records forward into an entry's current state
// in a single transaction. Each step is guarded so the entry must sit at
// exactly record.EntityVersionAfter-1 when the record applies; replay never
// moves an entry backwards or skips a version.
func (s *Store) ApplyRecords(ctx context.Context, entityID string, records []catalog.AuditRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replay tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := formatTime(time.Now().UTC())
	for _, record := range records {
		if record.EntityID != entityID {
			return catalog.Errorf(catalog.ErrValidation, "record %d belongs to entry %s, not %s", record.RecordID, record.EntityID, entityID)
		}
		res, err := tx.ExecContext(
			ctx,
			`UPDATE entries SET `+fieldColumn(record.Field)+` = ?, version = ?, updated_at = ? WHERE id = ? AND version = ?`,
			fieldArgument(record.Field, record.NewValue),
			record.EntityVersionAfter,
			now,
			entityID,
			record.EntityVersionAfter-1,
		)
		if err != nil {
			return fmt.Errorf("replay record %d: %w", record.RecordID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return catalog.Errorf(catalog.ErrConflict, "entry %s not at version %d for record %d", entityID, record.EntityVersionAfter-1, record.RecordID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replay: %w", err)
	}
	return nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (catalog.AuditRecord, error) {
	var (
		recordID     int64
		entityID     string
		actorID      string
		fieldName    string
		oldRaw       sql.NullString
		newRaw       sql.NullString
		versionAfter int64
		createdRaw   string
	)

	if err := scanner.Scan(&recordID, &entityID, &actorID, &fieldName, &oldRaw, &newRaw, &versionAfter, &createdRaw); err != nil {
		return catalog.AuditRecord{}, err
	}

	field := catalog.Field(fieldName)
	oldValue, err := catalog.DecodeValue(field, oldRaw.String)
	if err != nil {
		return catalog.AuditRecord{}, fmt.Errorf("record %d: %w", recordID, err)
	}
	newValue, err := catalog.DecodeValue(field, newRaw.String)
	if err != nil {
		return catalog.AuditRecord{}, fmt.Errorf("record %d: %w", recordID, err)
	}

	record := catalog.AuditRecord{
		RecordID:           recordID,
		EntityID:           entityID,
		ActorID:            actorID,
		Field:              field,
		OldValue:           oldValue,
		NewValue:           newValue,
		EntityVersionAfter: versionAfter,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		record.CreatedAt = created
	}
	return record, nil
}
