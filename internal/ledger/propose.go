package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hylla/internal/catalog"
)

// Propose is the sole mutation path for audited fields. It validates the
// value, checks the caller's expected version, and — for a genuine change —
// commits the entry update and exactly one audit record in a single
// transaction. Proposals that match the current value are no-ops: the
// current entry is returned and nothing is appended, because a mutation
// that changes nothing is not audit-worthy.
//
// Callers losing the version race receive ErrConflict with nothing written;
// they must re-read the entry and decide whether to retry. Retrying a
// proposal after a transient storage failure is safe: a retry whose
// proposal already landed re-fails on the stale expected version.
func (s *Store) Propose(ctx context.Context, entityID, actorID string, field catalog.Field, value catalog.Value, expectedVersion int64) (*catalog.Entry, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, catalog.Errorf(catalog.ErrValidation, "actor id required")
	}
	if err := value.ValidateFor(field); err != nil {
		return nil, err
	}

	entry, err := s.GetEntry(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, catalog.Errorf(catalog.ErrNotFound, "entry %s", entityID)
	}
	if entry.Held() {
		return nil, catalog.Errorf(catalog.ErrIntegrityHold, "entry %s: %s", entityID, entry.IntegrityHold)
	}
	if entry.Version != expectedVersion {
		return nil, catalog.Errorf(catalog.ErrConflict, "entry %s at version %d, expected %d", entityID, entry.Version, expectedVersion)
	}

	oldValue := entry.Value(field)
	if oldValue.Equal(value) {
		return entry, nil
	}

	now := time.Now().UTC()
	newVersion := entry.Version + 1

	// The transaction opens with the guarded UPDATE so the writer lock is
	// taken immediately. A concurrent winner bumps the version first and
	// this statement then matches zero rows; the old value read above can
	// only be stale when the version moved, which the guard catches.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin propose tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(
		ctx,
		`UPDATE entries SET `+fieldColumn(field)+` = ?, version = ?, updated_at = ? WHERE id = ? AND version = ?`,
		fieldArgument(field, value),
		newVersion,
		formatTime(now),
		entityID,
		expectedVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("apply mutation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, catalog.Errorf(catalog.ErrConflict, "entry %s changed concurrently", entityID)
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO audit_log (entity_id, actor_id, field_name, old_value, new_value, entity_version_after, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entityID,
		actorID,
		string(field),
		nullableString(oldValue.Text()),
		nullableString(value.Text()),
		newVersion,
		formatTime(now),
	); err != nil {
		if isUniqueViolation(err) {
			return nil, catalog.Errorf(catalog.ErrLedgerConflict, "entry %s version %d already recorded", entityID, newVersion)
		}
		return nil, fmt.Errorf("append audit record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit propose: %w", err)
	}

	applyValue(entry, field, value)
	entry.Version = newVersion
	entry.UpdatedAt = now
	return entry, nil
}

func fieldColumn(field catalog.Field) string {
	switch field {
	case catalog.FieldOwnsPhysical:
		return "owns_physical"
	case catalog.FieldOwnsDigital:
		return "owns_digital"
	case catalog.FieldRating:
		return "rating"
	default:
		// Unreachable: ValidateFor rejects unknown fields first.
		panic(fmt.Sprintf("ledger: unknown field %q", field))
	}
}

func fieldArgument(field catalog.Field, value catalog.Value) any {
	switch field {
	case catalog.FieldRating:
		if score, rated := value.Rating(); rated {
			return score
		}
		return nil
	default:
		flag, _ := value.Bool()
		return boolToInt(flag)
	}
}

func applyValue(entry *catalog.Entry, field catalog.Field, value catalog.Value) {
	switch field {
	case catalog.FieldOwnsPhysical:
		entry.OwnsPhysical, _ = value.Bool()
	case catalog.FieldOwnsDigital:
		entry.OwnsDigital, _ = value.Bool()
	case catalog.FieldRating:
		if score, rated := value.Rating(); rated {
			entry.Rating = &score
		} else {
			entry.Rating = nil
		}
	}
}
