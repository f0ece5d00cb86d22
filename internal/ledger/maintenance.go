package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// DatabaseHealth reports diagnostic information about the catalog database.
type DatabaseHealth struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	TablesPresent    []string `json:"tables_present"`
	MissingTables    []string `json:"missing_tables"`
	IntegrityCheck   bool     `json:"integrity_check"`
	TotalEntries     int      `json:"total_entries"`
	TotalRecords     int64    `json:"total_records"`
	HeldEntries      int      `json:"held_entries"`
	Error            string   `json:"error,omitempty"`
}

// CheckHealth returns diagnostic information about the catalog database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("catalog database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat catalog database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("catalog database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("catalog database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping catalog database: %w", err)
	}
	health.DatabaseReadable = true

	required := []string{"entries", "audit_log", "wishlist", "schema_migrations"}
	present := make(map[string]struct{}, len(required))
	rows, err := s.db.QueryContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("query table info: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("scan table info: %w", err)
		}
		present[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("iterate table info: %w", err)
	}
	for _, name := range required {
		if _, ok := present[name]; ok {
			health.TablesPresent = append(health.TablesPresent, name)
		} else {
			health.MissingTables = append(health.MissingTables, name)
		}
	}

	if len(health.MissingTables) == 0 {
		row := s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM entries")
		if err := row.Scan(&health.TotalEntries); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count entries: %w", err)
		}
		row = s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM audit_log")
		if err := row.Scan(&health.TotalRecords); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count audit records: %w", err)
		}
		row = s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM entries WHERE integrity_hold IS NOT NULL")
		if err := row.Scan(&health.HeldEntries); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count held entries: %w", err)
		}
	}

	row := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}

// EntryVersions returns every entry's identifier and stored version, for
// the reconciler's divergence sweep.
func (s *Store) EntryVersions(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, version FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("entry versions: %w", err)
	}
	defer rows.Close()

	versions := make(map[string]int64)
	for rows.Next() {
		var (
			id      string
			version int64
		)
		if err := rows.Scan(&id, &version); err != nil {
			return nil, err
		}
		versions[id] = version
	}
	return versions, rows.Err()
}
