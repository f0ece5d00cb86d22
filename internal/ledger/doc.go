// Package ledger persists the catalog in SQLite: current-state entry rows,
// the append-only audit log, and the wishlist.
//
// The Store is the only write path. Audited fields change exclusively
// through Propose, which performs the optimistic version check and commits
// the entry update and the audit append in a single transaction — both land
// or neither does. The audit log has no update or delete surface; records
// leave the database only when their entry is removed, via cascade, as a
// unit. A flock-guarded lock file next to the database keeps concurrent
// processes out while still allowing many in-process callers.
//
// Treat this package as the single source of truth for ledger semantics;
// when you add an audited field, update schema.sql, catalog.Field, and the
// replay switch together.
package ledger
