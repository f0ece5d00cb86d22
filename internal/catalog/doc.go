// Package catalog defines the domain model for the media shelf: catalog
// entries with their descriptive metadata, the audited ownership and rating
// fields, typed field values, and the audit records that make up the ledger.
//
// The audited surface is deliberately narrow. Only owns_physical,
// owns_digital, and rating flow through the mutation coordinator and produce
// audit records; descriptive metadata (title, year, poster, ...) is edited
// directly and carries no history. Validation lives here so every caller —
// CLI, backfill, tests — rejects bad values before anything touches storage.
package catalog
