// Command hylla manages a personal movie collection with an append-only
// ownership audit trail. Every ownership or rating change goes through the
// ledger; history is queryable per entry and per person.
package main
