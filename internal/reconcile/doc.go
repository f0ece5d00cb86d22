// Package reconcile repairs divergence between entry state and the audit
// ledger after a crash. The ledger is the source of truth: entries lagging
// behind their records are replayed forward, while entries claiming more
// versions than the ledger can account for are frozen under an integrity
// hold for an operator to inspect.
package reconcile
