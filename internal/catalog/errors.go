package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the store, coordinator, and CLI. Callers
// classify failures with errors.Is; storage I/O failures are wrapped driver
// errors carrying none of these markers and may be retried wholesale.
var (
	// ErrValidation marks input rejected before any write.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a stale expected version; nothing was written and the
	// caller must re-read the entry before retrying.
	ErrConflict = errors.New("version conflict")
	// ErrLedgerConflict marks a duplicate ledger append. It is defensive and
	// unreachable in correct operation; treat it as an invariant violation.
	ErrLedgerConflict = errors.New("duplicate ledger record")
	// ErrIntegrityHold marks an entry whose mutation path is disabled pending
	// operator review.
	ErrIntegrityHold = errors.New("entry under integrity hold")
	// ErrNotFound marks a missing entry or wishlist item.
	ErrNotFound = errors.New("not found")
)

// Errorf tags a formatted message with one of the sentinel markers so the
// detail survives while errors.Is keeps working.
func Errorf(marker error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", marker, fmt.Sprintf(format, args...))
}
