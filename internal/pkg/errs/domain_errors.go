package errs

import "errors"

// Cross-layer sentinel errors. Usecases Mark infra failures with these so
// handlers and the sync engine can tell systemic failures from rejections.
var (
	// Systemic errors
	ErrLedgerUnavailable     = errors.New("ledger unavailable")
	ErrProjectionUnavailable = errors.New("projection unavailable")

	// Lookup errors
	ErrDuplicateListing = errors.New("property already listed")

	// Sync errors
	ErrSyncNotStarted = errors.New("sync engine not started")
	ErrInvalidScope   = errors.New("invalid reconcile scope")
)

// IsSystemic reports whether err is a retryable infrastructure failure.
func IsSystemic(err error) bool {
	return errors.Is(err, ErrLedgerUnavailable) || errors.Is(err, ErrProjectionUnavailable)
}
