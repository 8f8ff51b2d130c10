package commands

import (
	"stayledger/internal/domain/booking"
	"stayledger/internal/infra"
	"stayledger/internal/pkg/errs"
)

// ledgerError translates a failed block into the error callers act on.
// Domain rejections pass through unchanged; notFound replaces a missing row.
func ledgerError(err error, notFound error) error {
	if _, ok := booking.KindOf(err); ok {
		return err
	}
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return notFound
	case infra.IsKind(err, infra.KindConflict):
		return booking.ErrDateConflict
	case infra.IsKind(err, infra.KindDuplicateKey):
		return errs.ErrDuplicateListing
	default:
		return errs.Mark(err, errs.ErrLedgerUnavailable)
	}
}
