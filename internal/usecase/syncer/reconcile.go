package syncer

import (
	"context"
	"time"

	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/pkg/errs"
	"stayledger/internal/pkg/obs"
	"stayledger/internal/usecase/shared"

	"go.opentelemetry.io/otel/attribute"
)

const (
	reconciledBookingKey  = "booking.Reconciled"
	reconciledPropertyKey = "property.Reconciled"
)

// Reconcile re-derives the projection from the ledger's current state for
// scope. Snapshots are upserted at their read height, so a row that poll has
// already moved past is left alone. It does not touch the cursor and may run
// alongside Poll.
func (e *Engine) Reconcile(ctx context.Context, scope shared.Scope) (report *ReconciliationReport, err error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}

	ctx, span := obs.Start(ctx, "syncer.Reconcile", attribute.String("sync.scope", scope.String()))
	defer func() { obs.End(span, err) }()

	started := time.Now()
	report = newReconciliationReport(scope)
	defer func() { report.Duration = time.Since(started) }()

	var propertyIDs []string
	if err := e.call(ctx, func(ctx context.Context) error {
		var err error
		propertyIDs, err = e.ledger.ListPropertyIDs(ctx, scope)
		return err
	}); err != nil {
		return report, errs.Mark(err, errs.ErrLedgerUnavailable)
	}
	for _, id := range propertyIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		changed, err := e.reconcileProperty(ctx, id)
		if done, err := e.tally(report, err, changed, "property_id", id); done {
			return report, err
		}
	}

	var bookingIDs []int64
	if err := e.call(ctx, func(ctx context.Context) error {
		var err error
		bookingIDs, err = e.ledger.ListBookingIDs(ctx, scope)
		return err
	}); err != nil {
		return report, errs.Mark(err, errs.ErrLedgerUnavailable)
	}
	for _, id := range bookingIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		changed, err := e.reconcileBooking(ctx, id)
		if done, err := e.tally(report, err, changed, "booking_id", id); done {
			return report, err
		}
	}

	e.logger.Info("reconcile completed",
		"scope", report.Scope,
		"examined", report.Examined,
		"upserted", report.Upserted,
		"unchanged", report.Unchanged,
		"failed", report.Failed,
		"duration_ms", time.Since(started).Milliseconds())
	return report, nil
}

// tally records one item and reports whether the pass must stop.
func (e *Engine) tally(report *ReconciliationReport, err error, changed bool, key string, id any) (bool, error) {
	report.Examined++
	switch {
	case err != nil && isSystemic(err):
		e.logger.Error("reconcile aborted", key, id, "error", err.Error())
		return true, err
	case err != nil:
		report.Failed++
		e.logger.Warn("reconcile item failed", key, id, "error", err.Error())
	case changed:
		report.Upserted++
	default:
		report.Unchanged++
	}
	return false, nil
}

func (e *Engine) reconcileBooking(ctx context.Context, id int64) (bool, error) {
	snap, err := e.readBooking(ctx, id)
	if err != nil {
		return false, err
	}
	return e.upsertBooking(ctx, reconciledBookingKey, bookingRMFromDomain(snap.Booking, ledgerevent.SnapshotPosition(snap.AsOfHeight)))
}

func (e *Engine) reconcileProperty(ctx context.Context, id string) (bool, error) {
	snap, err := e.readProperty(ctx, id)
	if err != nil {
		return false, err
	}
	return e.upsertProperty(ctx, reconciledPropertyKey, propertyRMFromDomain(snap.Property, ledgerevent.SnapshotPosition(snap.AsOfHeight)))
}

func validateScope(s shared.Scope) error {
	switch s.Kind {
	case shared.ScopeAll:
		return nil
	case shared.ScopeProperty:
		if s.PropertyID == "" {
			return errs.ErrInvalidScope
		}
		return nil
	case shared.ScopeGuest, shared.ScopeHost:
		if s.Party.IsZero() {
			return errs.ErrInvalidScope
		}
		return nil
	default:
		return errs.ErrInvalidScope
	}
}
