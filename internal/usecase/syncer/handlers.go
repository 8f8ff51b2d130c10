package syncer

import (
	"context"
	"fmt"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/infra"
	"stayledger/internal/pkg/errs"
	"stayledger/internal/pkg/obs"
	"stayledger/internal/usecase/readmodel"
	"stayledger/internal/usecase/shared"

	"go.opentelemetry.io/otel/attribute"
)

// handle maps one decoded event onto a projection mutation. Every branch is
// an upsert at the event's position, so re-applying an event is a no-op.
func (e *Engine) handle(ctx context.Context, ev ledgerevent.Event, payload ledgerevent.Payload) (err error) {
	ctx, span := obs.Start(ctx, "syncer.handle",
		attribute.String("event.name", string(ev.Name)),
		attribute.Int64("event.height", ev.Height),
		attribute.Int("event.tx_index", ev.TxIndex))
	defer func() { obs.End(span, err) }()

	pos := ev.Position()
	switch p := payload.(type) {
	case ledgerevent.PropertyListed:
		rec := readmodel.PropertyRM{
			LedgerID:      p.PropertyID,
			Host:          p.Host,
			Active:        true,
			PricePerNight: p.PricePerNight,
			MetadataURI:   p.MetadataURI,
		}
		rec.At(pos)
		return e.applyProperty(ctx, ev, rec)

	case ledgerevent.PropertyStatusChanged:
		return e.mutateProperty(ctx, ev, p.PropertyID, func(r *readmodel.PropertyRM) {
			r.Active = p.Active
		})

	case ledgerevent.BookingCreated:
		return e.applyBooking(ctx, ev, bookingCreatedRM(p, pos))

	case ledgerevent.CheckInWindowOpened:
		return e.mutateBooking(ctx, ev, p.BookingID, func(r *readmodel.BookingRM) {
			r.Status = booking.StatusCheckInReady.String()
			r.CheckInWindowStart = timePtr(p.WindowStart)
			r.CheckInDeadline = timePtr(p.Deadline)
		})

	case ledgerevent.CheckedIn:
		return e.mutateBooking(ctx, ev, p.BookingID, func(r *readmodel.BookingRM) {
			r.Status = booking.StatusCheckedIn.String()
			r.IsCheckInComplete = true
		})

	case ledgerevent.DisputeRaised:
		return e.mutateBooking(ctx, ev, p.BookingID, func(r *readmodel.BookingRM) {
			r.Status = booking.StatusDisputed.String()
			r.DisputeReason = p.Reason
			r.DisputeDeadline = timePtr(p.DisputeDeadline)
		})

	case ledgerevent.DisputeResolvedByHost:
		return e.mutateBooking(ctx, ev, p.BookingID, func(r *readmodel.BookingRM) {
			r.IsResolvedByHost = true
		})

	case ledgerevent.DisputeResolvedByGuest:
		return e.mutateBooking(ctx, ev, p.BookingID, func(r *readmodel.BookingRM) {
			r.IsResolvedByGuest = true
		})

	case ledgerevent.DisputeEscalated:
		return e.mutateBooking(ctx, ev, p.BookingID, func(r *readmodel.BookingRM) {
			r.Status = booking.StatusEscalatedToAdmin.String()
		})

	case ledgerevent.AdminResolved:
		// The settlement arrives with the BookingRefunded or BookingCompleted
		// event that follows in the same block.
		return e.mutateBooking(ctx, ev, p.BookingID, func(*readmodel.BookingRM) {})

	case ledgerevent.BookingCompleted:
		return e.mutateBooking(ctx, ev, p.BookingID, func(r *readmodel.BookingRM) {
			r.Status = booking.StatusCompleted.String()
			r.Settlement = &readmodel.SettlementRM{
				GuestRefund:     max(r.HostAmount-p.HostPayout, 0),
				HostPayout:      p.HostPayout,
				PlatformFee:     p.PlatformFee,
				SettledOnLedger: p.SettledOnLedger,
			}
		})

	case ledgerevent.BookingRefunded:
		return e.mutateBooking(ctx, ev, p.BookingID, func(r *readmodel.BookingRM) {
			r.Status = booking.StatusRefunded.String()
			r.Settlement = &readmodel.SettlementRM{
				GuestRefund:     p.GuestRefund,
				PlatformFee:     r.PlatformFee,
				SettledOnLedger: !r.PaidOffChain,
			}
		})

	case ledgerevent.BookingCancelled:
		return e.mutateBooking(ctx, ev, p.BookingID, func(r *readmodel.BookingRM) {
			r.Status = booking.StatusCancelled.String()
			r.Settlement = &readmodel.SettlementRM{
				GuestRefund:     p.GuestRefund,
				PlatformFee:     r.PlatformFee,
				SettledOnLedger: !r.PaidOffChain,
			}
		})

	case ledgerevent.Ignored:
		return nil

	default:
		return fmt.Errorf("no handler for event %s", ev.Name)
	}
}

// mutateBooking applies fn to the projected booking. A booking missing from
// the projection is rebuilt from the ledger instead.
func (e *Engine) mutateBooking(ctx context.Context, ev ledgerevent.Event, id int64, fn func(*readmodel.BookingRM)) error {
	var rec *readmodel.BookingRM
	err := e.call(ctx, func(ctx context.Context) error {
		var err error
		rec, err = e.projection.FindBookingByLedgerID(ctx, id)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return e.healBooking(ctx, ev, id)
		}
		return errs.Mark(err, errs.ErrProjectionUnavailable)
	}
	fn(rec)
	rec.At(ev.Position())
	return e.applyBooking(ctx, ev, *rec)
}

func (e *Engine) healBooking(ctx context.Context, ev ledgerevent.Event, id int64) error {
	snap, err := e.readBooking(ctx, id)
	if err != nil {
		return err
	}
	e.logger.Info("rebuilding projected booking from ledger", "booking_id", id, "event", ev.Name, "as_of_height", snap.AsOfHeight)
	return e.applyBooking(ctx, ev, bookingRMFromDomain(snap.Booking, ledgerevent.SnapshotPosition(snap.AsOfHeight)))
}

func (e *Engine) mutateProperty(ctx context.Context, ev ledgerevent.Event, id string, fn func(*readmodel.PropertyRM)) error {
	var rec *readmodel.PropertyRM
	err := e.call(ctx, func(ctx context.Context) error {
		var err error
		rec, err = e.projection.FindPropertyByLedgerID(ctx, id)
		return err
	})
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrProjectionUnavailable)
		}
		snap, err := e.readProperty(ctx, id)
		if err != nil {
			return err
		}
		return e.applyProperty(ctx, ev, propertyRMFromDomain(snap.Property, ledgerevent.SnapshotPosition(snap.AsOfHeight)))
	}
	fn(rec)
	rec.At(ev.Position())
	return e.applyProperty(ctx, ev, *rec)
}

func (e *Engine) applyBooking(ctx context.Context, ev ledgerevent.Event, rec readmodel.BookingRM) error {
	_, err := e.upsertBooking(ctx, "booking."+string(ev.Name), rec)
	return err
}

func (e *Engine) applyProperty(ctx context.Context, ev ledgerevent.Event, rec readmodel.PropertyRM) error {
	_, err := e.upsertProperty(ctx, "property."+string(ev.Name), rec)
	return err
}

// upsertBooking publishes rec under key when the projection changed.
func (e *Engine) upsertBooking(ctx context.Context, key string, rec readmodel.BookingRM) (bool, error) {
	var changed bool
	if err := e.call(ctx, func(ctx context.Context) error {
		var err error
		changed, err = e.projection.UpsertBooking(ctx, rec)
		return err
	}); err != nil {
		return false, errs.Mark(err, errs.ErrProjectionUnavailable)
	}
	if changed {
		e.publish(ctx, key, rec)
	}
	return changed, nil
}

func (e *Engine) upsertProperty(ctx context.Context, key string, rec readmodel.PropertyRM) (bool, error) {
	var changed bool
	if err := e.call(ctx, func(ctx context.Context) error {
		var err error
		changed, err = e.projection.UpsertProperty(ctx, rec)
		return err
	}); err != nil {
		return false, errs.Mark(err, errs.ErrProjectionUnavailable)
	}
	if changed {
		e.publish(ctx, key, rec)
	}
	return changed, nil
}

// publish is best effort: a broker failure never fails the event.
func (e *Engine) publish(ctx context.Context, key string, v any) {
	if e.notifier == nil {
		return
	}
	if err := e.call(ctx, func(ctx context.Context) error {
		return e.notifier.PublishJSON(ctx, key, v)
	}); err != nil {
		e.logger.Warn("failed to publish projection change", "key", key, "error", err.Error())
	}
}

// readBooking keeps a ledger NotFound as a per-event failure and marks every
// other ledger error systemic.
func (e *Engine) readBooking(ctx context.Context, id int64) (*shared.BookingSnapshot, error) {
	var snap *shared.BookingSnapshot
	err := e.call(ctx, func(ctx context.Context) error {
		var err error
		snap, err = e.ledger.ReadBooking(ctx, id)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, fmt.Errorf("booking %d unknown to ledger: %w", id, err)
		}
		return nil, errs.Mark(err, errs.ErrLedgerUnavailable)
	}
	return snap, nil
}

func (e *Engine) readProperty(ctx context.Context, id string) (*shared.PropertySnapshot, error) {
	var snap *shared.PropertySnapshot
	err := e.call(ctx, func(ctx context.Context) error {
		var err error
		snap, err = e.ledger.ReadProperty(ctx, id)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, fmt.Errorf("property %s unknown to ledger: %w", id, err)
		}
		return nil, errs.Mark(err, errs.ErrLedgerUnavailable)
	}
	return snap, nil
}
