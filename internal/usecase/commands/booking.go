package commands

//go:generate mockgen -destination=../../../tests/mock/commands/booking.go -package=commandsmock stayledger/internal/usecase/commands BookingCommands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/infra"
	"stayledger/internal/pkg/errs"
	"stayledger/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	createBookingEndpoint = "POST /bookings"
	idempotencyTTL        = 24 * time.Hour
)

var (
	ErrIdempotencyInProgress  = errs.New("idempotency in progress")
	ErrIdempotencyKeyReused   = errs.New("idempotency key reused with a different request")
	ErrIdempotencyCheckFailed = errs.New("idempotency check failed")
)

type CreateBookingInput struct {
	PropertyID       string                 `json:"property_id"`
	Guest            booking.Address        `json:"-"`
	CheckIn          time.Time              `json:"check_in"`
	CheckOut         time.Time              `json:"check_out"`
	Channel          booking.PaymentChannel `json:"channel"`
	PaymentReference string                 `json:"payment_reference"`
	// IdempotencyKey is optional; uuid.Nil disables replay protection.
	IdempotencyKey uuid.UUID `json:"-"`
}

type BookingResult struct {
	Booking *booking.Booking
	Receipt *shared.Receipt
	// Replayed is set when the result comes from an earlier request with the
	// same Idempotency-Key.
	Replayed bool
}

// IdempotencyRepository claims keys outside the ledger block.
type IdempotencyRepository interface {
	TryInsert(ctx context.Context, key uuid.UUID, caller, endpoint, requestHash string, now, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key uuid.UUID, caller string) (*shared.IdempotencyRecord, error)
	Release(ctx context.Context, key uuid.UUID, caller string) error
}

// LedgerReads rebuilds a completed request's result from the ledger.
type LedgerReads interface {
	ReadBooking(ctx context.Context, id int64) (*shared.BookingSnapshot, error)
	QueryEvents(ctx context.Context, from, to int64) ([]ledgerevent.Event, error)
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*BookingResult, error)
	Transition(ctx context.Context, id int64, cmd booking.Command) (*BookingResult, error)
}

type bookingCommandsImpl struct {
	uow             shared.UnitOfWork
	idempotencyRepo IdempotencyRepository
	ledger          LedgerReads
	lifecycle       *booking.Lifecycle
	logger          *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	idempotencyRepo IdempotencyRepository,
	ledger LedgerReads,
	lifecycle *booking.Lifecycle,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:             uow,
		idempotencyRepo: idempotencyRepo,
		ledger:          ledger,
		lifecycle:       lifecycle,
		logger:          logger,
	}
}

// CreateBooking records a new booking. With an IdempotencyKey, a retry of a
// completed request returns the original booking and block instead of
// booking again.
func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, in CreateBookingInput) (*BookingResult, error) {
	if in.IdempotencyKey == uuid.Nil {
		return c.createBooking(ctx, in)
	}

	caller := in.Guest.String()
	replayed, err := c.handleIdempotency(ctx, in.IdempotencyKey, caller, calculateRequestHash(in))
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}

	result, err := c.createBooking(ctx, in)
	if err != nil {
		if releaseErr := c.idempotencyRepo.Release(ctx, in.IdempotencyKey, caller); releaseErr != nil {
			c.logger.Warn("failed to release idempotency key",
				"idempotency_key", in.IdempotencyKey.String(),
				"error", releaseErr.Error())
		}
		return nil, err
	}
	return result, nil
}

func (c *bookingCommandsImpl) handleIdempotency(ctx context.Context, key uuid.UUID, caller, requestHash string) (*BookingResult, error) {
	now := c.lifecycle.Clock.Now()
	claimed, err := c.idempotencyRepo.TryInsert(ctx, key, caller, createBookingEndpoint, requestHash, now, now.Add(idempotencyTTL))
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, nil
	}

	existing, err := c.idempotencyRepo.Get(ctx, key, caller)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if existing.RequestHash != requestHash {
		return nil, ErrIdempotencyKeyReused
	}

	switch existing.Status {
	case shared.IdempotencyCompleted:
		return c.replay(ctx, existing)
	case shared.IdempotencyProcessing:
		return nil, ErrIdempotencyInProgress
	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

// replay reads the booking as it is now and the block that created it.
func (c *bookingCommandsImpl) replay(ctx context.Context, rec *shared.IdempotencyRecord) (*BookingResult, error) {
	snap, err := c.ledger.ReadBooking(ctx, rec.ResultBookingID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrLedgerUnavailable)
	}
	events, err := c.ledger.QueryEvents(ctx, rec.ResultHeight, rec.ResultHeight)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrLedgerUnavailable)
	}
	receipt := &shared.Receipt{Height: rec.ResultHeight, Events: events}
	if len(events) > 0 {
		receipt.TxID = events[0].TxID
	}

	c.logger.Info("booking create replayed",
		"booking_id", rec.ResultBookingID,
		"idempotency_key", rec.Key.String(),
		"height", rec.ResultHeight)
	return &BookingResult{Booking: snap.Booking, Receipt: receipt, Replayed: true}, nil
}

func calculateRequestHash(in CreateBookingInput) string {
	data, _ := json.Marshal(in)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// createBooking holds the property row lock across the overlap check and the
// insert, so two blocks can never both claim the same nights.
func (c *bookingCommandsImpl) createBooking(ctx context.Context, in CreateBookingInput) (*BookingResult, error) {
	stay, err := booking.NewStay(in.CheckIn, in.CheckOut)
	if err != nil {
		return nil, err
	}

	var created *booking.Booking
	receipt, err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		prop, err := tx.Properties().FindForUpdate(ctx, in.PropertyID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return booking.ErrInvalidProperty
			}
			return err
		}

		existing, err := tx.Bookings().ListHoldingDates(ctx, prop.ID())
		if err != nil {
			return err
		}
		id, err := tx.Bookings().NextID(ctx)
		if err != nil {
			return err
		}

		created, err = c.lifecycle.Create(booking.CreateParams{
			ID:               id,
			Property:         prop.Spec(),
			Guest:            in.Guest,
			Stay:             stay,
			Channel:          in.Channel,
			PaymentReference: in.PaymentReference,
		}, existing)
		if err != nil {
			return err
		}
		if err := tx.Bookings().Insert(ctx, created); err != nil {
			return err
		}
		if in.IdempotencyKey != uuid.Nil {
			if err := tx.Idempotency().MarkCompleted(ctx, in.IdempotencyKey, in.Guest.String(), id, tx.Height()); err != nil {
				return err
			}
		}
		tx.Emit(created.PullEvents()...)
		return nil
	})
	if err != nil {
		return nil, ledgerError(err, booking.ErrInvalidProperty)
	}

	c.logger.Info("booking created",
		"booking_id", created.ID(),
		"property_id", created.PropertyID(),
		"channel", string(created.Channel()),
		"height", receipt.Height)
	return &BookingResult{Booking: created, Receipt: receipt}, nil
}

// Transition runs one lifecycle transition against the locked booking row.
func (c *bookingCommandsImpl) Transition(ctx context.Context, id int64, cmd booking.Command) (*BookingResult, error) {
	var b *booking.Booking
	receipt, err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		b, err = tx.Bookings().FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := c.lifecycle.Apply(b, cmd); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		tx.Emit(b.PullEvents()...)
		return nil
	})
	if err != nil {
		return nil, ledgerError(err, booking.ErrBookingNotFound)
	}

	c.logger.Info("booking transitioned",
		"booking_id", id,
		"transition", string(cmd.Transition),
		"status", b.Status().String(),
		"height", receipt.Height)
	return &BookingResult{Booking: b, Receipt: receipt}, nil
}
