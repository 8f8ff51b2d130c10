package shared

import (
	"context"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/domain/property"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn as one ledger block: the block height is allocated first,
	// and the events fn emits are appended at that height when fn succeeds.
	// Serialization failures are retried.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) (*Receipt, error)
}

type Tx interface {
	Properties() PropertyRepository
	Bookings() BookingRepository
	Idempotency() IdempotencyRepository
	// Height is the block height allocated to this unit of work.
	Height() int64
	// Emit queues events for the block in emission order.
	Emit(events ...ledgerevent.Payload)
}

type PropertyRepository interface {
	Insert(ctx context.Context, p *property.Property) error
	Update(ctx context.Context, p *property.Property) error
	// FindForUpdate locks the row until the block commits.
	FindForUpdate(ctx context.Context, id string) (*property.Property, error)
}

type BookingRepository interface {
	NextID(ctx context.Context) (int64, error)
	Insert(ctx context.Context, b *booking.Booking) error
	Update(ctx context.Context, b *booking.Booking) error
	FindForUpdate(ctx context.Context, id int64) (*booking.Booking, error)
	// ListHoldingDates returns the property's bookings that still block dates.
	ListHoldingDates(ctx context.Context, propertyID string) ([]*booking.Booking, error)
}

// IdempotencyRepository records a request's outcome in the same block as the
// write it produced.
type IdempotencyRepository interface {
	MarkCompleted(ctx context.Context, key uuid.UUID, caller string, bookingID, height int64) error
}

// Receipt describes a committed ledger block.
type Receipt struct {
	TxID   string
	Height int64
	Events []ledgerevent.Event
}
