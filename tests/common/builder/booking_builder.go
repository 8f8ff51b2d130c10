//go:build unit || e2e

package builder

import (
	"time"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/property"
	"stayledger/internal/pkg/clock"
	"stayledger/internal/usecase/readmodel"
)

const (
	HostAddress     = "0x1111111111111111111111111111111111111111"
	GuestAddress    = "0x2222222222222222222222222222222222222222"
	ArbiterAddress  = "0x3333333333333333333333333333333333333333"
	StrangerAddress = "0x4444444444444444444444444444444444444444"
)

// BaseTime is the fixed "now" every builder starts from.
var BaseTime = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

type BookingBuilder struct {
	Clock            *clock.MockClock
	Fees             booking.FeeSchedule
	Arbiter          booking.Address
	ID               int64
	PropertyID       string
	PropertyActive   bool
	Host             booking.Address
	Guest            booking.Address
	PricePerNight    int64
	CheckIn          time.Time
	Nights           int
	Channel          booking.PaymentChannel
	PaymentReference string
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		Clock:          clock.NewMockClock(BaseTime),
		Fees:           booking.DefaultFeeSchedule(),
		Arbiter:        booking.MustAddress(ArbiterAddress),
		ID:             1,
		PropertyID:     "prop-1",
		PropertyActive: true,
		Host:           booking.MustAddress(HostAddress),
		Guest:          booking.MustAddress(GuestAddress),
		PricePerNight:  100,
		CheckIn:        BaseTime.Add(7 * booking.Day),
		Nights:         3,
		Channel:        booking.ChannelOnLedger,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) Lifecycle() *booking.Lifecycle {
	return booking.NewLifecycle(b.Clock, b.Fees, b.Arbiter)
}

func (b *BookingBuilder) PropertySpec() booking.PropertySpec {
	price, _ := booking.NewAmount(b.PricePerNight)
	return booking.PropertySpec{
		ID:            b.PropertyID,
		Host:          b.Host,
		Active:        b.PropertyActive,
		PricePerNight: price,
	}
}

func (b *BookingBuilder) BuildProperty() (*property.Property, error) {
	price, err := booking.NewAmount(b.PricePerNight)
	if err != nil {
		return nil, err
	}
	return property.NewProperty(b.PropertyID, b.Host, price, "ipfs://listing", b.Clock.Now())
}

func (b *BookingBuilder) CreateParams() (booking.CreateParams, error) {
	stay, err := booking.NewStay(b.CheckIn, b.CheckIn.Add(time.Duration(b.Nights)*booking.Day))
	if err != nil {
		return booking.CreateParams{}, err
	}
	return booking.CreateParams{
		ID:               b.ID,
		Property:         b.PropertySpec(),
		Guest:            b.Guest,
		Stay:             stay,
		Channel:          b.Channel,
		PaymentReference: b.PaymentReference,
	}, nil
}

func (b *BookingBuilder) BuildDomain(existing ...*booking.Booking) (*booking.Booking, error) {
	params, err := b.CreateParams()
	if err != nil {
		return nil, err
	}
	return b.Lifecycle().Create(params, existing)
}

// BuildReadModel is the projected row of a freshly created booking.
func (b *BookingBuilder) BuildReadModel() readmodel.BookingRM {
	total := b.PricePerNight * int64(b.Nights)
	fee := total * b.Fees.For(b.Channel).Numerator / b.Fees.For(b.Channel).Denominator
	return readmodel.BookingRM{
		LedgerID:         b.ID,
		PropertyID:       b.PropertyID,
		Guest:            b.Guest.String(),
		Host:             b.Host.String(),
		CheckIn:          b.CheckIn,
		CheckOut:         b.CheckIn.Add(time.Duration(b.Nights) * booking.Day),
		TotalAmount:      total,
		PlatformFee:      fee,
		HostAmount:       total - fee,
		Status:           booking.StatusActive.String(),
		PaidOffChain:     b.Channel == booking.ChannelOffChain,
		PaymentReference: b.PaymentReference,
		SyncedHeight:     b.ID,
		ProjectedAt:      b.Clock.Now(),
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithID(id int64) *BookingBuilder {
	b.ID = id
	return b
}

func (b *BookingBuilder) WithDates(checkIn time.Time, nights int) *BookingBuilder {
	b.CheckIn = checkIn
	b.Nights = nights
	return b
}

func (b *BookingBuilder) WithGuest(guest booking.Address) *BookingBuilder {
	b.Guest = guest
	return b
}

func (b *BookingBuilder) AsOffChain(reference string) *BookingBuilder {
	b.Channel = booking.ChannelOffChain
	b.PaymentReference = reference
	return b
}
