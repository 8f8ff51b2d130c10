package booking

import (
	"time"

	"stayledger/internal/domain/ledgerevent"
)

// CheckInWindow and DisputeWindow are fixed for every booking.
const (
	CheckInWindow = 24 * time.Hour
	DisputeWindow = 24 * time.Hour
)

const MissedCheckInReason = "Missed check-in"

type PropertySpec struct {
	ID            string
	Host          Address
	Active        bool
	PricePerNight Amount
}

type Booking struct {
	id                 int64
	propertyID         string
	guest              Address
	host               Address
	stay               Stay
	split              FeeSplit
	status             Status
	checkInWindowStart time.Time
	checkInDeadline    time.Time
	disputeDeadline    time.Time
	isCheckInComplete  bool
	isResolvedByHost   bool
	isResolvedByGuest  bool
	disputeReason      string
	channel            PaymentChannel
	paymentReference   string
	settlement         *Settlement
	createdAt          time.Time
	updatedAt          time.Time

	events []ledgerevent.Payload
}

// State is the persisted shape of a booking.
type State struct {
	ID                 int64
	PropertyID         string
	Guest              Address
	Host               Address
	Stay               Stay
	Split              FeeSplit
	Status             Status
	CheckInWindowStart time.Time
	CheckInDeadline    time.Time
	DisputeDeadline    time.Time
	IsCheckInComplete  bool
	IsResolvedByHost   bool
	IsResolvedByGuest  bool
	DisputeReason      string
	Channel            PaymentChannel
	PaymentReference   string
	Settlement         *Settlement
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func Reconstruct(s State) *Booking {
	var settlement *Settlement
	if s.Settlement != nil {
		cp := *s.Settlement
		settlement = &cp
	}
	return &Booking{
		id:                 s.ID,
		propertyID:         s.PropertyID,
		guest:              s.Guest,
		host:               s.Host,
		stay:               s.Stay,
		split:              s.Split,
		status:             s.Status,
		checkInWindowStart: s.CheckInWindowStart,
		checkInDeadline:    s.CheckInDeadline,
		disputeDeadline:    s.DisputeDeadline,
		isCheckInComplete:  s.IsCheckInComplete,
		isResolvedByHost:   s.IsResolvedByHost,
		isResolvedByGuest:  s.IsResolvedByGuest,
		disputeReason:      s.DisputeReason,
		channel:            s.Channel,
		paymentReference:   s.PaymentReference,
		settlement:         settlement,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
	}
}

func (b *Booking) State() State {
	var settlement *Settlement
	if b.settlement != nil {
		cp := *b.settlement
		settlement = &cp
	}
	return State{
		ID:                 b.id,
		PropertyID:         b.propertyID,
		Guest:              b.guest,
		Host:               b.host,
		Stay:               b.stay,
		Split:              b.split,
		Status:             b.status,
		CheckInWindowStart: b.checkInWindowStart,
		CheckInDeadline:    b.checkInDeadline,
		DisputeDeadline:    b.disputeDeadline,
		IsCheckInComplete:  b.isCheckInComplete,
		IsResolvedByHost:   b.isResolvedByHost,
		IsResolvedByGuest:  b.isResolvedByGuest,
		DisputeReason:      b.disputeReason,
		Channel:            b.channel,
		PaymentReference:   b.paymentReference,
		Settlement:         settlement,
		CreatedAt:          b.createdAt,
		UpdatedAt:          b.updatedAt,
	}
}

func (b *Booking) ID() int64                     { return b.id }
func (b *Booking) PropertyID() string            { return b.propertyID }
func (b *Booking) Guest() Address                { return b.guest }
func (b *Booking) Host() Address                 { return b.host }
func (b *Booking) Stay() Stay                    { return b.stay }
func (b *Booking) TotalAmount() Amount           { return b.split.Total }
func (b *Booking) PlatformFee() Amount           { return b.split.PlatformFee }
func (b *Booking) HostAmount() Amount            { return b.split.HostAmount }
func (b *Booking) Status() Status                { return b.status }
func (b *Booking) CheckInWindowStart() time.Time { return b.checkInWindowStart }
func (b *Booking) CheckInDeadline() time.Time    { return b.checkInDeadline }
func (b *Booking) DisputeDeadline() time.Time    { return b.disputeDeadline }
func (b *Booking) IsCheckInComplete() bool       { return b.isCheckInComplete }
func (b *Booking) IsResolvedByHost() bool        { return b.isResolvedByHost }
func (b *Booking) IsResolvedByGuest() bool       { return b.isResolvedByGuest }
func (b *Booking) DisputeReason() string         { return b.disputeReason }
func (b *Booking) Channel() PaymentChannel       { return b.channel }
func (b *Booking) PaidOffChain() bool            { return b.channel == ChannelOffChain }
func (b *Booking) PaymentReference() string      { return b.paymentReference }
func (b *Booking) Settlement() *Settlement       { return b.settlement }
func (b *Booking) CreatedAt() time.Time          { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time          { return b.updatedAt }

// PullEvents returns the ledger events emitted since the last call, in order.
func (b *Booking) PullEvents() []ledgerevent.Payload {
	out := b.events
	b.events = nil
	return out
}

func (b *Booking) emit(p ledgerevent.Payload) {
	b.events = append(b.events, p)
}

func (b *Booking) createdEvent() ledgerevent.BookingCreated {
	return ledgerevent.BookingCreated{
		BookingID:        b.id,
		PropertyID:       b.propertyID,
		Guest:            b.guest.String(),
		Host:             b.host.String(),
		CheckIn:          b.stay.checkIn,
		CheckOut:         b.stay.checkOut,
		TotalAmount:      b.split.Total.units,
		PlatformFee:      b.split.PlatformFee.units,
		HostAmount:       b.split.HostAmount.units,
		PaidOffChain:     b.PaidOffChain(),
		PaymentReference: b.paymentReference,
	}
}
