package booking

import (
	"math"
	"time"

	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/pkg/clock"
)

type Transition string

const (
	TransitionOpenCheckInWindow    Transition = "open_check_in_window"
	TransitionCheckIn              Transition = "check_in"
	TransitionProcessMissedCheckIn Transition = "process_missed_check_in"
	TransitionHostResolveDispute   Transition = "host_resolve_dispute"
	TransitionGuestResolveDispute  Transition = "guest_resolve_dispute"
	TransitionResolveDispute       Transition = "resolve_dispute"
	TransitionEscalateDispute      Transition = "escalate_dispute"
	TransitionAdminResolve         Transition = "admin_resolve"
	TransitionCancel               Transition = "cancel"
)

func ParseTransition(s string) (Transition, error) {
	t := Transition(s)
	switch t {
	case TransitionOpenCheckInWindow, TransitionCheckIn, TransitionProcessMissedCheckIn,
		TransitionHostResolveDispute, TransitionGuestResolveDispute, TransitionResolveDispute,
		TransitionEscalateDispute, TransitionAdminResolve, TransitionCancel:
		return t, nil
	default:
		return "", ErrUnknownTransition
	}
}

// Command is one caller-initiated transition. GuestPercentage is read by
// AdminResolve only. TransitionResolveDispute picks the host or guest vote
// from the caller.
type Command struct {
	Transition      Transition
	Caller          Address
	GuestPercentage int
}

// Lifecycle evaluates transitions against an injected clock. It holds no
// per-booking state, so one value serves every booking.
type Lifecycle struct {
	Clock   clock.Clock
	Fees    FeeSchedule
	Arbiter Address
}

func NewLifecycle(c clock.Clock, fees FeeSchedule, arbiter Address) *Lifecycle {
	return &Lifecycle{
		Clock:   c,
		Fees:    fees,
		Arbiter: arbiter,
	}
}

// now is truncated to whole seconds so state round-trips through ledger events.
func (l *Lifecycle) now() time.Time {
	return l.Clock.Now().UTC().Truncate(time.Second)
}

type CreateParams struct {
	ID               int64
	Property         PropertySpec
	Guest            Address
	Stay             Stay
	Channel          PaymentChannel
	PaymentReference string
}

// Create validates a new booking against the property and the bookings that
// already exist for it. The caller must hold the property's date index for
// the duration of the check and the insert.
func (l *Lifecycle) Create(p CreateParams, existing []*Booking) (*Booking, error) {
	if p.Property.ID == "" || !p.Property.Active {
		return nil, ErrInvalidProperty
	}
	channel := p.Channel
	if channel == "" {
		channel = ChannelOnLedger
	}
	if !channel.IsValid() {
		return nil, ErrInvalidChannel
	}
	if p.Guest.IsZero() {
		return nil, ErrInvalidAddress
	}
	if channel == ChannelOnLedger && p.Guest.Equal(p.Property.Host) {
		return nil, ErrSelfBooking
	}

	now := l.now()
	if p.Stay.IsZero() || !p.Stay.CheckIn().After(now) {
		return nil, ErrInvalidDateRange
	}

	reference := ""
	if channel == ChannelOffChain {
		if p.PaymentReference == "" {
			return nil, ErrMissingReference
		}
		reference = p.PaymentReference
	}

	for _, other := range existing {
		if other.propertyID != p.Property.ID || !other.status.HoldsDates() {
			continue
		}
		if p.Stay.Overlaps(other.stay) {
			return nil, ErrDateConflict
		}
	}

	nights := p.Stay.Nights()
	price := p.Property.PricePerNight.units
	if nights > 0 && price > math.MaxInt64/nights {
		return nil, ErrInvalidAmount
	}
	total := Amount{units: price * nights}

	b := &Booking{
		id:               p.ID,
		propertyID:       p.Property.ID,
		guest:            p.Guest,
		host:             p.Property.Host,
		stay:             p.Stay,
		split:            l.Fees.For(channel).Split(total),
		status:           StatusActive,
		channel:          channel,
		paymentReference: reference,
		createdAt:        now,
		updatedAt:        now,
	}
	b.emit(b.createdEvent())
	return b, nil
}

// Apply runs one transition. On error the booking is unchanged and nothing is
// emitted.
func (l *Lifecycle) Apply(b *Booking, cmd Command) error {
	now := l.now()
	switch cmd.Transition {
	case TransitionOpenCheckInWindow:
		return b.openCheckInWindow(now)
	case TransitionCheckIn:
		return b.checkIn(cmd.Caller, now)
	case TransitionProcessMissedCheckIn:
		return b.processMissedCheckIn(now)
	case TransitionHostResolveDispute:
		return b.hostResolveDispute(cmd.Caller, now)
	case TransitionGuestResolveDispute:
		return b.guestResolveDispute(cmd.Caller, now)
	case TransitionResolveDispute:
		switch {
		case cmd.Caller.Equal(b.host):
			return b.hostResolveDispute(cmd.Caller, now)
		case cmd.Caller.Equal(b.guest):
			return b.guestResolveDispute(cmd.Caller, now)
		default:
			return ErrNotParty
		}
	case TransitionEscalateDispute:
		return b.escalateDispute(now)
	case TransitionAdminResolve:
		if cmd.Caller.IsZero() || !cmd.Caller.Equal(l.Arbiter) {
			return ErrNotArbiter
		}
		return b.adminResolve(cmd.GuestPercentage, now)
	case TransitionCancel:
		return b.cancel(cmd.Caller, now)
	default:
		return ErrUnknownTransition
	}
}

func (b *Booking) openCheckInWindow(now time.Time) error {
	if b.status != StatusActive {
		return ErrNotActive
	}
	if now.Before(b.stay.checkIn) {
		return ErrTooEarly
	}
	if !b.checkInWindowStart.IsZero() {
		return ErrAlreadyOpened
	}
	b.checkInWindowStart = now
	b.checkInDeadline = now.Add(CheckInWindow)
	b.status = StatusCheckInReady
	b.updatedAt = now
	b.emit(ledgerevent.CheckInWindowOpened{
		BookingID:   b.id,
		WindowStart: b.checkInWindowStart,
		Deadline:    b.checkInDeadline,
	})
	return nil
}

func (b *Booking) checkIn(caller Address, now time.Time) error {
	if !caller.Equal(b.guest) {
		return ErrNotGuest
	}
	if b.status != StatusCheckInReady {
		return ErrNotReady
	}
	if now.After(b.checkInDeadline) {
		return ErrWindowExpired
	}
	b.status = StatusCheckedIn
	b.isCheckInComplete = true
	b.updatedAt = now
	b.emit(ledgerevent.CheckedIn{BookingID: b.id, Guest: b.guest.String()})
	return nil
}

func (b *Booking) processMissedCheckIn(now time.Time) error {
	if b.status != StatusCheckInReady {
		return ErrNotInWindow
	}
	if !now.After(b.checkInDeadline) {
		return ErrWindowNotExpired
	}
	b.status = StatusDisputed
	b.disputeDeadline = now.Add(DisputeWindow)
	b.disputeReason = MissedCheckInReason
	b.updatedAt = now
	b.emit(ledgerevent.DisputeRaised{
		BookingID:       b.id,
		Reason:          b.disputeReason,
		DisputeDeadline: b.disputeDeadline,
	})
	return nil
}

func (b *Booking) hostResolveDispute(caller Address, now time.Time) error {
	if !caller.Equal(b.host) {
		return ErrNotParty
	}
	if err := b.checkDisputeOpen(now); err != nil {
		return err
	}
	b.isResolvedByHost = true
	b.updatedAt = now
	b.emit(ledgerevent.DisputeResolvedByHost{BookingID: b.id})
	b.completeOnConsent(now)
	return nil
}

func (b *Booking) guestResolveDispute(caller Address, now time.Time) error {
	if !caller.Equal(b.guest) {
		return ErrNotParty
	}
	if err := b.checkDisputeOpen(now); err != nil {
		return err
	}
	b.isResolvedByGuest = true
	b.updatedAt = now
	b.emit(ledgerevent.DisputeResolvedByGuest{BookingID: b.id})
	b.completeOnConsent(now)
	return nil
}

func (b *Booking) checkDisputeOpen(now time.Time) error {
	if b.status != StatusDisputed {
		return ErrNotDisputed
	}
	if now.After(b.disputeDeadline) {
		return ErrDisputeExpired
	}
	return nil
}

// completeOnConsent is evaluated after every resolution vote.
func (b *Booking) completeOnConsent(now time.Time) {
	if b.status == StatusDisputed && b.isResolvedByHost && b.isResolvedByGuest {
		b.complete(b.split.HostAmount, Amount{}, now)
	}
}

func (b *Booking) escalateDispute(now time.Time) error {
	if b.status != StatusDisputed {
		return ErrNotDisputed
	}
	if !now.After(b.disputeDeadline) {
		return ErrDisputeWindowOpen
	}
	if b.isResolvedByHost && b.isResolvedByGuest {
		return ErrAlreadyResolved
	}
	b.status = StatusEscalatedToAdmin
	b.updatedAt = now
	b.emit(ledgerevent.DisputeEscalated{BookingID: b.id})
	return nil
}

func (b *Booking) adminResolve(guestPercentage int, now time.Time) error {
	if b.status != StatusEscalatedToAdmin {
		return ErrNotEscalated
	}
	if guestPercentage < 0 || guestPercentage > 100 {
		return ErrInvalidPercentage
	}
	guestShare, hostShare := splitHostAmount(b.split.HostAmount, guestPercentage)
	b.emit(ledgerevent.AdminResolved{
		BookingID:       b.id,
		GuestPercentage: guestPercentage,
		GuestShare:      guestShare.units,
		HostShare:       hostShare.units,
	})
	if guestPercentage == 100 {
		b.status = StatusRefunded
		b.settlement = &Settlement{
			GuestRefund:     guestShare,
			PlatformFee:     b.split.PlatformFee,
			SettledOnLedger: !b.PaidOffChain(),
		}
		b.updatedAt = now
		b.emit(ledgerevent.BookingRefunded{BookingID: b.id, GuestRefund: guestShare.units})
		return nil
	}
	b.complete(hostShare, guestShare, now)
	return nil
}

func (b *Booking) cancel(caller Address, now time.Time) error {
	if !caller.Equal(b.guest) {
		return ErrNotGuest
	}
	if b.status != StatusActive {
		return ErrNotCancellable
	}
	if !now.Before(b.stay.checkIn) {
		return ErrPastCheckIn
	}
	refund := Amount{}
	if !b.PaidOffChain() {
		refund = b.split.HostAmount
	}
	b.status = StatusCancelled
	b.settlement = &Settlement{
		GuestRefund:     refund,
		PlatformFee:     b.split.PlatformFee,
		SettledOnLedger: !b.PaidOffChain(),
	}
	b.updatedAt = now
	b.emit(ledgerevent.BookingCancelled{BookingID: b.id, GuestRefund: refund.units})
	return nil
}

// complete pays out the host and the treasury. Off-chain bookings record the
// same amounts without moving funds.
func (b *Booking) complete(hostPayout, guestRefund Amount, now time.Time) {
	b.status = StatusCompleted
	b.settlement = &Settlement{
		GuestRefund:     guestRefund,
		HostPayout:      hostPayout,
		PlatformFee:     b.split.PlatformFee,
		SettledOnLedger: !b.PaidOffChain(),
	}
	b.updatedAt = now
	b.emit(ledgerevent.BookingCompleted{
		BookingID:       b.id,
		HostPayout:      hostPayout.units,
		PlatformFee:     b.split.PlatformFee.units,
		SettledOnLedger: b.settlement.SettledOnLedger,
	})
}
