package converter

import (
	"fmt"

	"stayledger/internal/domain/booking"
	sqlc "stayledger/internal/infra/sqlc/generated"
	"stayledger/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

func BookingToCreateParams(b *booking.Booking) sqlc.CreateBookingParams {
	s := b.State()
	params := sqlc.CreateBookingParams{
		ID:                 s.ID,
		PropertyID:         s.PropertyID,
		Guest:              s.Guest.String(),
		Host:               s.Host.String(),
		CheckIn:            pgconv.TimeToPgtype(s.Stay.CheckIn()),
		CheckOut:           pgconv.TimeToPgtype(s.Stay.CheckOut()),
		TotalAmount:        s.Split.Total.Units(),
		PlatformFee:        s.Split.PlatformFee.Units(),
		HostAmount:         s.Split.HostAmount.Units(),
		Status:             s.Status.String(),
		CheckInWindowStart: pgconv.NullableTime(s.CheckInWindowStart),
		CheckInDeadline:    pgconv.NullableTime(s.CheckInDeadline),
		DisputeDeadline:    pgconv.NullableTime(s.DisputeDeadline),
		IsCheckInComplete:  s.IsCheckInComplete,
		IsResolvedByHost:   s.IsResolvedByHost,
		IsResolvedByGuest:  s.IsResolvedByGuest,
		DisputeReason:      s.DisputeReason,
		PaymentChannel:     string(s.Channel),
		PaymentReference:   s.PaymentReference,
		CreatedAt:          pgconv.TimeToPgtype(s.CreatedAt),
		UpdatedAt:          pgconv.TimeToPgtype(s.UpdatedAt),
	}
	params.GuestRefund, params.HostPayout, params.SettledFee, params.SettledOnLedger = settlementToPgtype(s.Settlement)
	return params
}

// BookingToUpdateParams carries only the columns a transition can change.
func BookingToUpdateParams(b *booking.Booking) sqlc.UpdateBookingStateParams {
	s := b.State()
	params := sqlc.UpdateBookingStateParams{
		ID:                 s.ID,
		Status:             s.Status.String(),
		CheckInWindowStart: pgconv.NullableTime(s.CheckInWindowStart),
		CheckInDeadline:    pgconv.NullableTime(s.CheckInDeadline),
		DisputeDeadline:    pgconv.NullableTime(s.DisputeDeadline),
		IsCheckInComplete:  s.IsCheckInComplete,
		IsResolvedByHost:   s.IsResolvedByHost,
		IsResolvedByGuest:  s.IsResolvedByGuest,
		DisputeReason:      s.DisputeReason,
		UpdatedAt:          pgconv.TimeToPgtype(s.UpdatedAt),
	}
	params.GuestRefund, params.HostPayout, params.SettledFee, params.SettledOnLedger = settlementToPgtype(s.Settlement)
	return params
}

func settlementToPgtype(st *booking.Settlement) (guestRefund, hostPayout, fee pgtype.Int8, onLedger pgtype.Bool) {
	if st == nil {
		return
	}
	return pgconv.NullableInt8(st.GuestRefund.Units(), true),
		pgconv.NullableInt8(st.HostPayout.Units(), true),
		pgconv.NullableInt8(st.PlatformFee.Units(), true),
		pgtype.Bool{Bool: st.SettledOnLedger, Valid: true}
}

func BookingFromModel(m sqlc.Bookings) (*booking.Booking, error) {
	guest, err := booking.NewAddress(m.Guest)
	if err != nil {
		return nil, fmt.Errorf("booking %d guest: %w", m.ID, err)
	}
	host, err := booking.NewAddress(m.Host)
	if err != nil {
		return nil, fmt.Errorf("booking %d host: %w", m.ID, err)
	}
	stay, err := booking.NewStay(pgconv.TimeFromPgtype(m.CheckIn), pgconv.TimeFromPgtype(m.CheckOut))
	if err != nil {
		return nil, fmt.Errorf("booking %d stay: %w", m.ID, err)
	}
	status := booking.Status(m.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("booking %d: unknown status %q", m.ID, m.Status)
	}
	channel := booking.PaymentChannel(m.PaymentChannel)
	if !channel.IsValid() {
		return nil, fmt.Errorf("booking %d: unknown payment channel %q", m.ID, m.PaymentChannel)
	}
	split, err := ToSplit(m.TotalAmount, m.PlatformFee, m.HostAmount)
	if err != nil {
		return nil, fmt.Errorf("booking %d amounts: %w", m.ID, err)
	}

	state := booking.State{
		ID:                 m.ID,
		PropertyID:         m.PropertyID,
		Guest:              guest,
		Host:               host,
		Stay:               stay,
		Split:              split,
		Status:             status,
		CheckInWindowStart: pgconv.TimeFromPgtype(m.CheckInWindowStart),
		CheckInDeadline:    pgconv.TimeFromPgtype(m.CheckInDeadline),
		DisputeDeadline:    pgconv.TimeFromPgtype(m.DisputeDeadline),
		IsCheckInComplete:  m.IsCheckInComplete,
		IsResolvedByHost:   m.IsResolvedByHost,
		IsResolvedByGuest:  m.IsResolvedByGuest,
		DisputeReason:      m.DisputeReason,
		Channel:            channel,
		PaymentReference:   m.PaymentReference,
		CreatedAt:          pgconv.TimeFromPgtype(m.CreatedAt),
		UpdatedAt:          pgconv.TimeFromPgtype(m.UpdatedAt),
	}
	if m.HostPayout.Valid {
		settlement, err := ToSettlement(m.GuestRefund.Int64, m.HostPayout.Int64, m.SettledFee.Int64, m.SettledOnLedger.Bool)
		if err != nil {
			return nil, fmt.Errorf("booking %d settlement: %w", m.ID, err)
		}
		state.Settlement = settlement
	}
	return booking.Reconstruct(state), nil
}

func ToSplit(total, fee, hostAmount int64) (booking.FeeSplit, error) {
	t, err := booking.NewAmount(total)
	if err != nil {
		return booking.FeeSplit{}, err
	}
	f, err := booking.NewAmount(fee)
	if err != nil {
		return booking.FeeSplit{}, err
	}
	h, err := booking.NewAmount(hostAmount)
	if err != nil {
		return booking.FeeSplit{}, err
	}
	return booking.FeeSplit{Total: t, PlatformFee: f, HostAmount: h}, nil
}

func ToSettlement(guestRefund, hostPayout, fee int64, onLedger bool) (*booking.Settlement, error) {
	g, err := booking.NewAmount(guestRefund)
	if err != nil {
		return nil, err
	}
	h, err := booking.NewAmount(hostPayout)
	if err != nil {
		return nil, err
	}
	f, err := booking.NewAmount(fee)
	if err != nil {
		return nil, err
	}
	return &booking.Settlement{GuestRefund: g, HostPayout: h, PlatformFee: f, SettledOnLedger: onLedger}, nil
}
