package response

import (
	"time"

	"stayledger/internal/domain/booking"
	"stayledger/internal/usecase/readmodel"

	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID                 int64               `json:"id" copier:"-"`
	PropertyID         string              `json:"property_id"`
	Guest              string              `json:"guest"`
	Host               string              `json:"host"`
	CheckIn            time.Time           `json:"check_in"`
	CheckOut           time.Time           `json:"check_out"`
	TotalAmount        int64               `json:"total_amount"`
	PlatformFee        int64               `json:"platform_fee"`
	HostAmount         int64               `json:"host_amount"`
	Status             string              `json:"status"`
	CheckInWindowStart *time.Time          `json:"check_in_window_start,omitempty"`
	CheckInDeadline    *time.Time          `json:"check_in_deadline,omitempty"`
	DisputeDeadline    *time.Time          `json:"dispute_deadline,omitempty"`
	IsCheckInComplete  bool                `json:"is_check_in_complete"`
	IsResolvedByHost   bool                `json:"is_resolved_by_host"`
	IsResolvedByGuest  bool                `json:"is_resolved_by_guest"`
	DisputeReason      string              `json:"dispute_reason,omitempty"`
	PaidOffChain       bool                `json:"paid_off_chain"`
	PaymentReference   string              `json:"payment_reference,omitempty"`
	Settlement         *SettlementResponse `json:"settlement,omitempty" copier:"-"`
	SyncedHeight       int64               `json:"synced_height,omitempty"`
}

type SettlementResponse struct {
	GuestRefund     int64 `json:"guest_refund"`
	HostPayout      int64 `json:"host_payout"`
	PlatformFee     int64 `json:"platform_fee"`
	SettledOnLedger bool  `json:"settled_on_ledger"`
}

// FromBookingRM renders a projected booking.
func FromBookingRM(rm *readmodel.BookingRM) (*BookingResponse, error) {
	res := &BookingResponse{}
	if err := copier.Copy(res, rm); err != nil {
		return nil, err
	}
	res.ID = rm.LedgerID
	if s := rm.Settlement; s != nil {
		res.Settlement = &SettlementResponse{
			GuestRefund:     s.GuestRefund,
			HostPayout:      s.HostPayout,
			PlatformFee:     s.PlatformFee,
			SettledOnLedger: s.SettledOnLedger,
		}
	}
	return res, nil
}

func FromBookingRMList(rms []readmodel.BookingRM) ([]*BookingResponse, error) {
	res := make([]*BookingResponse, 0, len(rms))
	for i := range rms {
		r, err := FromBookingRM(&rms[i])
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}

// FromBooking renders ledger state straight from a committed write.
func FromBooking(b *booking.Booking) *BookingResponse {
	res := &BookingResponse{
		ID:                 b.ID(),
		PropertyID:         b.PropertyID(),
		Guest:              b.Guest().String(),
		Host:               b.Host().String(),
		CheckIn:            b.Stay().CheckIn(),
		CheckOut:           b.Stay().CheckOut(),
		TotalAmount:        b.TotalAmount().Units(),
		PlatformFee:        b.PlatformFee().Units(),
		HostAmount:         b.HostAmount().Units(),
		Status:             b.Status().String(),
		CheckInWindowStart: optionalTime(b.CheckInWindowStart()),
		CheckInDeadline:    optionalTime(b.CheckInDeadline()),
		DisputeDeadline:    optionalTime(b.DisputeDeadline()),
		IsCheckInComplete:  b.IsCheckInComplete(),
		IsResolvedByHost:   b.IsResolvedByHost(),
		IsResolvedByGuest:  b.IsResolvedByGuest(),
		DisputeReason:      b.DisputeReason(),
		PaidOffChain:       b.PaidOffChain(),
		PaymentReference:   b.PaymentReference(),
	}
	if s := b.Settlement(); s != nil {
		res.Settlement = &SettlementResponse{
			GuestRefund:     s.GuestRefund.Units(),
			HostPayout:      s.HostPayout.Units(),
			PlatformFee:     s.PlatformFee.Units(),
			SettledOnLedger: s.SettledOnLedger,
		}
	}
	return res
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

type BookingWriteResponse struct {
	Booking *BookingResponse `json:"booking"`
	Receipt *ReceiptResponse `json:"receipt"`
}

type BookingListResponse struct {
	Bookings   []*BookingResponse `json:"bookings"`
	NextCursor string             `json:"next_cursor,omitempty"`
}
