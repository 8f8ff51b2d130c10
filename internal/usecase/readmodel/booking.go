package readmodel

import (
	"time"

	"stayledger/internal/domain/ledgerevent"
)

// BookingRM is the projected copy of a ledger booking. SyncedHeight and
// SyncedIndex name the ledger position the row reflects.
type BookingRM struct {
	LedgerID           int64         `json:"ledger_id"`
	PropertyID         string        `json:"property_id"`
	Guest              string        `json:"guest"`
	Host               string        `json:"host"`
	CheckIn            time.Time     `json:"check_in"`
	CheckOut           time.Time     `json:"check_out"`
	TotalAmount        int64         `json:"total_amount"`
	PlatformFee        int64         `json:"platform_fee"`
	HostAmount         int64         `json:"host_amount"`
	Status             string        `json:"status"`
	CheckInWindowStart *time.Time    `json:"check_in_window_start,omitempty"`
	CheckInDeadline    *time.Time    `json:"check_in_deadline,omitempty"`
	DisputeDeadline    *time.Time    `json:"dispute_deadline,omitempty"`
	IsCheckInComplete  bool          `json:"is_check_in_complete"`
	IsResolvedByHost   bool          `json:"is_resolved_by_host"`
	IsResolvedByGuest  bool          `json:"is_resolved_by_guest"`
	DisputeReason      string        `json:"dispute_reason,omitempty"`
	PaidOffChain       bool          `json:"paid_off_chain"`
	PaymentReference   string        `json:"payment_reference,omitempty"`
	Settlement         *SettlementRM `json:"settlement,omitempty"`
	SyncedHeight       int64         `json:"synced_height"`
	SyncedIndex        int           `json:"synced_index"`
	ProjectedAt        time.Time     `json:"projected_at"`
}

type SettlementRM struct {
	GuestRefund     int64 `json:"guest_refund"`
	HostPayout      int64 `json:"host_payout"`
	PlatformFee     int64 `json:"platform_fee"`
	SettledOnLedger bool  `json:"settled_on_ledger"`
}

func (b *BookingRM) Position() ledgerevent.Position {
	return ledgerevent.Position{Height: b.SyncedHeight, Index: b.SyncedIndex}
}

func (b *BookingRM) At(pos ledgerevent.Position) {
	b.SyncedHeight = pos.Height
	b.SyncedIndex = pos.Index
}

// BookingFilter narrows ListBookings. Empty fields match everything.
type BookingFilter struct {
	Guest      string
	Host       string
	PropertyID string
	Status     string
	AfterID    int64
	Limit      int
}
