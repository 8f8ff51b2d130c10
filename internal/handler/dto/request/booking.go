package request

import (
	"strings"
	"time"

	"stayledger/internal/domain/booking"
	"stayledger/internal/usecase/commands"
	"stayledger/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	PropertyID string    `json:"property_id" binding:"required,max=64"`
	CheckIn    time.Time `json:"check_in" binding:"required"`
	CheckOut   time.Time `json:"check_out" binding:"required"`
}

func (r CreateBookingRequest) ToInput(guest booking.Address, idempotencyKey uuid.UUID) commands.CreateBookingInput {
	return commands.CreateBookingInput{
		PropertyID:     r.PropertyID,
		Guest:          guest,
		CheckIn:        r.CheckIn,
		CheckOut:       r.CheckOut,
		Channel:        booking.ChannelOnLedger,
		IdempotencyKey: idempotencyKey,
	}
}

// CreateOffChainBookingRequest is submitted by the operator once the guest
// has paid outside the ledger.
type CreateOffChainBookingRequest struct {
	PropertyID       string    `json:"property_id" binding:"required,max=64"`
	Guest            string    `json:"guest" binding:"required"`
	CheckIn          time.Time `json:"check_in" binding:"required"`
	CheckOut         time.Time `json:"check_out" binding:"required"`
	PaymentReference string    `json:"payment_reference" binding:"required,max=128"`
}

func (r CreateOffChainBookingRequest) ToInput() (commands.CreateBookingInput, error) {
	guest, err := booking.NewAddress(r.Guest)
	if err != nil {
		return commands.CreateBookingInput{}, err
	}
	return commands.CreateBookingInput{
		PropertyID:       r.PropertyID,
		Guest:            guest,
		CheckIn:          r.CheckIn,
		CheckOut:         r.CheckOut,
		Channel:          booking.ChannelOffChain,
		PaymentReference: strings.TrimSpace(r.PaymentReference),
	}, nil
}

type AdminResolveRequest struct {
	GuestPercentage *int `json:"guest_percentage" binding:"required,min=0,max=100"`
}

func (r AdminResolveRequest) ToCommand(caller booking.Address) booking.Command {
	return booking.Command{
		Transition:      booking.TransitionAdminResolve,
		Caller:          caller,
		GuestPercentage: *r.GuestPercentage,
	}
}

type ListBookingsQuery struct {
	Guest    string `form:"guest"`
	Host     string `form:"host"`
	Property string `form:"property"`
	Status   string `form:"status"`
	After    string `form:"after"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// ToFilter lowercases addresses to match the projected form.
func (q ListBookingsQuery) ToFilter() queries.BookingListFilter {
	return queries.BookingListFilter{
		Guest:      strings.ToLower(q.Guest),
		Host:       strings.ToLower(q.Host),
		PropertyID: q.Property,
		Status:     q.Status,
	}
}

func (q ListBookingsQuery) Cursor() *queries.Cursor {
	if q.After == "" {
		return nil
	}
	return &queries.Cursor{After: q.After}
}
