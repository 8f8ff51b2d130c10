package shared

import (
	"strings"
	"time"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/property"
	"stayledger/internal/pkg/errs"

	"github.com/google/uuid"
)

// BookingSnapshot is ledger state read in one consistent snapshot. AsOfHeight
// is the last block the snapshot includes.
type BookingSnapshot struct {
	Booking    *booking.Booking
	AsOfHeight int64
}

type PropertySnapshot struct {
	Property   *property.Property
	AsOfHeight int64
}

const (
	IdempotencyProcessing = "processing"
	IdempotencyCompleted  = "completed"
)

// IdempotencyRecord is a claimed Idempotency-Key. A completed record names
// the booking and block the original request produced.
type IdempotencyRecord struct {
	Key             uuid.UUID
	Caller          string
	Status          string
	RequestHash     string
	ResultBookingID int64
	ResultHeight    int64
	ExpiresAt       time.Time
}

type ScopeKind string

const (
	ScopeAll      ScopeKind = "all"
	ScopeProperty ScopeKind = "property"
	ScopeGuest    ScopeKind = "guest"
	ScopeHost     ScopeKind = "host"
)

// Scope selects the ledger entities a reconcile pass visits.
type Scope struct {
	Kind       ScopeKind
	PropertyID string
	Party      booking.Address
}

func AllScope() Scope { return Scope{Kind: ScopeAll} }

func PropertyScope(id string) Scope { return Scope{Kind: ScopeProperty, PropertyID: id} }

func GuestScope(a booking.Address) Scope { return Scope{Kind: ScopeGuest, Party: a} }

func HostScope(a booking.Address) Scope { return Scope{Kind: ScopeHost, Party: a} }

func (s Scope) String() string {
	switch s.Kind {
	case ScopeProperty:
		return "property:" + s.PropertyID
	case ScopeGuest, ScopeHost:
		return string(s.Kind) + ":" + s.Party.String()
	default:
		return string(ScopeAll)
	}
}

// ParseScope accepts "all", "property:<id>", "guest:<address>" and "host:<address>".
func ParseScope(s string) (Scope, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == string(ScopeAll) {
		return AllScope(), nil
	}
	kind, value, ok := strings.Cut(s, ":")
	if !ok || value == "" {
		return Scope{}, errs.ErrInvalidScope
	}
	switch ScopeKind(kind) {
	case ScopeProperty:
		return PropertyScope(value), nil
	case ScopeGuest, ScopeHost:
		addr, err := booking.NewAddress(value)
		if err != nil {
			return Scope{}, errs.Mark(err, errs.ErrInvalidScope)
		}
		return Scope{Kind: ScopeKind(kind), Party: addr}, nil
	default:
		return Scope{}, errs.ErrInvalidScope
	}
}
