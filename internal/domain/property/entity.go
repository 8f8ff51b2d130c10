package property

import (
	"strings"
	"time"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/ledgerevent"
)

const (
	MaxIDLength          = 64
	MaxMetadataURILength = 512
)

type Property struct {
	id            string
	host          booking.Address
	active        bool
	pricePerNight booking.Amount
	metadataURI   string
	createdAt     time.Time
	updatedAt     time.Time

	events []ledgerevent.Payload
}

// NewProperty lists a property. A new listing is active.
func NewProperty(id string, host booking.Address, pricePerNight booking.Amount, metadataURI string, now time.Time) (*Property, error) {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > MaxIDLength {
		return nil, booking.ErrInvalidProperty
	}
	if host.IsZero() {
		return nil, booking.ErrInvalidAddress
	}
	if pricePerNight.IsZero() {
		return nil, booking.ErrInvalidAmount
	}
	if len(metadataURI) > MaxMetadataURILength {
		return nil, booking.ErrInvalidProperty
	}
	now = now.UTC().Truncate(time.Second)
	p := &Property{
		id:            id,
		host:          host,
		active:        true,
		pricePerNight: pricePerNight,
		metadataURI:   metadataURI,
		createdAt:     now,
		updatedAt:     now,
	}
	p.events = append(p.events, ledgerevent.PropertyListed{
		PropertyID:    p.id,
		Host:          p.host.String(),
		PricePerNight: p.pricePerNight.Units(),
		MetadataURI:   p.metadataURI,
	})
	return p, nil
}

func Reconstruct(
	id string,
	host booking.Address,
	active bool,
	pricePerNight booking.Amount,
	metadataURI string,
	createdAt, updatedAt time.Time,
) *Property {
	return &Property{
		id:            id,
		host:          host,
		active:        active,
		pricePerNight: pricePerNight,
		metadataURI:   metadataURI,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (p *Property) ID() string                    { return p.id }
func (p *Property) Host() booking.Address         { return p.host }
func (p *Property) Active() bool                  { return p.active }
func (p *Property) PricePerNight() booking.Amount { return p.pricePerNight }
func (p *Property) MetadataURI() string           { return p.metadataURI }
func (p *Property) CreatedAt() time.Time          { return p.createdAt }
func (p *Property) UpdatedAt() time.Time          { return p.updatedAt }

// Spec is the view of the property a booking is created against.
func (p *Property) Spec() booking.PropertySpec {
	return booking.PropertySpec{
		ID:            p.id,
		Host:          p.host,
		Active:        p.active,
		PricePerNight: p.pricePerNight,
	}
}

// SetActive toggles whether the property accepts new bookings. Existing
// bookings are unaffected.
func (p *Property) SetActive(caller booking.Address, active bool, now time.Time) error {
	if !caller.Equal(p.host) {
		return booking.ErrNotHost
	}
	p.active = active
	p.updatedAt = now.UTC().Truncate(time.Second)
	p.events = append(p.events, ledgerevent.PropertyStatusChanged{PropertyID: p.id, Active: active})
	return nil
}

func (p *Property) PullEvents() []ledgerevent.Payload {
	out := p.events
	p.events = nil
	return out
}
