package booking

import (
	"encoding/hex"
	"strings"
	"time"
)

const Day = 24 * time.Hour

// Address identifies a party on the ledger. Stored lowercase.
type Address struct {
	value string
}

func NewAddress(s string) (Address, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return Address{}, ErrInvalidAddress
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return Address{}, ErrInvalidAddress
	}
	zero := true
	for _, b := range raw {
		if b != 0 {
			zero = false
			break
		}
	}
	if zero {
		return Address{}, ErrInvalidAddress
	}
	return Address{value: s}, nil
}

// MustAddress is for constants and tests.
func MustAddress(s string) Address {
	a, err := NewAddress(s)
	if err != nil {
		panic("booking: invalid address " + s)
	}
	return a
}

func (a Address) String() string       { return a.value }
func (a Address) IsZero() bool         { return a.value == "" }
func (a Address) Equal(o Address) bool { return a.value == o.value }

// Amount is a non-negative quantity in the settlement token's base unit.
type Amount struct {
	units int64
}

func NewAmount(units int64) (Amount, error) {
	if units < 0 {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{units: units}, nil
}

func (a Amount) Units() int64 { return a.units }
func (a Amount) IsZero() bool { return a.units == 0 }

func (a Amount) Add(o Amount) Amount { return Amount{units: a.units + o.units} }

func (a Amount) Sub(o Amount) Amount {
	if o.units > a.units {
		return Amount{}
	}
	return Amount{units: a.units - o.units}
}

// Stay is the booked [checkIn, checkOut) interval, a whole number of days long.
type Stay struct {
	checkIn  time.Time
	checkOut time.Time
}

// NewStay truncates both instants to whole seconds, the ledger's time resolution.
func NewStay(checkIn, checkOut time.Time) (Stay, error) {
	checkIn = checkIn.UTC().Truncate(time.Second)
	checkOut = checkOut.UTC().Truncate(time.Second)
	if checkIn.IsZero() || !checkOut.After(checkIn) {
		return Stay{}, ErrInvalidDateRange
	}
	if checkOut.Sub(checkIn)%Day != 0 {
		return Stay{}, ErrInvalidDateRange
	}
	return Stay{checkIn: checkIn, checkOut: checkOut}, nil
}

func (s Stay) CheckIn() time.Time  { return s.checkIn }
func (s Stay) CheckOut() time.Time { return s.checkOut }
func (s Stay) IsZero() bool        { return s.checkIn.IsZero() }

func (s Stay) Nights() int64 {
	return int64(s.checkOut.Sub(s.checkIn) / Day)
}

// Overlaps uses half-open intervals, so back-to-back stays do not conflict.
func (s Stay) Overlaps(o Stay) bool {
	return s.checkIn.Before(o.checkOut) && s.checkOut.After(o.checkIn)
}

// PaymentChannel fixes the settlement path for the lifetime of a booking.
type PaymentChannel string

const (
	ChannelOnLedger PaymentChannel = "on_ledger"
	ChannelOffChain PaymentChannel = "off_chain"
)

func (c PaymentChannel) IsValid() bool {
	return c == ChannelOnLedger || c == ChannelOffChain
}
