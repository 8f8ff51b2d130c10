//go:build unit || e2e

package builder

import (
	"fmt"
	"time"

	"stayledger/internal/domain/ledgerevent"
)

// EventLog builds ledger events one block at a time, the way the ledger
// appends them: every block gets the next height and a shared tx id.
type EventLog struct {
	height int64
	events []ledgerevent.Event
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

// StartAt makes the next block height+1.
func (l *EventLog) StartAt(height int64) *EventLog {
	l.height = height
	return l
}

// Block appends one block holding payloads in order and returns its events.
func (l *EventLog) Block(payloads ...ledgerevent.Payload) []ledgerevent.Event {
	l.height++
	txID := fmt.Sprintf("0x%064x", l.height)
	out := make([]ledgerevent.Event, 0, len(payloads))
	for i, p := range payloads {
		name, args := ledgerevent.Encode(p)
		out = append(out, ledgerevent.Event{TxID: txID, Name: name, Args: args, Height: l.height, TxIndex: i})
	}
	l.events = append(l.events, out...)
	return out
}

// Raw appends a block with one event outside the rental domain.
func (l *EventLog) Raw(name string, args ledgerevent.Args) ledgerevent.Event {
	l.height++
	e := ledgerevent.Event{TxID: fmt.Sprintf("0x%064x", l.height), Name: ledgerevent.Name(name), Args: args, Height: l.height}
	l.events = append(l.events, e)
	return e
}

func (l *EventLog) Head() int64 { return l.height }

func (l *EventLog) Events() []ledgerevent.Event {
	out := make([]ledgerevent.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Created returns a BookingCreated payload for booking id on prop-1, with
// stays laid end to end so ids never overlap.
func Created(id int64) ledgerevent.BookingCreated {
	checkIn := BaseTime.Add(7*24*time.Hour + time.Duration(id)*3*24*time.Hour)
	return ledgerevent.BookingCreated{
		BookingID:   id,
		PropertyID:  "prop-1",
		Guest:       GuestAddress,
		Host:        HostAddress,
		CheckIn:     checkIn,
		CheckOut:    checkIn.Add(3 * 24 * time.Hour),
		TotalAmount: 300,
		PlatformFee: 9,
		HostAmount:  291,
	}
}
