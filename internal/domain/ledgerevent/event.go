package ledgerevent

import (
	"fmt"
	"sort"
)

type Name string

const (
	NamePropertyListed         Name = "PropertyListed"
	NamePropertyStatusChanged  Name = "PropertyStatusChanged"
	NameBookingCreated         Name = "BookingCreated"
	NameCheckInWindowOpened    Name = "CheckInWindowOpened"
	NameCheckedIn              Name = "CheckedIn"
	NameDisputeRaised          Name = "DisputeRaised"
	NameDisputeResolvedByHost  Name = "DisputeResolvedByHost"
	NameDisputeResolvedByGuest Name = "DisputeResolvedByGuest"
	NameDisputeEscalated       Name = "DisputeEscalated"
	NameAdminResolved          Name = "AdminResolved"
	NameBookingCompleted       Name = "BookingCompleted"
	NameBookingRefunded        Name = "BookingRefunded"
	NameBookingCancelled       Name = "BookingCancelled"
)

// Known reports whether the name belongs to the rental domain. Everything
// else a ledger emits (token transfers, approvals) decodes to Ignored.
func (n Name) Known() bool {
	switch n {
	case NamePropertyListed, NamePropertyStatusChanged,
		NameBookingCreated, NameCheckInWindowOpened, NameCheckedIn,
		NameDisputeRaised, NameDisputeResolvedByHost, NameDisputeResolvedByGuest,
		NameDisputeEscalated, NameAdminResolved,
		NameBookingCompleted, NameBookingRefunded, NameBookingCancelled:
		return true
	default:
		return false
	}
}

func (n Name) String() string {
	return string(n)
}

// Args is the flat argument tuple of a ledger event. Every value is a string:
// integers are decimal, times are Unix seconds, booleans are "true"/"false".
type Args map[string]string

func (a Args) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Event is one immutable entry of the ledger log.
type Event struct {
	TxID    string `json:"tx_id"`
	Name    Name   `json:"name"`
	Args    Args   `json:"args"`
	Height  int64  `json:"height"`
	TxIndex int    `json:"tx_index"`
}

func (e Event) Position() Position {
	return Position{Height: e.Height, Index: e.TxIndex}
}

func (e Event) String() string {
	return fmt.Sprintf("%s@%d.%d(%s)", e.Name, e.Height, e.TxIndex, e.TxID)
}

// Position orders events by (block height, index within the block).
type Position struct {
	Height int64
	Index  int
}

// MaxIndex marks a snapshot taken after every event of its height.
const MaxIndex = 1 << 30

func SnapshotPosition(height int64) Position {
	return Position{Height: height, Index: MaxIndex}
}

func (p Position) Less(o Position) bool {
	if p.Height != o.Height {
		return p.Height < o.Height
	}
	return p.Index < o.Index
}

func SortByPosition(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Position().Less(events[j].Position())
	})
}
