//go:build unit

package uow

import (
	"testing"
	"time"

	"stayledger/internal/domain/ledgerevent"

	"github.com/stretchr/testify/assert"
)

func TestEncodeBlock(t *testing.T) {
	payloads := []ledgerevent.Payload{
		ledgerevent.DisputeResolvedByGuest{BookingID: 3},
		ledgerevent.BookingCompleted{BookingID: 3, HostPayout: 291, PlatformFee: 9, SettledOnLedger: true},
	}

	events := encodeBlock(12, payloads)

	assert.Len(t, events, 2)
	assert.Equal(t, ledgerevent.NameDisputeResolvedByGuest, events[0].Name)
	assert.Equal(t, 0, events[0].TxIndex)
	assert.Equal(t, 1, events[1].TxIndex)
	assert.Equal(t, int64(12), events[1].Height)
	assert.Equal(t, events[0].TxID, events[1].TxID)
	assert.Len(t, events[0].TxID, 66)
	assert.Equal(t, "291", events[1].Args["hostPayout"])
}

func TestTxID(t *testing.T) {
	events := encodeBlock(1, []ledgerevent.Payload{ledgerevent.DisputeEscalated{BookingID: 1}})

	assert.Equal(t, TxID(1, events), TxID(1, events))
	assert.NotEqual(t, TxID(1, events), TxID(2, events))

	other := encodeBlock(1, []ledgerevent.Payload{ledgerevent.DisputeEscalated{BookingID: 2}})
	assert.NotEqual(t, events[0].TxID, other[0].TxID)
}

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := 0; attempt < 3; attempt++ {
		wait := calculateBackoff(attempt, base)
		floor := time.Duration(1<<attempt) * base
		assert.GreaterOrEqual(t, wait, floor)
		assert.Less(t, wait, floor+floor/5+time.Nanosecond)
	}
}
