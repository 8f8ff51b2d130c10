//go:build unit

package projection_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stayledger/internal/infra"
	"stayledger/internal/infra/projection"
	"stayledger/internal/pkg/clock"
	"stayledger/internal/usecase/readmodel"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func openStore(t *testing.T) (*projection.Store, *clock.MockClock) {
	t.Helper()
	clk := clock.NewMockClock(baseTime)
	s, err := projection.Open(filepath.Join(t.TempDir(), "projection.db"), clk)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, clk
}

func bookingRecord(id int64, height int64, index int) readmodel.BookingRM {
	return readmodel.BookingRM{
		LedgerID:     id,
		PropertyID:   "prop-1",
		Guest:        "0x2222222222222222222222222222222222222222",
		Host:         "0x1111111111111111111111111111111111111111",
		CheckIn:      baseTime.Add(7 * 24 * time.Hour),
		CheckOut:     baseTime.Add(10 * 24 * time.Hour),
		TotalAmount:  300,
		PlatformFee:  9,
		HostAmount:   291,
		Status:       "active",
		SyncedHeight: height,
		SyncedIndex:  index,
	}
}

var ignoreProjectedAt = cmpopts.IgnoreFields(readmodel.BookingRM{}, "ProjectedAt")

func TestStore_UpsertBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("insert then read back", func(t *testing.T) {
		s, _ := openStore(t)
		rec := bookingRecord(1, 3, 0)
		deadline := baseTime.Add(8 * 24 * time.Hour)
		rec.DisputeDeadline = &deadline
		rec.Settlement = &readmodel.SettlementRM{HostPayout: 291, PlatformFee: 9, SettledOnLedger: true}

		changed, err := s.UpsertBooking(ctx, rec)
		require.NoError(t, err)
		assert.True(t, changed)

		got, err := s.FindBookingByLedgerID(ctx, 1)
		require.NoError(t, err)
		if diff := cmp.Diff(rec, *got, ignoreProjectedAt); diff != "" {
			t.Errorf("projected booking mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("same position is a no-op", func(t *testing.T) {
		s, _ := openStore(t)
		rec := bookingRecord(1, 3, 0)
		_, err := s.UpsertBooking(ctx, rec)
		require.NoError(t, err)

		rec.Status = "cancelled"
		changed, err := s.UpsertBooking(ctx, rec)
		require.NoError(t, err)
		assert.False(t, changed)

		got, err := s.FindBookingByLedgerID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "active", got.Status)
	})

	t.Run("older position is rejected", func(t *testing.T) {
		s, _ := openStore(t)
		_, err := s.UpsertBooking(ctx, bookingRecord(1, 5, 2))
		require.NoError(t, err)

		stale := bookingRecord(1, 5, 1)
		stale.Status = "check_in_ready"
		changed, err := s.UpsertBooking(ctx, stale)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("newer position wins", func(t *testing.T) {
		s, _ := openStore(t)
		_, err := s.UpsertBooking(ctx, bookingRecord(1, 5, 2))
		require.NoError(t, err)

		next := bookingRecord(1, 6, 0)
		next.Status = "check_in_ready"
		changed, err := s.UpsertBooking(ctx, next)
		require.NoError(t, err)
		assert.True(t, changed)

		got, err := s.FindBookingByLedgerID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "check_in_ready", got.Status)
		assert.Equal(t, int64(6), got.SyncedHeight)
	})

	t.Run("missing booking", func(t *testing.T) {
		s, _ := openStore(t)
		_, err := s.FindBookingByLedgerID(ctx, 42)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestStore_ListBookings(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t)

	for id := int64(1); id <= 4; id++ {
		rec := bookingRecord(id, id, 0)
		if id%2 == 0 {
			rec.Guest = "0x4444444444444444444444444444444444444444"
		}
		_, err := s.UpsertBooking(ctx, rec)
		require.NoError(t, err)
	}

	all, err := s.ListBookings(ctx, readmodel.BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	byGuest, err := s.ListBookings(ctx, readmodel.BookingFilter{Guest: "0x4444444444444444444444444444444444444444"})
	require.NoError(t, err)
	require.Len(t, byGuest, 2)
	assert.Equal(t, int64(2), byGuest[0].LedgerID)
	assert.Equal(t, int64(4), byGuest[1].LedgerID)

	page, err := s.ListBookings(ctx, readmodel.BookingFilter{AfterID: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(3), page[0].LedgerID)
}

func TestStore_UpsertProperty(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t)

	rec := readmodel.PropertyRM{
		LedgerID:      "prop-1",
		Host:          "0x1111111111111111111111111111111111111111",
		Active:        true,
		PricePerNight: 100,
		SyncedHeight:  1,
	}
	changed, err := s.UpsertProperty(ctx, rec)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.UpsertProperty(ctx, rec)
	require.NoError(t, err)
	assert.False(t, changed)

	rec.Active = false
	rec.SyncedHeight = 2
	changed, err = s.UpsertProperty(ctx, rec)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := s.FindPropertyByLedgerID(ctx, "prop-1")
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, int64(100), got.PricePerNight)

	n, err := s.CountProperties(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_SyncState(t *testing.T) {
	ctx := context.Background()

	t.Run("cursor", func(t *testing.T) {
		s, _ := openStore(t)
		_, ok, err := s.Cursor(ctx, "ledger")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.SetCursor(ctx, "ledger", 10))
		require.NoError(t, s.SetCursor(ctx, "ledger", 12))
		h, ok, err := s.Cursor(ctx, "ledger")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(12), h)
	})

	t.Run("committed set", func(t *testing.T) {
		s, _ := openStore(t)
		rec := readmodel.ProcessedEventRM{Identity: "abc", TxID: "0x01", EventName: "CheckedIn", Height: 3}

		ok, err := s.IsProcessed(ctx, "abc")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.MarkProcessed(ctx, rec))
		require.NoError(t, s.MarkProcessed(ctx, rec))

		ok, err = s.IsProcessed(ctx, "abc")
		require.NoError(t, err)
		assert.True(t, ok)

		n, err := s.CountProcessed(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("prune respects age height and limit", func(t *testing.T) {
		s, _ := openStore(t)
		for i, h := range []int64{1, 2, 3, 9} {
			require.NoError(t, s.MarkProcessed(ctx, readmodel.ProcessedEventRM{
				Identity:  string(rune('a' + i)),
				TxID:      "0x01",
				EventName: "CheckedIn",
				Height:    h,
				AppliedAt: baseTime.Add(time.Duration(i) * time.Minute),
			}))
		}

		// Entry "d" is above the height bound, entry "c" is too young.
		n, err := s.PruneProcessed(ctx, baseTime.Add(2*time.Minute), 5, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		for id, want := range map[string]bool{"a": false, "b": false, "c": true, "d": true} {
			ok, err := s.IsProcessed(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, want, ok, id)
		}
	})

	t.Run("prune limit", func(t *testing.T) {
		s, _ := openStore(t)
		for i := 0; i < 3; i++ {
			require.NoError(t, s.MarkProcessed(ctx, readmodel.ProcessedEventRM{
				Identity:  string(rune('a' + i)),
				Height:    1,
				AppliedAt: baseTime.Add(time.Duration(i) * time.Second),
			}))
		}
		n, err := s.PruneProcessed(ctx, baseTime.Add(time.Hour), 10, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		ok, err := s.IsProcessed(ctx, "a")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
