//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// LedgerHeight reads the committed ledger head.
func LedgerHeight(t *testing.T, db DBLike) int64 {
	t.Helper()

	var height int64
	err := db.QueryRow(context.Background(), "SELECT height FROM ledger_head WHERE id").Scan(&height)
	require.NoError(t, err)
	return height
}

// CountLedgerEvents counts logged events with the given name, or all events
// when name is empty.
func CountLedgerEvents(t *testing.T, db DBLike, name string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM ledger_events WHERE $1 = '' OR name = $1", name).Scan(&n)
	require.NoError(t, err)
	return n
}

// BookingStatus reads a booking's authoritative status.
func BookingStatus(t *testing.T, db DBLike, id int64) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM bookings WHERE id = $1", id).Scan(&status)
	require.NoError(t, err)
	return status
}

// SeedLedgerHead recreates the single ledger head row at height zero.
func SeedLedgerHead(pool *pgxpool.Pool) error {
	_, err := pool.Exec(context.Background(),
		"INSERT INTO ledger_head (id, height) VALUES (TRUE, 0) ON CONFLICT (id) DO NOTHING")
	return err
}

// ResetDB empties the ledger and rewinds it to height zero.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, `
		TRUNCATE ledger_events, bookings, properties, ledger_head, idempotency_keys RESTART IDENTITY CASCADE;
		ALTER SEQUENCE booking_id_seq RESTART WITH 1;
	`); err != nil {
		return err
	}

	return SeedLedgerHead(pool)
}
