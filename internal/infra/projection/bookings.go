package projection

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"stayledger/internal/infra"
	"stayledger/internal/usecase/readmodel"
)

const bookingColumns = `ledger_id, property_id, guest, host, check_in, check_out,
	total_amount, platform_fee, host_amount, status,
	check_in_window_start, check_in_deadline, dispute_deadline,
	is_check_in_complete, is_resolved_by_host, is_resolved_by_guest,
	dispute_reason, paid_off_chain, payment_reference,
	guest_refund, host_payout, settled_fee, settled_on_ledger,
	synced_height, synced_index, projected_at`

// The WHERE clause on the update arm is the position guard: a row only moves
// forward in ledger order, so replays and stale snapshots change nothing.
const upsertBookingSQL = `INSERT INTO projection_bookings (` + bookingColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(ledger_id) DO UPDATE SET
    property_id = excluded.property_id,
    guest = excluded.guest,
    host = excluded.host,
    check_in = excluded.check_in,
    check_out = excluded.check_out,
    total_amount = excluded.total_amount,
    platform_fee = excluded.platform_fee,
    host_amount = excluded.host_amount,
    status = excluded.status,
    check_in_window_start = excluded.check_in_window_start,
    check_in_deadline = excluded.check_in_deadline,
    dispute_deadline = excluded.dispute_deadline,
    is_check_in_complete = excluded.is_check_in_complete,
    is_resolved_by_host = excluded.is_resolved_by_host,
    is_resolved_by_guest = excluded.is_resolved_by_guest,
    dispute_reason = excluded.dispute_reason,
    paid_off_chain = excluded.paid_off_chain,
    payment_reference = excluded.payment_reference,
    guest_refund = excluded.guest_refund,
    host_payout = excluded.host_payout,
    settled_fee = excluded.settled_fee,
    settled_on_ledger = excluded.settled_on_ledger,
    synced_height = excluded.synced_height,
    synced_index = excluded.synced_index,
    projected_at = excluded.projected_at
WHERE excluded.synced_height > projection_bookings.synced_height
   OR (excluded.synced_height = projection_bookings.synced_height
       AND excluded.synced_index > projection_bookings.synced_index)`

// UpsertBooking writes rec when it is newer than the stored row and reports
// whether anything changed.
func (s *Store) UpsertBooking(ctx context.Context, rec readmodel.BookingRM) (bool, error) {
	var guestRefund, hostPayout, settledFee, settledOnLedger sql.NullInt64
	if st := rec.Settlement; st != nil {
		guestRefund = sql.NullInt64{Int64: st.GuestRefund, Valid: true}
		hostPayout = sql.NullInt64{Int64: st.HostPayout, Valid: true}
		settledFee = sql.NullInt64{Int64: st.PlatformFee, Valid: true}
		settledOnLedger = sql.NullInt64{Int64: boolToInt(st.SettledOnLedger), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, upsertBookingSQL,
		rec.LedgerID,
		rec.PropertyID,
		strings.ToLower(rec.Guest),
		strings.ToLower(rec.Host),
		rec.CheckIn.Unix(),
		rec.CheckOut.Unix(),
		rec.TotalAmount,
		rec.PlatformFee,
		rec.HostAmount,
		rec.Status,
		nullableUnix(rec.CheckInWindowStart),
		nullableUnix(rec.CheckInDeadline),
		nullableUnix(rec.DisputeDeadline),
		boolToInt(rec.IsCheckInComplete),
		boolToInt(rec.IsResolvedByHost),
		boolToInt(rec.IsResolvedByGuest),
		rec.DisputeReason,
		boolToInt(rec.PaidOffChain),
		rec.PaymentReference,
		guestRefund,
		hostPayout,
		settledFee,
		settledOnLedger,
		rec.SyncedHeight,
		rec.SyncedIndex,
		s.now(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to upsert projected booking", err, infra.KindUnavailable)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, infra.WrapRepoErr("failed to read upsert result", err, infra.KindUnavailable)
	}
	return n > 0, nil
}

func (s *Store) FindBookingByLedgerID(ctx context.Context, id int64) (*readmodel.BookingRM, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM projection_bookings WHERE ledger_id = ?`, id)
	rec, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, infra.WrapRepoErr("projected booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find projected booking", err, infra.KindUnavailable)
	}
	return rec, nil
}

// ListBookings pages through bookings in ledger id order.
func (s *Store) ListBookings(ctx context.Context, f readmodel.BookingFilter) ([]readmodel.BookingRM, error) {
	var (
		where []string
		args  []any
	)
	if f.Guest != "" {
		where = append(where, "guest = ?")
		args = append(args, strings.ToLower(f.Guest))
	}
	if f.Host != "" {
		where = append(where, "host = ?")
		args = append(args, strings.ToLower(f.Host))
	}
	if f.PropertyID != "" {
		where = append(where, "property_id = ?")
		args = append(args, f.PropertyID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.AfterID > 0 {
		where = append(where, "ledger_id > ?")
		args = append(args, f.AfterID)
	}

	query := `SELECT ` + bookingColumns + ` FROM projection_bookings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY ledger_id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list projected bookings", err, infra.KindUnavailable)
	}
	defer rows.Close()

	var out []readmodel.BookingRM
	for rows.Next() {
		rec, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan projected booking", err, infra.KindUnavailable)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate projected bookings", err, infra.KindUnavailable)
	}
	return out, nil
}

func (s *Store) CountBookings(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projection_bookings`).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count projected bookings", err, infra.KindUnavailable)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(r rowScanner) (*readmodel.BookingRM, error) {
	var (
		rec                                                  readmodel.BookingRM
		checkIn, checkOut, projectedAt                       int64
		windowStart, checkInDeadline, disputeDeadline        sql.NullInt64
		checkInComplete, resolvedByHost, resolvedByGuest     int64
		paidOffChain                                         int64
		guestRefund, hostPayout, settledFee, settledOnLedger sql.NullInt64
	)
	err := r.Scan(
		&rec.LedgerID, &rec.PropertyID, &rec.Guest, &rec.Host, &checkIn, &checkOut,
		&rec.TotalAmount, &rec.PlatformFee, &rec.HostAmount, &rec.Status,
		&windowStart, &checkInDeadline, &disputeDeadline,
		&checkInComplete, &resolvedByHost, &resolvedByGuest,
		&rec.DisputeReason, &paidOffChain, &rec.PaymentReference,
		&guestRefund, &hostPayout, &settledFee, &settledOnLedger,
		&rec.SyncedHeight, &rec.SyncedIndex, &projectedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.CheckIn = fromUnix(checkIn)
	rec.CheckOut = fromUnix(checkOut)
	rec.ProjectedAt = fromUnix(projectedAt)
	rec.CheckInWindowStart = optionalTime(windowStart)
	rec.CheckInDeadline = optionalTime(checkInDeadline)
	rec.DisputeDeadline = optionalTime(disputeDeadline)
	rec.IsCheckInComplete = checkInComplete != 0
	rec.IsResolvedByHost = resolvedByHost != 0
	rec.IsResolvedByGuest = resolvedByGuest != 0
	rec.PaidOffChain = paidOffChain != 0
	if hostPayout.Valid {
		rec.Settlement = &readmodel.SettlementRM{
			GuestRefund:     guestRefund.Int64,
			HostPayout:      hostPayout.Int64,
			PlatformFee:     settledFee.Int64,
			SettledOnLedger: settledOnLedger.Int64 != 0,
		}
	}
	return &rec, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nullableUnix(t *time.Time) sql.NullInt64 {
	if t == nil || t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func optionalTime(v sql.NullInt64) *time.Time {
	if !v.Valid || v.Int64 == 0 {
		return nil
	}
	t := fromUnix(v.Int64)
	return &t
}

func fromUnix(secs int64) time.Time {
	return time.Unix(secs, 0).UTC()
}
