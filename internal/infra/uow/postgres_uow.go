package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/infra/repository"
	sqlc "stayledger/internal/infra/sqlc/generated"
	"stayledger/internal/pkg/clock"
	"stayledger/internal/pkg/errs"
	"stayledger/internal/pkg/pgconv"
	"stayledger/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errAdvanceHead        = errs.New("failed to advance ledger head")
	errAppendEvents       = errs.New("failed to append ledger events")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool  *pgxpool.Pool
	q     *sqlc.Queries
	clock clock.Clock
}

func NewPostgresUoW(pool *pgxpool.Pool, q *sqlc.Queries, clk clock.Clock) shared.UnitOfWork {
	return &PostgresUoW{
		pool:  pool,
		q:     q,
		clock: clk,
	}
}

// ReadCommitted is enough: the ledger_head row lock serializes every block.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) (*shared.Receipt, error) {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) (*shared.Receipt, error) {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return nil, errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{
			dbtx: pgxTx,
			uow:  u,
		}

		var receipt *shared.Receipt
		receipt, err = u.runBlock(ctx, pgxTx, tx, fn)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return receipt, nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return nil, errs.Mark(err, errMaxRetriesExceeded)
			}
			return nil, err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return nil, errMaxRetriesExceeded
}

// runBlock claims the next height before fn runs, so concurrent writers
// queue on the head row and blocks become visible in height order.
func (u *PostgresUoW) runBlock(ctx context.Context, dbtx pgx.Tx, tx *pgTx, fn func(ctx context.Context, tx shared.Tx) error) (*shared.Receipt, error) {
	blockTime := u.clock.Now().UTC().Truncate(time.Second)

	height, err := u.q.AdvanceLedgerHead(ctx, dbtx, pgconv.TimeToPgtype(blockTime))
	if err != nil {
		return nil, errs.Mark(err, errAdvanceHead)
	}
	tx.height = height

	if err := fn(ctx, tx); err != nil {
		return nil, err
	}

	events := encodeBlock(height, tx.pending)
	for _, e := range events {
		args, err := json.Marshal(e.Args)
		if err != nil {
			return nil, errs.Mark(err, errAppendEvents)
		}
		err = u.q.AppendLedgerEvent(ctx, dbtx, sqlc.AppendLedgerEventParams{
			Height:    e.Height,
			TxIndex:   int32(e.TxIndex), // #nosec G115 -- bounded by the events in one block
			TxID:      e.TxID,
			Name:      string(e.Name),
			Args:      args,
			BlockTime: pgconv.TimeToPgtype(blockTime),
		})
		if err != nil {
			return nil, errs.Mark(err, errAppendEvents)
		}
	}

	receipt := &shared.Receipt{Height: height, Events: events}
	if len(events) > 0 {
		receipt.TxID = events[0].TxID
	}
	return receipt, nil
}

func encodeBlock(height int64, payloads []ledgerevent.Payload) []ledgerevent.Event {
	events := make([]ledgerevent.Event, 0, len(payloads))
	for i, p := range payloads {
		name, args := ledgerevent.Encode(p)
		events = append(events, ledgerevent.Event{Name: name, Args: args, Height: height, TxIndex: i})
	}
	txID := TxID(height, events)
	for i := range events {
		events[i].TxID = txID
	}
	return events
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback to a simple calculation if crypto/rand fails
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx    sqlc.DBTX
	uow     *PostgresUoW
	height  int64
	pending []ledgerevent.Payload

	// Lazy-initialized repositories
	propertyRepo    shared.PropertyRepository
	bookingRepo     shared.BookingRepository
	idempotencyRepo shared.IdempotencyRepository
}

func (t *pgTx) Height() int64 {
	return t.height
}

func (t *pgTx) Properties() shared.PropertyRepository {
	if t.propertyRepo == nil {
		t.propertyRepo = repository.NewPropertyRepository(t.uow.q, t.dbtx)
	}
	return t.propertyRepo
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository(t.uow.q, t.dbtx)
	}
	return t.bookingRepo
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotencyRepo == nil {
		t.idempotencyRepo = repository.NewIdempotencyRepository(t.uow.q, t.dbtx)
	}
	return t.idempotencyRepo
}

func (t *pgTx) Emit(events ...ledgerevent.Payload) {
	t.pending = append(t.pending, events...)
}
