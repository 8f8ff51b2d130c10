package readstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/infra"
	"stayledger/internal/infra/repository"
	sqlc "stayledger/internal/infra/sqlc/generated"
	"stayledger/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerReadStore is the read side of the Postgres ledger used by the sync
// engine. Snapshot reads run in REPEATABLE READ so the reported height and
// the row agree.
type LedgerReadStore struct {
	pool *pgxpool.Pool
	q    *sqlc.Queries
}

func NewLedgerReadStore(pool *pgxpool.Pool, q *sqlc.Queries) *LedgerReadStore {
	return &LedgerReadStore{pool: pool, q: q}
}

func (s *LedgerReadStore) CurrentHeight(ctx context.Context) (int64, error) {
	return s.currentHeight(ctx, s.pool)
}

// QueryEvents returns events with from <= height <= to in ledger order.
func (s *LedgerReadStore) QueryEvents(ctx context.Context, from, to int64) ([]ledgerevent.Event, error) {
	rows, err := s.q.ListLedgerEventsInRange(ctx, s.pool, sqlc.ListLedgerEventsInRangeParams{
		FromHeight: from,
		ToHeight:   to,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query ledger events", err, infra.KindUnavailable)
	}

	events := make([]ledgerevent.Event, 0, len(rows))
	for _, row := range rows {
		args, ok := decodeArgs(row.Args)
		if !ok {
			slog.Warn("ledger event args are not a JSON object",
				"height", row.Height, "tx_index", row.TxIndex, "tx_id", row.TxID)
		}
		events = append(events, ledgerevent.Event{
			TxID:    row.TxID,
			Name:    ledgerevent.Name(row.Name),
			Args:    args,
			Height:  row.Height,
			TxIndex: int(row.TxIndex),
		})
	}
	return events, nil
}

// decodeArgs flattens a stored args object into string values. Anything that
// is not an object yields empty args, which fail typed decoding for that one
// event instead of the whole batch.
func decodeArgs(raw []byte) (ledgerevent.Args, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return ledgerevent.Args{}, false
	}

	args := make(ledgerevent.Args, len(fields))
	for k, v := range fields {
		switch v := v.(type) {
		case nil:
		case string:
			args[k] = v
		case json.Number:
			args[k] = v.String()
		case bool:
			args[k] = strconv.FormatBool(v)
		default:
			nested, err := json.Marshal(v)
			if err != nil {
				continue
			}
			args[k] = string(nested)
		}
	}
	return args, true
}

func (s *LedgerReadStore) ReadBooking(ctx context.Context, id int64) (*shared.BookingSnapshot, error) {
	var snap shared.BookingSnapshot
	err := s.snapshot(ctx, func(ctx context.Context, tx pgx.Tx, height int64) error {
		b, err := repository.NewBookingRepository(s.q, tx).FindByID(ctx, id)
		if err != nil {
			return err
		}
		snap = shared.BookingSnapshot{Booking: b, AsOfHeight: height}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *LedgerReadStore) ReadProperty(ctx context.Context, id string) (*shared.PropertySnapshot, error) {
	var snap shared.PropertySnapshot
	err := s.snapshot(ctx, func(ctx context.Context, tx pgx.Tx, height int64) error {
		p, err := repository.NewPropertyRepository(s.q, tx).FindByID(ctx, id)
		if err != nil {
			return err
		}
		snap = shared.PropertySnapshot{Property: p, AsOfHeight: height}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *LedgerReadStore) ListBookingIDs(ctx context.Context, scope shared.Scope) ([]int64, error) {
	var (
		ids []int64
		err error
	)
	switch scope.Kind {
	case shared.ScopeProperty:
		ids, err = s.q.ListBookingIDsByProperty(ctx, s.pool, scope.PropertyID)
	case shared.ScopeGuest:
		ids, err = s.q.ListBookingIDsByGuest(ctx, s.pool, scope.Party.String())
	case shared.ScopeHost:
		ids, err = s.q.ListBookingIDsByHost(ctx, s.pool, scope.Party.String())
	default:
		ids, err = s.q.ListBookingIDs(ctx, s.pool)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking ids", err, infra.KindUnavailable)
	}
	return ids, nil
}

func (s *LedgerReadStore) ListPropertyIDs(ctx context.Context, scope shared.Scope) ([]string, error) {
	var (
		ids []string
		err error
	)
	switch scope.Kind {
	case shared.ScopeProperty:
		ids, err = s.q.ListPropertyIDsByID(ctx, s.pool, scope.PropertyID)
	case shared.ScopeGuest:
		ids, err = s.q.ListPropertyIDsByGuest(ctx, s.pool, scope.Party.String())
	case shared.ScopeHost:
		ids, err = s.q.ListPropertyIDsByHost(ctx, s.pool, scope.Party.String())
	default:
		ids, err = s.q.ListPropertyIDs(ctx, s.pool)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list property ids", err, infra.KindUnavailable)
	}
	return ids, nil
}

func (s *LedgerReadStore) snapshot(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx, height int64) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return infra.WrapRepoErr("failed to begin snapshot", err, infra.KindUnavailable)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback snapshot transaction", "error", rollbackErr.Error())
		}
	}()

	height, err := s.currentHeight(ctx, tx)
	if err != nil {
		return err
	}
	if err := fn(ctx, tx, height); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *LedgerReadStore) currentHeight(ctx context.Context, db sqlc.DBTX) (int64, error) {
	height, err := s.q.GetLedgerHeight(ctx, db)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to read ledger head", err, infra.KindUnavailable)
	}
	return height, nil
}
