package queries

//go:generate mockgen -destination=../../../tests/mock/queries/sync.go -package=queriesmock stayledger/internal/usecase/queries SyncQueries

import (
	"context"
	"log/slog"

	"stayledger/internal/pkg/errs"
	"stayledger/internal/usecase/readmodel"
)

var ErrInvalidCursor = errs.New("invalid cursor")

// SyncStatusView is the persisted sync state plus the ledger head it trails.
// LedgerHead is zero and LedgerReachable false when the ledger did not answer.
type SyncStatusView struct {
	readmodel.SyncStatusRM
	LedgerHead      int64 `json:"ledger_head"`
	Lag             int64 `json:"lag"`
	LedgerReachable bool  `json:"ledger_reachable"`
}

type SyncQueries interface {
	Status(ctx context.Context) (*SyncStatusView, error)
}

type SyncStateRepo interface {
	Cursor(ctx context.Context, name string) (int64, bool, error)
	CountProcessed(ctx context.Context) (int, error)
	CountBookings(ctx context.Context) (int, error)
	CountProperties(ctx context.Context) (int, error)
}

type LedgerHead interface {
	CurrentHeight(ctx context.Context) (int64, error)
}

type syncQueriesImpl struct {
	state      SyncStateRepo
	ledger     LedgerHead
	cursorName string
	logger     *slog.Logger
}

func NewSyncQueries(state SyncStateRepo, ledger LedgerHead, cursorName string, logger *slog.Logger) SyncQueries {
	return &syncQueriesImpl{state: state, ledger: ledger, cursorName: cursorName, logger: logger}
}

func (q *syncQueriesImpl) Status(ctx context.Context) (*SyncStatusView, error) {
	view := &SyncStatusView{}

	cursor, ok, err := q.state.Cursor(ctx, q.cursorName)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrProjectionUnavailable)
	}
	view.Cursor, view.HasCursor = cursor, ok

	if view.ProcessedCount, err = q.state.CountProcessed(ctx); err != nil {
		return nil, errs.Mark(err, errs.ErrProjectionUnavailable)
	}
	if view.Bookings, err = q.state.CountBookings(ctx); err != nil {
		return nil, errs.Mark(err, errs.ErrProjectionUnavailable)
	}
	if view.Properties, err = q.state.CountProperties(ctx); err != nil {
		return nil, errs.Mark(err, errs.ErrProjectionUnavailable)
	}

	head, err := q.ledger.CurrentHeight(ctx)
	if err != nil {
		q.logger.Warn("sync status without ledger head", "error", err.Error())
		return view, nil
	}
	view.LedgerHead = head
	view.LedgerReachable = true
	if ok && head > cursor {
		view.Lag = head - cursor
	}
	return view, nil
}
