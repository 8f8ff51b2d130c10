package syncer

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/infra"
	"stayledger/internal/pkg/clock"
	"stayledger/internal/pkg/errs"
	"stayledger/internal/pkg/obs"

	"go.opentelemetry.io/otel/attribute"
)

// Engine applies ledger events to the projection exactly once in effect.
// Poll owns cursor advancement; ApplyEvents and Reconcile may run alongside it.
type Engine struct {
	ledger     Ledger
	projection Projection
	state      SyncState
	notifier   Notifier
	clock      clock.Clock
	logger     *slog.Logger
	cfg        Config

	pollMu   sync.Mutex
	inflight *inflightSet

	mu      sync.RWMutex
	cursor  int64
	started bool
}

func NewEngine(
	ledger Ledger,
	projection Projection,
	state SyncState,
	notifier Notifier,
	clk clock.Clock,
	logger *slog.Logger,
	cfg Config,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		ledger:     ledger,
		projection: projection,
		state:      state,
		notifier:   notifier,
		clock:      clk,
		logger:     logger.With("component", "syncer"),
		cfg:        cfg.withDefaults(),
		inflight:   newInflightSet(),
	}
}

// ResumeFrom loads the persisted cursor. Without one it starts at the ledger
// head, minus the safety window when configured, and persists that choice.
func (e *Engine) ResumeFrom(ctx context.Context) (int64, error) {
	e.pollMu.Lock()
	defer e.pollMu.Unlock()

	var (
		height int64
		found  bool
	)
	err := e.call(ctx, func(ctx context.Context) error {
		var err error
		height, found, err = e.state.Cursor(ctx, e.cfg.CursorName)
		return err
	})
	if err != nil {
		return 0, errs.Mark(err, errs.ErrProjectionUnavailable)
	}

	if !found {
		var head int64
		err := e.call(ctx, func(ctx context.Context) error {
			var err error
			head, err = e.ledger.CurrentHeight(ctx)
			return err
		})
		if err != nil {
			return 0, errs.Mark(err, errs.ErrLedgerUnavailable)
		}
		height = max(head-e.cfg.SafetyWindowBlocks, 0)
		if err := e.call(ctx, func(ctx context.Context) error {
			return e.state.SetCursor(ctx, e.cfg.CursorName, height)
		}); err != nil {
			return 0, errs.Mark(err, errs.ErrProjectionUnavailable)
		}
		e.logger.Info("sync cursor initialized", "height", height, "head", head)
	} else {
		e.logger.Info("sync cursor resumed", "height", height)
	}

	e.mu.Lock()
	e.cursor = height
	e.started = true
	e.mu.Unlock()
	return height, nil
}

// Cursor returns the last height every event of which has been applied.
func (e *Engine) Cursor() (int64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursor, e.started
}

// Poll fetches (cursor, min(head, cursor+MaxBlockRange)] and applies it in
// ledger order. The cursor moves to the range end when every event succeeded,
// otherwise to just below the first failed height. A concurrent call returns
// a Skipped report.
func (e *Engine) Poll(ctx context.Context) (report *ProcessingReport, err error) {
	if !e.pollMu.TryLock() {
		return &ProcessingReport{Skipped: true}, nil
	}
	defer e.pollMu.Unlock()

	cursor, started := e.Cursor()
	if !started {
		return nil, errs.ErrSyncNotStarted
	}

	ctx, span := obs.Start(ctx, "syncer.Poll", attribute.Int64("sync.cursor", cursor))
	defer func() { obs.End(span, err) }()

	report = &ProcessingReport{CursorBefore: cursor, CursorAfter: cursor}

	var head int64
	if err := e.call(ctx, func(ctx context.Context) error {
		var err error
		head, err = e.ledger.CurrentHeight(ctx)
		return err
	}); err != nil {
		e.logger.Error("poll aborted: ledger head unavailable", "error", err.Error())
		return report, errs.Mark(err, errs.ErrLedgerUnavailable)
	}

	from := cursor + 1
	to := min(head, cursor+e.cfg.MaxBlockRange)
	report.From, report.To = from, to
	if to < from {
		return report, nil
	}

	var events []ledgerevent.Event
	if err := e.call(ctx, func(ctx context.Context) error {
		var err error
		events, err = e.ledger.QueryEvents(ctx, from, to)
		return err
	}); err != nil {
		e.logger.Error("poll aborted: ledger events unavailable", "from", from, "to", to, "error", err.Error())
		return report, errs.Mark(err, errs.ErrLedgerUnavailable)
	}
	ledgerevent.SortByPosition(events)
	report.Fetched = len(events)

	result, err := e.ApplyEvents(ctx, events)
	report.Applied = result.Applied
	report.Duplicates = result.Duplicates
	report.Ignored = result.Ignored
	report.Failed = result.Failed()
	report.Failures = result.Failures
	if err != nil {
		e.logger.Error("poll aborted", "from", from, "to", to, "error", err.Error())
		return report, err
	}

	next := to
	if len(result.Failures) > 0 {
		next = firstFailedHeight(result.Failures) - 1
	}
	if next > cursor {
		if err := e.call(ctx, func(ctx context.Context) error {
			return e.state.SetCursor(ctx, e.cfg.CursorName, next)
		}); err != nil {
			e.logger.Error("failed to persist sync cursor", "height", next, "error", err.Error())
			return report, errs.Mark(err, errs.ErrProjectionUnavailable)
		}
		e.mu.Lock()
		e.cursor = next
		e.mu.Unlock()
		report.CursorAfter = next
	}

	level := slog.LevelDebug
	if report.Applied > 0 || report.Failed > 0 {
		level = slog.LevelInfo
	}
	e.logger.Log(ctx, level, "poll completed",
		"from", report.From,
		"to", report.To,
		"fetched", report.Fetched,
		"applied", report.Applied,
		"duplicates", report.Duplicates,
		"ignored", report.Ignored,
		"failed", report.Failed,
		"cursor", report.CursorAfter)
	return report, nil
}

func firstFailedHeight(failures []EventFailure) int64 {
	lowest := failures[0].Height
	for _, f := range failures[1:] {
		if f.Height < lowest {
			lowest = f.Height
		}
	}
	return lowest
}

// call bounds one Ledger or Projection round trip by CallTimeout.
func (e *Engine) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()
	return fn(ctx)
}

// isSystemic separates infrastructure failures, which abort the operation,
// from per-event failures, which are recorded and retried.
func isSystemic(err error) bool {
	if err == nil {
		return false
	}
	if errs.IsSystemic(err) {
		return true
	}
	if infra.IsKind(err, infra.KindNotFound) {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		infra.IsKind(err, infra.KindUnavailable) ||
		infra.IsKind(err, infra.KindDBFailure)
}
