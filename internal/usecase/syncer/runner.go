package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stayledger/internal/usecase/shared"
)

// Runner drives the engine on three tickers: poll, prune and reconcile.
type Runner struct {
	engine *Engine
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(engine *Engine, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{engine: engine, logger: logger.With("component", "sync_runner")}
}

// Start launches the loops on a context detached from ctx's cancellation;
// Stop ends them. Calling Start twice is a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel

	cfg := r.engine.cfg
	r.loop(runCtx, "poll", cfg.PollInterval, r.pollOnce)
	r.loop(runCtx, "prune", cfg.PruneInterval, func(ctx context.Context) {
		if _, err := r.engine.Prune(ctx); err != nil {
			r.logger.Warn("prune failed", "error", err.Error())
		}
	})
	r.loop(runCtx, "reconcile", cfg.ReconcileInterval, func(ctx context.Context) {
		if _, err := r.engine.Reconcile(ctx, shared.AllScope()); err != nil {
			r.logger.Warn("scheduled reconcile failed", "error", err.Error())
		}
	})
	r.logger.Info("sync runner started",
		"poll_interval", cfg.PollInterval.String(),
		"prune_interval", cfg.PruneInterval.String(),
		"reconcile_interval", cfg.ReconcileInterval.String())
}

// Stop cancels the loops and waits for them to return or for ctx to expire.
// A batch cut short leaves its remaining events unprocessed for the next run.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		r.logger.Info("sync runner stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pollOnce resumes first when the cursor has not been loaded yet, so a
// ledger outage at startup is retried on the next tick.
func (r *Runner) pollOnce(ctx context.Context) {
	if _, started := r.engine.Cursor(); !started {
		if _, err := r.engine.ResumeFrom(ctx); err != nil {
			r.logger.Warn("sync resume failed", "error", err.Error())
			return
		}
	}
	report, err := r.engine.Poll(ctx)
	if err != nil {
		r.logger.Warn("poll failed", "error", err.Error())
		return
	}
	if report.Skipped {
		r.logger.Debug("poll skipped: previous poll still running")
	}
}

func (r *Runner) loop(ctx context.Context, name string, interval time.Duration, fn func(context.Context)) {
	if interval <= 0 {
		r.logger.Info("sync task disabled", "task", name)
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
}
