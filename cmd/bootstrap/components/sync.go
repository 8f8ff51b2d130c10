package components

import (
	"context"
	"log/slog"

	"stayledger/internal/pkg/clock"
	"stayledger/internal/pkg/config"
	"stayledger/internal/usecase/commands"
	"stayledger/internal/usecase/syncer"

	"go.uber.org/fx"
)

var SyncModule = fx.Module("sync",
	fx.Provide(
		NewEngine,
		func(e *syncer.Engine) commands.SyncCommands { return e },
	),
)

func NewEngine(
	ledger syncer.Ledger,
	projection syncer.Projection,
	state syncer.SyncState,
	notifier syncer.Notifier,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) *syncer.Engine {
	return syncer.NewEngine(ledger, projection, state, notifier, clk, logger, syncer.ConfigFrom(cfg.Sync))
}

// RunnerModule drives the engine in the background for the server's lifetime.
var RunnerModule = fx.Module("sync/runner",
	fx.Provide(
		syncer.NewRunner,
	),
	fx.Invoke(registerRunner),
)

func registerRunner(lc fx.Lifecycle, runner *syncer.Runner, cfg config.Config, logger *slog.Logger) {
	if !cfg.Sync.Enabled {
		logger.Info("sync runner disabled", "reason", "SYNC_ENABLED=false")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			runner.Start(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return runner.Stop(ctx)
		},
	})
}
