package components

import (
	"fmt"
	"log/slog"

	"stayledger/internal/domain/booking"
	"stayledger/internal/pkg/clock"
	"stayledger/internal/pkg/config"
	"stayledger/internal/usecase"
	"stayledger/internal/usecase/commands"
	"stayledger/internal/usecase/queries"
	"stayledger/internal/usecase/syncer"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewLifecycle,
)

// NewLifecycle builds the booking rules from the configured fee rates and
// platform arbiter.
func NewLifecycle(clk clock.Clock, cfg config.Config) (*booking.Lifecycle, error) {
	arbiter, err := booking.NewAddress(cfg.Platform.ArbiterAddress)
	if err != nil {
		return nil, err
	}
	fees, err := booking.NewFeeSchedule(
		booking.FeeRate{Numerator: cfg.Fees.OnLedgerBps, Denominator: cfg.Fees.Denominator},
		booking.FeeRate{Numerator: cfg.Fees.OffChainBps, Denominator: cfg.Fees.Denominator},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid fee settings: %w", err)
	}
	return booking.NewLifecycle(clk, fees, arbiter), nil
}

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewPropertyCommands,
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewPropertyQueries,
		queries.NewBookingQueries,
		func(state queries.SyncStateRepo, ledger queries.LedgerHead, logger *slog.Logger) queries.SyncQueries {
			return queries.NewSyncQueries(state, ledger, syncer.DefaultCursorName, logger)
		},
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
