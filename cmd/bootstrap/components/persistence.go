package components

import (
	"stayledger/internal/infra/projection"
	"stayledger/internal/infra/readstore"
	"stayledger/internal/infra/repository"
	sqlc "stayledger/internal/infra/sqlc/generated"
	"stayledger/internal/infra/uow"
	"stayledger/internal/usecase/commands"
	"stayledger/internal/usecase/queries"
	"stayledger/internal/usecase/syncer"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	ledgerModule,
	projectionModule,
)

var ledgerModule = fx.Module("persistence/ledger",
	fx.Provide(
		NewSQLQueries,
		NewDBTX,
		// Writes
		uow.NewPostgresUoW,
		fx.Annotate(
			repository.NewIdempotencyRepository,
			fx.As(new(commands.IdempotencyRepository)),
		),
		// Reads
		fx.Annotate(
			readstore.NewLedgerReadStore,
			fx.As(new(syncer.Ledger)),
			fx.As(new(queries.LedgerHead)),
			fx.As(new(commands.LedgerReads)),
		),
	),
)

// The projection store backs the sync engine and every read endpoint.
var projectionModule = fx.Module("persistence/projection",
	fx.Provide(
		func(s *projection.Store) syncer.Projection { return s },
		func(s *projection.Store) syncer.SyncState { return s },
		func(s *projection.Store) queries.BookingViewRepo { return s },
		func(s *projection.Store) queries.PropertyViewRepo { return s },
		func(s *projection.Store) queries.SyncStateRepo { return s },
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}
