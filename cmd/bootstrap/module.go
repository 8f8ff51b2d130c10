package bootstrap

import (
	"stayledger/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// CoreModule wires the ledger, the projection and the sync engine. The CLI
// commands run on it alone.
var CoreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	ProjectionModule,
	TracingModule,
	NotifyModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.SyncModule,
)

// Module is the full server: CoreModule plus HTTP and the background sync runner.
var Module = fx.Options(
	CoreModule,
	JWTModule,
	components.RunnerModule,
	components.HandlerModule,
)
