package components

import (
	"stayledger/internal/handler"
	"stayledger/internal/handler/api"
	"stayledger/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewPropertyHandler,
		api.NewBookingHandler,
		api.NewSyncHandler,
		middleware.NewAuthMiddleware,
		func(p *api.PropertyHandler, b *api.BookingHandler, s *api.SyncHandler) handler.Handlers {
			return handler.Handlers{Property: p, Booking: b, Sync: s}
		},
	),
	fx.Invoke(handler.NewRouter),
)
