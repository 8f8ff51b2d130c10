package bootstrap

import (
	"context"

	"stayledger/internal/infra/projection"
	"stayledger/internal/pkg/clock"
	"stayledger/internal/pkg/config"

	"go.uber.org/fx"
)

var ProjectionModule = fx.Module("projection",
	fx.Provide(
		NewProjection,
	),
)

func NewProjection(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) (*projection.Store, error) {
	store, err := projection.Open(cfg.Projection.Path, clk)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}
