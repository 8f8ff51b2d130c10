package bootstrap

import (
	"context"
	"log/slog"

	"stayledger/internal/infra/notify"
	"stayledger/internal/pkg/config"
	"stayledger/internal/usecase/syncer"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		NewNotifier,
	),
)

// NewNotifier connects to RabbitMQ when RABBIT_URL is set. Without it,
// projection changes are not published.
func NewNotifier(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (syncer.Notifier, error) {
	if cfg.Notify.RabbitURL == "" {
		logger.Info("notifications disabled", "reason", "RABBIT_URL not set")
		return notify.Nop{}, nil
	}

	pub, err := notify.NewPublisher(cfg.Notify.RabbitURL, cfg.Notify.Exchange)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})

	logger.Info("notifications enabled", "exchange", cfg.Notify.Exchange)
	return pub, nil
}
