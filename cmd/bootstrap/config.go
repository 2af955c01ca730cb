package bootstrap

import (
	"log/slog"

	"car-rental-api/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	fx.Invoke(logEffectiveConfig),
)

// logEffectiveConfig records the settings operators most often get wrong.
// Secrets and credentials are never logged.
func logEffectiveConfig(cfg config.Config, logger *slog.Logger) {
	logger.Info("Configuration loaded",
		slog.Group("db", "driver", cfg.DB.Driver, "host", cfg.DB.Host, "name", cfg.DB.DBName, "max_conns", cfg.DB.MaxConns),
		slog.Group("booking", "pending_ttl", cfg.Booking.PendingTTL, "sweep", cfg.Booking.SweepSchedule),
		slog.Group("payment", "gateway", cfg.Payment.Gateway, "charge_timeout", cfg.Payment.ChargeTimeout,
			"callbacks_enabled", cfg.Payment.CallbackSecret != ""),
		slog.Group("messaging", "broker_enabled", cfg.Messaging.Enabled(), "exchange", cfg.Messaging.Exchange,
			"relay", cfg.Messaging.RelaySchedule),
	)
}
