package components

import (
	"context"
	"log/slog"

	"car-rental-api/internal/infra/messaging"
	"car-rental-api/internal/jobs"
	"car-rental-api/internal/pkg/config"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		NewPublisher,
		jobs.NewRunner,
		jobs.NewScheduler,
	),
	fx.Invoke(startScheduler),
)

type closingPublisher interface {
	jobs.Publisher
	Close() error
}

// NewPublisher relays to RabbitMQ when RABBITMQ_URL is set and to the log
// otherwise.
func NewPublisher(lc fx.Lifecycle, cfg config.Config) (jobs.Publisher, error) {
	var pub closingPublisher
	if cfg.Messaging.Enabled() {
		p, err := messaging.NewRabbitMQPublisher(cfg.Messaging.RabbitMQURL, cfg.Messaging.Exchange)
		if err != nil {
			return nil, err
		}
		pub = p
	} else {
		slog.Info("RABBITMQ_URL not set; outbox events are relayed to the log")
		pub = messaging.NewLogPublisher()
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub, nil
}

func startScheduler(lc fx.Lifecycle, s *jobs.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
}
