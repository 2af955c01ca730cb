package bootstrap

import (
	"context"
	"log/slog"

	"car-rental-api/cmd/bootstrap/components"
	"car-rental-api/internal/infra/db"
	"car-rental-api/internal/infra/memstore"
	"car-rental-api/internal/pkg/clock"
	"car-rental-api/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewStores,
	),
)

// NewStores picks the persistence backend named by DB_DRIVER. The memory
// driver starts with the demo catalog.
func NewStores(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) (components.Stores, error) {
	if cfg.DB.Driver == config.DBDriverMemory {
		store := memstore.New()
		if err := store.SeedDemo(clk.Now()); err != nil {
			return components.Stores{}, err
		}
		slog.Info("Using in-memory store", "seeded", "demo catalog")
		return components.MemoryStores(store), nil
	}

	pool, err := NewDB(lc, cfg)
	if err != nil {
		return components.Stores{}, err
	}
	return components.PostgresStores(pool), nil
}

// NewDB opens the pool, applies the schema and closes the pool on stop.
func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx := context.Background()
	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := db.ApplySchema(ctx, pool); err != nil {
		cleanup()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}
