package components

import (
	"car-rental-api/internal/infra/memstore"
	"car-rental-api/internal/infra/readstore"
	"car-rental-api/internal/infra/uow"
	"car-rental-api/internal/usecase/queries"
	"car-rental-api/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// Stores is the persistence surface the usecases depend on. Both backends
// fill every field.
type Stores struct {
	fx.Out

	UoW        shared.UnitOfWork
	Cars       queries.CarReadStore
	Bookings   queries.BookingReadStore
	Promotions queries.PromotionReadStore
	Damage     queries.DamageReadStore
}

func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		UoW:        uow.NewPostgresUoW(pool),
		Cars:       readstore.NewCarReadStore(pool),
		Bookings:   readstore.NewBookingReadStore(pool),
		Promotions: readstore.NewPromotionReadStore(pool),
		Damage:     readstore.NewDamageReadStore(pool),
	}
}

func MemoryStores(store *memstore.Store) Stores {
	views := store.Views()
	return Stores{
		UoW:        store,
		Cars:       views.Cars(),
		Bookings:   views.Bookings(),
		Promotions: views.Promotions(),
		Damage:     views.DamageReports(),
	}
}
