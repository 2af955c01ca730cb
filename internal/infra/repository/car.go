package repository

import (
	"context"

	"car-rental-api/internal/domain/car"
	"car-rental-api/internal/infra"
	"car-rental-api/internal/infra/db"
	"car-rental-api/internal/infra/repository/converter"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
)

type CarRepository struct {
	db db.DBTX
}

func NewCarRepository(dbtx db.DBTX) *CarRepository {
	return &CarRepository{db: dbtx}
}

func (r *CarRepository) FindByID(ctx context.Context, id uuid.UUID) (*car.Car, error) {
	return r.find(ctx, id, false)
}

// GetForUpdate locks the car row. Concurrent creations for the same car
// queue behind it, which keeps the overlap check race-free.
func (r *CarRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*car.Car, error) {
	return r.find(ctx, id, true)
}

func (r *CarRepository) find(ctx context.Context, id uuid.UUID, lock bool) (*car.Car, error) {
	stmt := db.Dialect.From("cars").
		Select(converter.CarColumns...).
		Where(goqu.C("id").Eq(id)).
		Prepared(true)
	if lock {
		stmt = stmt.ForUpdate(exp.Wait)
	}
	query, args, err := db.Build(stmt)
	if err != nil {
		return nil, err
	}

	c, err := converter.ScanCar(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find car", err)
	}
	return c, nil
}
