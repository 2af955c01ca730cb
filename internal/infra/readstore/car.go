package readstore

import (
	"context"

	"car-rental-api/internal/infra"
	"car-rental-api/internal/infra/db"
	"car-rental-api/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CarReadStore struct {
	db db.DBTX
}

func NewCarReadStore(dbtx db.DBTX) *CarReadStore {
	return &CarReadStore{db: dbtx}
}

func (r *CarReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CarView, error) {
	query, args, err := db.Build(db.Dialect.From("cars").
		Select("id", "name", "category", "daily_rate", "available", "created_at", "updated_at").
		Where(goqu.C("id").Eq(id)).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	var (
		v                    queries.CarView
		createdAt, updatedAt pgtype.Timestamptz
	)
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&v.ID, &v.Name, &v.Category, &v.DailyRate, &v.Available, &createdAt, &updatedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find car by ID", err)
	}
	v.CreatedAt = createdAt.Time.UTC()
	v.UpdatedAt = updatedAt.Time.UTC()
	return &v, nil
}
