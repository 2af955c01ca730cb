package repository

import (
	"context"

	"car-rental-api/internal/domain/promotion"
	"car-rental-api/internal/infra"
	"car-rental-api/internal/infra/db"
	"car-rental-api/internal/infra/repository/converter"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type PromotionRepository struct {
	db db.DBTX
}

func NewPromotionRepository(dbtx db.DBTX) *PromotionRepository {
	return &PromotionRepository{db: dbtx}
}

func (r *PromotionRepository) FindByCode(ctx context.Context, code promotion.Code) (*promotion.Promotion, error) {
	query, args, err := db.Build(db.Dialect.From("promotions").
		Select(converter.PromotionColumns...).
		Where(goqu.C("code").Eq(code.String())).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	p, err := converter.ScanPromotion(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find promotion by code", err)
	}
	return p, nil
}

// Consume takes one usage slot in a single conditional statement, so two
// concurrent callers can never both take the last slot.
func (r *PromotionRepository) Consume(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.adjust(ctx, "failed to consume promotion", db.Dialect.Update("promotions").
		Set(goqu.Record{"used_count": goqu.L("used_count + 1"), "updated_at": goqu.L("now()")}).
		Where(goqu.C("id").Eq(id), goqu.C("used_count").Lt(goqu.I("usage_limit"))).
		Prepared(true))
}

func (r *PromotionRepository) Release(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.adjust(ctx, "failed to release promotion", db.Dialect.Update("promotions").
		Set(goqu.Record{"used_count": goqu.L("used_count - 1"), "updated_at": goqu.L("now()")}).
		Where(goqu.C("id").Eq(id), goqu.C("used_count").Gt(0)).
		Prepared(true))
}

func (r *PromotionRepository) adjust(ctx context.Context, msg string, stmt *goqu.UpdateDataset) (bool, error) {
	query, args, err := db.Build(stmt)
	if err != nil {
		return false, err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, infra.WrapRepoErr(msg, err)
	}
	return tag.RowsAffected() == 1, nil
}
