package readstore

import (
	"context"

	"car-rental-api/internal/domain/promotion"
	"car-rental-api/internal/infra/db"
	"car-rental-api/internal/infra/repository"
)

// PromotionReadStore serves discount previews from the same rows the
// booking flow validates against.
type PromotionReadStore struct {
	repo *repository.PromotionRepository
}

func NewPromotionReadStore(dbtx db.DBTX) *PromotionReadStore {
	return &PromotionReadStore{repo: repository.NewPromotionRepository(dbtx)}
}

func (r *PromotionReadStore) FindByCode(ctx context.Context, code promotion.Code) (*promotion.Promotion, error) {
	return r.repo.FindByCode(ctx, code)
}
