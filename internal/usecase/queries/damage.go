package queries

import (
	"context"

	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/infra"

	"github.com/google/uuid"
)

//go:generate mockgen -source=damage.go -destination=../../testutil/mock/queriesmock/damage.go -package=queriesmock

type DamageReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DamageReportView, error)
}

type DamageQueries interface {
	GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*DamageReportView, error)
}

type damageQueriesImpl struct {
	readStore DamageReadStore
}

func NewDamageQueries(readStore DamageReadStore) DamageQueries {
	return &damageQueriesImpl{readStore: readStore}
}

func (q *damageQueriesImpl) GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*DamageReportView, error) {
	r, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, damage.ErrReportNotFound
		}
		return nil, err
	}
	if r.BookingUserID != actor.UserID && !actor.Role.AtLeast(user.RoleStaff) {
		return nil, damage.ErrReportNotFound
	}
	return r, nil
}
