package readstore

import (
	"context"
	"time"

	"car-rental-api/internal/infra"
	"car-rental-api/internal/infra/db"
	"car-rental-api/internal/pkg/pgconv"
	"car-rental-api/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	query, args, err := db.Build(db.Dialect.From(goqu.T("bookings").As("b")).
		InnerJoin(goqu.T("cars").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("b.car_id")))).
		Select(
			"b.id", "b.car_id", "c.name", "b.user_id", "b.start_at", "b.end_at",
			"b.duration_days", "b.daily_rate", "b.base_price", "b.discount", "b.total_price",
			"b.status", "b.payment_status", "b.payment_attempts",
			"b.promotion_id", "b.promotion_code", "b.promotion_released_at",
			"b.created_at", "b.updated_at",
		).
		Where(goqu.I("b.id").Eq(id)).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	var (
		v                    queries.BookingView
		startAt, endAt       pgtype.Timestamptz
		promotionID          pgtype.UUID
		promotionCode        pgtype.Text
		releasedAt           pgtype.Timestamptz
		createdAt, updatedAt pgtype.Timestamptz
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&v.ID, &v.CarID, &v.CarName, &v.UserID, &startAt, &endAt,
		&v.DurationDays, &v.DailyRate, &v.BasePrice, &v.Discount, &v.TotalPrice,
		&v.Status, &v.PaymentStatus, &v.PaymentAttempts,
		&promotionID, &promotionCode, &releasedAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	v.StartAt = startAt.Time.UTC()
	v.EndAt = endAt.Time.UTC()
	v.PromotionID = pgconv.UUIDPtrFromPgtype(promotionID)
	v.PromotionCode = pgconv.StringPtrFromPgtype(promotionCode)
	v.PromotionReleasedAt = pgconv.TimePtrFromPgtype(releasedAt)
	v.CreatedAt = createdAt.Time.UTC()
	v.UpdatedAt = updatedAt.Time.UTC()
	return &v, nil
}

func (r *BookingReadStore) FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int) ([]*queries.BookingListItem, error) {
	return r.list(ctx, goqu.I("b.user_id").Eq(userID), limit)
}

// FindByUserKeyset continues after (lastCreatedAt, lastID) in
// (created_at DESC, id DESC) order.
func (r *BookingReadStore) FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int) ([]*queries.BookingListItem, error) {
	return r.list(ctx, goqu.And(
		goqu.I("b.user_id").Eq(userID),
		goqu.Or(
			goqu.I("b.created_at").Lt(lastCreatedAt),
			goqu.And(goqu.I("b.created_at").Eq(lastCreatedAt), goqu.I("b.id").Lt(lastID)),
		),
	), limit)
}

func (r *BookingReadStore) list(ctx context.Context, where exp.Expression, limit int) ([]*queries.BookingListItem, error) {
	query, args, err := db.Build(db.Dialect.From(goqu.T("bookings").As("b")).
		InnerJoin(goqu.T("cars").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("b.car_id")))).
		Select(
			"b.id", "b.car_id", "c.name", "b.start_at", "b.end_at", "b.total_price",
			"b.status", "b.payment_status", "b.created_at",
		).
		Where(where).
		Order(goqu.I("b.created_at").Desc(), goqu.I("b.id").Desc()).
		Limit(uint(limit)).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var (
			item                      queries.BookingListItem
			startAt, endAt, createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(
			&item.ID, &item.CarID, &item.CarName, &startAt, &endAt, &item.TotalPrice,
			&item.Status, &item.PaymentStatus, &createdAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		item.StartAt = startAt.Time.UTC()
		item.EndAt = endAt.Time.UTC()
		item.CreatedAt = createdAt.Time.UTC()
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return items, nil
}
