package readstore

import (
	"context"

	"car-rental-api/internal/infra"
	"car-rental-api/internal/infra/db"
	"car-rental-api/internal/pkg/pgconv"
	"car-rental-api/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type DamageReadStore struct {
	db db.DBTX
}

func NewDamageReadStore(dbtx db.DBTX) *DamageReadStore {
	return &DamageReadStore{db: dbtx}
}

func (r *DamageReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.DamageReportView, error) {
	query, args, err := db.Build(db.Dialect.From(goqu.T("damage_reports").As("d")).
		InnerJoin(goqu.T("bookings").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("d.booking_id")))).
		Select(
			"d.id", "d.booking_id", "b.user_id", "d.car_id", "d.reported_by", "d.description",
			"d.estimated_cost", "d.actual_cost", "d.status", "d.admin_notes", "d.resolved_at",
			"d.created_at", "d.updated_at",
		).
		Where(goqu.I("d.id").Eq(id)).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	var (
		v                    queries.DamageReportView
		actualCost           decimal.NullDecimal
		notes                pgtype.Text
		resolvedAt           pgtype.Timestamptz
		createdAt, updatedAt pgtype.Timestamptz
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&v.ID, &v.BookingID, &v.BookingUserID, &v.CarID, &v.ReportedBy, &v.Description,
		&v.EstimatedCost, &actualCost, &v.Status, &notes, &resolvedAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find damage report by ID", err)
	}
	v.ActualCost = pgconv.MoneyPtrFromNullDecimal(actualCost)
	v.AdminNotes = pgconv.StringPtrFromPgtype(notes)
	v.ResolvedAt = pgconv.TimePtrFromPgtype(resolvedAt)
	v.CreatedAt = createdAt.Time.UTC()
	v.UpdatedAt = updatedAt.Time.UTC()
	return &v, nil
}
