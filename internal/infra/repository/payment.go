package repository

import (
	"context"

	"car-rental-api/internal/domain/payment"
	"car-rental-api/internal/infra"
	"car-rental-api/internal/infra/db"
	"car-rental-api/internal/infra/repository/converter"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) (bool, error) {
	query, args, err := db.Build(db.Dialect.Insert("payments").
		Rows(converter.PaymentToRecord(p)).
		OnConflict(goqu.DoNothing()).
		Prepared(true))
	if err != nil {
		return false, err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, infra.WrapRepoErr("failed to create payment", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PaymentRepository) FindByKey(ctx context.Context, idempotencyKey string) (*payment.Payment, error) {
	return r.findOne(ctx, goqu.C("idempotency_key").Eq(idempotencyKey), false)
}

func (r *PaymentRepository) GetByKeyForUpdate(ctx context.Context, idempotencyKey string) (*payment.Payment, error) {
	return r.findOne(ctx, goqu.C("idempotency_key").Eq(idempotencyKey), true)
}

// FindPaidByBooking locks the settled payment of a booking. At most one
// exists per booking.
func (r *PaymentRepository) FindPaidByBooking(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	return r.findOne(ctx, goqu.And(
		goqu.C("booking_id").Eq(bookingID),
		goqu.C("status").Eq(payment.StatusPaid.String()),
	), true)
}

func (r *PaymentRepository) findOne(ctx context.Context, where exp.Expression, lock bool) (*payment.Payment, error) {
	stmt := db.Dialect.From("payments").
		Select(converter.PaymentColumns...).
		Where(where).
		Prepared(true)
	if lock {
		stmt = stmt.ForUpdate(exp.Wait)
	}
	query, args, err := db.Build(stmt)
	if err != nil {
		return nil, err
	}

	p, err := converter.ScanPayment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return p, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	query, args, err := db.Build(db.Dialect.Update("payments").
		Set(converter.PaymentMutableRecord(p)).
		Where(goqu.C("id").Eq(p.ID())).
		Prepared(true))
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "payment not found")
	}
	return nil
}
