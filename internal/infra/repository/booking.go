package repository

import (
	"context"
	"errors"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/payment"
	"car-rental-api/internal/infra"
	"car-rental-api/internal/infra/db"
	"car-rental-api/internal/infra/repository/converter"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var activeStatuses = []any{booking.StatusPending.String(), booking.StatusConfirmed.String()}

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query, args, err := db.Build(db.Dialect.Insert("bookings").
		Rows(converter.BookingToRecord(b)).
		Prepared(true))
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.find(ctx, id, false)
}

func (r *BookingRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.find(ctx, id, true)
}

func (r *BookingRepository) find(ctx context.Context, id uuid.UUID, lock bool) (*booking.Booking, error) {
	stmt := db.Dialect.From("bookings").
		Select(converter.BookingColumns...).
		Where(goqu.C("id").Eq(id)).
		Prepared(true)
	if lock {
		stmt = stmt.ForUpdate(exp.Wait)
	}
	query, args, err := db.Build(stmt)
	if err != nil {
		return nil, err
	}

	b, err := converter.ScanBooking(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return b, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	query, args, err := db.Build(db.Dialect.Update("bookings").
		Set(converter.BookingMutableRecord(b)).
		Where(goqu.C("id").Eq(b.ID())).
		Prepared(true))
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "booking not found")
	}
	return nil
}

func (r *BookingRepository) HasOverlap(ctx context.Context, carID uuid.UUID, period booking.Period) (bool, error) {
	query, args, err := db.Build(db.Dialect.From("bookings").
		Select(goqu.L("1")).
		Where(
			goqu.C("car_id").Eq(carID),
			goqu.C("status").In(activeStatuses...),
			goqu.C("start_at").Lt(period.End()),
			goqu.C("end_at").Gt(period.Start()),
		).
		Limit(1).
		Prepared(true))
	if err != nil {
		return false, err
	}

	var one int
	err = r.db.QueryRow(ctx, query, args...).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	default:
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}
}

// ExpireStalePending skips bookings with a charge still awaiting its
// outcome; the callback or a retry settles those.
func (r *BookingRepository) ExpireStalePending(ctx context.Context, cutoff, now time.Time) ([]uuid.UUID, error) {
	inFlight := db.Dialect.From("payments").
		Select(goqu.L("1")).
		Where(
			goqu.I("payments.booking_id").Eq(goqu.I("bookings.id")),
			goqu.I("payments.status").Eq(payment.StatusPending.String()),
		)
	query, args, err := db.Build(db.Dialect.Update("bookings").
		Set(goqu.Record{"status": booking.StatusCancelled.String(), "updated_at": now}).
		Where(
			goqu.C("status").Eq(booking.StatusPending.String()),
			goqu.C("payment_status").Neq(booking.PaymentPaid.String()),
			goqu.C("created_at").Lt(cutoff),
			goqu.L("NOT EXISTS ?", inFlight),
		).
		Returning("id").
		Prepared(true))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to expire pending bookings", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read expired booking ids", err)
	}
	return ids, nil
}
