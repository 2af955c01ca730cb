package repository

import (
	"context"
	"time"

	"car-rental-api/internal/infra"
	"car-rental-api/internal/infra/db"
	"car-rental-api/internal/infra/repository/converter"
	"car-rental-api/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	query, args, err := db.Build(db.Dialect.Insert("idempotency_keys").
		Rows(goqu.Record{
			"key":          key,
			"user_id":      userID,
			"endpoint":     endpoint,
			"request_hash": requestHash,
			"status":       shared.IdempotencyStatusProcessing,
			"expires_at":   expiresAt,
		}).
		OnConflict(goqu.DoNothing()).
		Prepared(true))
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	query, args, err := db.Build(db.Dialect.From("idempotency_keys").
		Select(converter.IdempotencyColumns...).
		Where(goqu.C("key").Eq(key), goqu.C("user_id").Eq(userID)).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	rec, err := converter.ScanIdempotency(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	return rec, nil
}

// ClaimExpired restarts an expired key for a new request. The expiry
// condition is rechecked in the statement.
func (r *IdempotencyRepository) ClaimExpired(ctx context.Context, key, userID uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error) {
	query, args, err := db.Build(db.Dialect.Update("idempotency_keys").
		Set(goqu.Record{
			"request_hash":      requestHash,
			"status":            shared.IdempotencyStatusProcessing,
			"result_booking_id": nil,
			"expires_at":        expiresAt,
			"updated_at":        now,
		}).
		Where(goqu.C("key").Eq(key), goqu.C("user_id").Eq(userID), goqu.C("expires_at").Lt(now)).
		Prepared(true))
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim expired idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key, userID, bookingID uuid.UUID) error {
	query, args, err := db.Build(db.Dialect.Update("idempotency_keys").
		Set(goqu.Record{
			"status":            shared.IdempotencyStatusCompleted,
			"result_booking_id": bookingID,
			"updated_at":        goqu.L("now()"),
		}).
		Where(goqu.C("key").Eq(key), goqu.C("user_id").Eq(userID)).
		Prepared(true))
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	return nil
}
