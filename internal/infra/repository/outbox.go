package repository

import (
	"context"
	"time"

	"car-rental-api/internal/infra"
	"car-rental-api/internal/infra/codec"
	"car-rental-api/internal/infra/db"
	"car-rental-api/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

func (r *OutboxRepository) Append(ctx context.Context, e shared.Event) error {
	payload, err := codec.EncodePayload(e)
	if err != nil {
		return err
	}

	query, args, err := db.Build(db.Dialect.Insert("outbox_events").
		Rows(goqu.Record{
			"id":           uuid.New(),
			"topic":        e.Topic,
			"aggregate_id": e.AggregateID,
			"payload":      string(payload),
			"status":       shared.OutboxStatusPending,
			"available_at": e.OccurredAt,
			"created_at":   e.OccurredAt,
		}).
		Prepared(true))
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to append outbox event", err)
	}
	return nil
}

// FetchPending locks due events in creation order. Rows held by another
// relay are skipped rather than waited on.
func (r *OutboxRepository) FetchPending(ctx context.Context, now time.Time, limit int) ([]shared.OutboxMessage, error) {
	query, args, err := db.Build(db.Dialect.From("outbox_events").
		Select("id", "topic", "aggregate_id", "payload", "attempts", "created_at").
		Where(
			goqu.C("status").Eq(shared.OutboxStatusPending),
			goqu.C("available_at").Lte(now),
		).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc()).
		Limit(uint(limit)).
		ForUpdate(exp.SkipLocked).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to fetch outbox events", err)
	}
	defer rows.Close()

	var out []shared.OutboxMessage
	for rows.Next() {
		var (
			m         shared.OutboxMessage
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&m.ID, &m.Topic, &m.AggregateID, &m.Payload, &m.Attempts, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox event", err)
		}
		m.CreatedAt = createdAt.Time.UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate outbox events", err)
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uuid.UUID, now time.Time) error {
	return r.update(ctx, id, "failed to mark outbox event sent", goqu.Record{
		"status":   shared.OutboxStatusSent,
		"attempts": goqu.L("attempts + 1"),
		"sent_at":  now,
	})
}

// MarkFailed records a failed delivery. The event is retried at retryAt
// unless giveUp is set.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastErr string, retryAt time.Time, giveUp bool) error {
	status := shared.OutboxStatusPending
	if giveUp {
		status = shared.OutboxStatusFailed
	}
	return r.update(ctx, id, "failed to mark outbox event failed", goqu.Record{
		"status":       status,
		"attempts":     goqu.L("attempts + 1"),
		"last_error":   lastErr,
		"available_at": retryAt,
	})
}

func (r *OutboxRepository) update(ctx context.Context, id uuid.UUID, msg string, set goqu.Record) error {
	query, args, err := db.Build(db.Dialect.Update("outbox_events").
		Set(set).
		Where(goqu.C("id").Eq(id)).
		Prepared(true))
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr(msg, err)
	}
	return nil
}
