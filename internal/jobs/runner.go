// Package jobs runs the periodic background work: expiring stale pending
// bookings and relaying outbox events to the broker.
package jobs

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"car-rental-api/internal/pkg/clock"
	"car-rental-api/internal/pkg/config"
	"car-rental-api/internal/usecase/commands"
	"car-rental-api/internal/usecase/shared"
)

const (
	runTimeout     = time.Minute
	publishTimeout = 5 * time.Second
	maxRetryDelay  = 5 * time.Minute
)

// Publisher delivers one relayed event.
type Publisher interface {
	Publish(ctx context.Context, msg shared.OutboxMessage) error
}

type Runner struct {
	bookings  commands.BookingCommands
	uow       shared.UnitOfWork
	publisher Publisher
	clock     clock.Clock
	cfg       config.Config
}

func NewRunner(
	bookings commands.BookingCommands,
	uow shared.UnitOfWork,
	publisher Publisher,
	clk clock.Clock,
	cfg config.Config,
) *Runner {
	return &Runner{bookings: bookings, uow: uow, publisher: publisher, clock: clk, cfg: cfg}
}

func (r *Runner) ExpireStalePending() {
	r.runWithRecovery("expire_stale_pending", func(ctx context.Context) error {
		n, err := r.bookings.ExpireStalePending(ctx, r.cfg.Booking.PendingTTL)
		if err != nil {
			return err
		}
		if n > 0 {
			slog.InfoContext(ctx, "expired stale pending bookings", "count", n, "ttl", r.cfg.Booking.PendingTTL)
		}
		return nil
	})
}

func (r *Runner) RelayOutbox() {
	r.runWithRecovery("relay_outbox", func(ctx context.Context) error {
		_, err := r.RelayBatch(ctx)
		return err
	})
}

// RelayBatch publishes one batch of due events and reports how many were
// delivered. Rows stay locked until the batch is recorded, so concurrent
// relays never publish the same event.
func (r *Runner) RelayBatch(ctx context.Context) (int, error) {
	var sent int
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := r.clock.Now()
		msgs, err := tx.Outbox().FetchPending(ctx, now, r.cfg.Messaging.BatchSize)
		if err != nil {
			return err
		}

		for _, msg := range msgs {
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			perr := r.publisher.Publish(pubCtx, msg)
			cancel()

			if perr == nil {
				if err := tx.Outbox().MarkSent(ctx, msg.ID, now); err != nil {
					return err
				}
				sent++
				continue
			}

			giveUp := msg.Attempts+1 >= r.cfg.Messaging.MaxAttempts
			retryAt := now.Add(retryDelay(msg.Attempts))
			if giveUp {
				slog.ErrorContext(ctx, "outbox event dropped after max attempts",
					"event_id", msg.ID, "topic", msg.Topic, "attempts", msg.Attempts+1, "error", perr)
			} else {
				slog.WarnContext(ctx, "outbox publish failed",
					"event_id", msg.ID, "topic", msg.Topic, "retry_at", retryAt, "error", perr)
			}
			if err := tx.Outbox().MarkFailed(ctx, msg.ID, perr.Error(), retryAt, giveUp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sent, nil
}

// retryDelay doubles from one second per failed attempt.
func retryDelay(attempts int) time.Duration {
	if attempts >= 9 {
		return maxRetryDelay
	}
	return min(time.Duration(1<<attempts)*time.Second, maxRetryDelay)
}

func (r *Runner) runWithRecovery(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("job panicked", "job", name, "panic", rec, "stack", string(debug.Stack()))
		}
	}()

	start := time.Now()
	if err := fn(ctx); err != nil {
		slog.Error("job failed", "job", name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("job finished", "job", name, "duration", time.Since(start))
}
