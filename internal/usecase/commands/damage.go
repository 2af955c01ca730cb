package commands

import (
	"context"
	"log/slog"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/pkg/clock"
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=damage.go -destination=../../testutil/mock/commandsmock/damage.go -package=commandsmock

type DamageCommands interface {
	Report(ctx context.Context, actor user.Actor, in ReportDamageInput) (*damage.Report, error)
	MarkUnderReview(ctx context.Context, actor user.Actor, reportID uuid.UUID) (*damage.Report, error)
	Approve(ctx context.Context, actor user.Actor, reportID uuid.UUID, actualCost money.Money, notes string) (*damage.Report, error)
	Reject(ctx context.Context, actor user.Actor, reportID uuid.UUID, notes string) (*damage.Report, error)
	Resolve(ctx context.Context, actor user.Actor, reportID uuid.UUID) (*damage.Report, error)
}

type ReportDamageInput struct {
	BookingID     uuid.UUID
	Description   string
	EstimatedCost money.Money
}

type damageUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewDamageUseCase(uow shared.UnitOfWork, clk clock.Clock) DamageCommands {
	return &damageUseCaseImpl{uow: uow, clock: clk}
}

func (uc *damageUseCaseImpl) Report(ctx context.Context, actor user.Actor, in ReportDamageInput) (*damage.Report, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	var created *damage.Report
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		b, derr := tx.Reads().BookingByID(ctx, in.BookingID)
		if derr != nil {
			return notFoundAs(derr, booking.ErrBookingNotFound)
		}
		if b.Status() != booking.StatusCompleted {
			return damage.ErrBookingNotCompleted
		}
		r, derr := damage.NewReport(uuid.New(), b.ID(), b.CarID(), actor.UserID, in.Description, in.EstimatedCost, now)
		if derr != nil {
			return derr
		}
		if derr = tx.DamageReports().Create(ctx, r); derr != nil {
			return derr
		}
		if derr = tx.Outbox().Append(ctx, damageEvent(shared.TopicDamageReported, r, now)); derr != nil {
			return derr
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "damage reported",
		"report_id", created.ID(),
		"booking_id", created.BookingID(),
		"estimated_cost", created.EstimatedCost().String())
	return created, nil
}

func (uc *damageUseCaseImpl) MarkUnderReview(ctx context.Context, actor user.Actor, reportID uuid.UUID) (*damage.Report, error) {
	return uc.transition(ctx, actor, reportID, func(r *damage.Report, now time.Time) (string, error) {
		return shared.TopicDamageReviewStarted, r.MarkUnderReview(now)
	})
}

// Approve fixes the actual cost. Charging it is left to downstream
// consumers of damage.approved.
func (uc *damageUseCaseImpl) Approve(ctx context.Context, actor user.Actor, reportID uuid.UUID, actualCost money.Money, notes string) (*damage.Report, error) {
	return uc.transition(ctx, actor, reportID, func(r *damage.Report, now time.Time) (string, error) {
		return shared.TopicDamageApproved, r.Approve(actualCost, notes, now)
	})
}

func (uc *damageUseCaseImpl) Reject(ctx context.Context, actor user.Actor, reportID uuid.UUID, notes string) (*damage.Report, error) {
	return uc.transition(ctx, actor, reportID, func(r *damage.Report, now time.Time) (string, error) {
		return shared.TopicDamageRejected, r.Reject(notes, now)
	})
}

func (uc *damageUseCaseImpl) Resolve(ctx context.Context, actor user.Actor, reportID uuid.UUID) (*damage.Report, error) {
	return uc.transition(ctx, actor, reportID, func(r *damage.Report, now time.Time) (string, error) {
		return shared.TopicDamageResolved, r.Resolve(now)
	})
}

func (uc *damageUseCaseImpl) transition(
	ctx context.Context,
	actor user.Actor,
	reportID uuid.UUID,
	change func(r *damage.Report, now time.Time) (string, error),
) (*damage.Report, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	var updated *damage.Report
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		r, derr := tx.DamageReports().GetForUpdate(ctx, reportID)
		if derr != nil {
			return notFoundAs(derr, damage.ErrReportNotFound)
		}
		topic, derr := change(r, now)
		if derr != nil {
			return derr
		}
		if derr = tx.DamageReports().Update(ctx, r); derr != nil {
			return derr
		}
		if derr = tx.Outbox().Append(ctx, damageEvent(topic, r, now)); derr != nil {
			return derr
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "damage report updated", "report_id", reportID, "status", updated.Status())
	return updated, nil
}
