package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/car"
	"car-rental-api/internal/domain/payment"
	"car-rental-api/internal/domain/promotion"
	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/infra"
	"car-rental-api/internal/pkg/clock"
	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../testutil/mock/commandsmock/booking.go -package=commandsmock

const (
	createBookingEndpoint = "POST /bookings"
	idempotencyTTL        = 24 * time.Hour
)

type BookingCommands interface {
	Create(ctx context.Context, actor user.Actor, in CreateBookingInput) (*CreateBookingResult, error)
	UpdateStatus(ctx context.Context, actor user.Actor, bookingID uuid.UUID, next booking.Status) (*booking.Booking, error)
	Cancel(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*booking.Booking, error)
	AttachPayment(ctx context.Context, out PaymentOutcome) (*AttachPaymentResult, error)
	ReleasePromotion(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*booking.Booking, error)
	ExpireStalePending(ctx context.Context, olderThan time.Duration) (int, error)
}

type CreateBookingInput struct {
	CarID          uuid.UUID
	StartAt        time.Time
	EndAt          time.Time
	PromotionCode  *string
	IdempotencyKey *uuid.UUID
}

type CreateBookingResult struct {
	Booking *booking.Booking
	// PromotionRejection explains why a supplied code was not applied.
	PromotionRejection string
	IsReplayed         bool
}

// PaymentOutcome is a definitive answer for one charge attempt.
type PaymentOutcome struct {
	BookingID      uuid.UUID
	IdempotencyKey string
	TransactionID  string
	Succeeded      bool
	FailureReason  string
}

type AttachPaymentResult struct {
	Booking    *booking.Booking
	Payment    *payment.Payment
	IsReplayed bool
}

type bookingUseCaseImpl struct {
	uow     shared.UnitOfWork
	pricing booking.PriceCalculator
	clock   clock.Clock
}

func NewBookingUseCase(uow shared.UnitOfWork, pricing booking.PriceCalculator, clk clock.Clock) BookingCommands {
	return &bookingUseCaseImpl{uow: uow, pricing: pricing, clock: clk}
}

func (uc *bookingUseCaseImpl) Create(ctx context.Context, actor user.Actor, in CreateBookingInput) (*CreateBookingResult, error) {
	period, err := booking.NewPeriod(in.StartAt, in.EndAt)
	if err != nil {
		return nil, err
	}
	requestHash := calculateRequestHash(in)

	var result *CreateBookingResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = nil
		now := uc.clock.Now()

		if in.IdempotencyKey != nil {
			replayed, derr := uc.claimIdempotencyKey(ctx, tx, *in.IdempotencyKey, actor.UserID, requestHash, now)
			if derr != nil {
				return derr
			}
			if replayed != nil {
				result = &CreateBookingResult{Booking: replayed, IsReplayed: true}
				return nil
			}
		}

		c, derr := tx.Cars().GetForUpdate(ctx, in.CarID)
		if derr != nil {
			return notFoundAs(derr, car.ErrCarNotFound)
		}
		if derr = c.EnsureRentable(); derr != nil {
			return derr
		}

		overlap, derr := tx.Bookings().HasOverlap(ctx, c.ID(), period)
		if derr != nil {
			return derr
		}
		if overlap {
			return booking.ErrBookingConflict
		}

		quote := uc.pricing.Quote(period.Start(), period.End(), c.DailyRate())

		applied, rejection, derr := uc.applyPromotion(ctx, tx, in.PromotionCode, c.ID(), quote.BasePrice, now)
		if derr != nil {
			return derr
		}

		b, derr := booking.NewBooking(uuid.New(), c.ID(), actor.UserID, period, quote, applied, now)
		if derr != nil {
			return derr
		}
		if derr = tx.Bookings().Create(ctx, b); derr != nil {
			return derr
		}
		if derr = tx.Outbox().Append(ctx, bookingEvent(shared.TopicBookingCreated, b, now)); derr != nil {
			return derr
		}
		if in.IdempotencyKey != nil {
			if derr = tx.Idempotency().Complete(ctx, *in.IdempotencyKey, actor.UserID, b.ID()); derr != nil {
				return derr
			}
		}

		result = &CreateBookingResult{Booking: b, PromotionRejection: rejection}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.IsReplayed {
		slog.InfoContext(ctx, "booking created",
			"booking_id", result.Booking.ID(),
			"car_id", result.Booking.CarID(),
			"total_price", result.Booking.TotalPrice().String(),
			"discount", result.Booking.Discount().String())
	}
	return result, nil
}

// applyPromotion validates and consumes code. Rejections degrade to full
// price and are reported as a reason string; only infrastructure failures
// are returned as errors.
func (uc *bookingUseCaseImpl) applyPromotion(
	ctx context.Context,
	tx shared.Tx,
	rawCode *string,
	carID uuid.UUID,
	base money.Money,
	now time.Time,
) (*booking.AppliedPromotion, string, error) {
	if rawCode == nil || *rawCode == "" {
		return nil, "", nil
	}

	reject := func(reason error) (*booking.AppliedPromotion, string, error) {
		slog.InfoContext(ctx, "promotion not applied", "code", *rawCode, "car_id", carID, "reason", reason.Error())
		return nil, reason.Error(), nil
	}

	code, err := promotion.NewCode(*rawCode)
	if err != nil {
		return reject(promotion.ErrPromotionNotFound)
	}

	p, err := tx.Reads().PromotionByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return reject(promotion.ErrPromotionNotFound)
		}
		return nil, "", err
	}

	if err := p.Validate(carID, base, now); err != nil {
		return reject(err)
	}
	discount := p.CalculateDiscount(base)

	ok, err := tx.Promotions().Consume(ctx, p.ID())
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return reject(promotion.ErrUsageLimitExhausted)
	}

	return &booking.AppliedPromotion{ID: p.ID(), Code: p.Code().String(), Discount: discount}, "", nil
}

func (uc *bookingUseCaseImpl) claimIdempotencyKey(
	ctx context.Context,
	tx shared.Tx,
	key, userID uuid.UUID,
	requestHash string,
	now time.Time,
) (*booking.Booking, error) {
	expiresAt := now.Add(idempotencyTTL)
	inserted, err := tx.Idempotency().TryInsert(ctx, key, userID, createBookingEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Wrap(err, "claim idempotency key")
	}
	if inserted {
		return nil, nil
	}

	existing, err := tx.Reads().IdempotencyByKey(ctx, key, userID)
	if err != nil {
		return nil, errs.Wrap(err, "load idempotency key")
	}

	if now.After(existing.ExpiresAt) {
		claimed, err := tx.Idempotency().ClaimExpired(ctx, key, userID, requestHash, now, expiresAt)
		if err != nil {
			return nil, errs.Wrap(err, "claim expired idempotency key")
		}
		if claimed {
			return nil, nil
		}
	}

	if existing.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyMismatch
	}

	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		if existing.ResultBookingID == nil {
			return nil, errs.New("completed request missing result booking ID")
		}
		b, err := tx.Reads().BookingByID(ctx, *existing.ResultBookingID)
		if err != nil {
			return nil, notFoundAs(err, booking.ErrBookingNotFound)
		}
		return b, nil
	case shared.IdempotencyStatusProcessing:
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (uc *bookingUseCaseImpl) UpdateStatus(ctx context.Context, actor user.Actor, bookingID uuid.UUID, next booking.Status) (*booking.Booking, error) {
	return uc.mutate(ctx, bookingID, func(b *booking.Booking, now time.Time) (string, error) {
		return shared.TopicBookingStatusChanged, b.ChangeStatus(actor, next, now)
	})
}

func (uc *bookingUseCaseImpl) Cancel(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*booking.Booking, error) {
	return uc.mutate(ctx, bookingID, func(b *booking.Booking, now time.Time) (string, error) {
		return shared.TopicBookingCancelled, b.Cancel(actor, now)
	})
}

// mutate loads the booking under lock, applies change and persists it with
// its event. Nothing is written when change fails.
func (uc *bookingUseCaseImpl) mutate(
	ctx context.Context,
	bookingID uuid.UUID,
	change func(b *booking.Booking, now time.Time) (string, error),
) (*booking.Booking, error) {
	var updated *booking.Booking
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		b, derr := tx.Bookings().GetForUpdate(ctx, bookingID)
		if derr != nil {
			return notFoundAs(derr, booking.ErrBookingNotFound)
		}
		topic, derr := change(b, now)
		if derr != nil {
			return derr
		}
		if derr = tx.Bookings().Update(ctx, b); derr != nil {
			return derr
		}
		if derr = tx.Outbox().Append(ctx, bookingEvent(topic, b, now)); derr != nil {
			return derr
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *bookingUseCaseImpl) AttachPayment(ctx context.Context, out PaymentOutcome) (*AttachPaymentResult, error) {
	if out.Succeeded && out.TransactionID == "" {
		return nil, payment.ErrMissingTxID
	}

	var result *AttachPaymentResult
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = nil
		now := uc.clock.Now()

		b, derr := tx.Bookings().GetForUpdate(ctx, out.BookingID)
		if derr != nil {
			return notFoundAs(derr, booking.ErrBookingNotFound)
		}
		p, derr := tx.Payments().GetByKeyForUpdate(ctx, out.IdempotencyKey)
		if derr != nil {
			return notFoundAs(derr, payment.ErrPaymentNotFound)
		}
		if p.BookingID() != b.ID() {
			return ErrPaymentMismatch
		}

		if p.Status().IsSettled() {
			if (p.Status() == payment.StatusPaid) != out.Succeeded {
				slog.WarnContext(ctx, "conflicting outcome for settled payment ignored",
					"booking_id", b.ID(), "idempotency_key", p.IdempotencyKey(), "status", p.Status())
			}
			result = &AttachPaymentResult{Booking: b, Payment: p, IsReplayed: true}
			return nil
		}

		var topic string
		if out.Succeeded {
			if derr = b.MarkPaid(now); derr != nil {
				if errors.Is(derr, booking.ErrAlreadyPaid) {
					slog.ErrorContext(ctx, "second successful charge for paid booking needs a manual refund",
						"booking_id", b.ID(), "transaction_id", out.TransactionID)
				}
				return derr
			}
			if derr = p.Succeed(out.TransactionID, now); derr != nil {
				return derr
			}
			topic = shared.TopicPaymentSucceeded
		} else {
			if derr = p.Fail(out.TransactionID, out.FailureReason, now); derr != nil {
				return derr
			}
			// A late failure for a superseded attempt must not unsettle a paid booking.
			if b.PaymentStatus().CanTransitionTo(booking.PaymentFailed) {
				if derr = b.MarkPaymentFailed(now); derr != nil {
					return derr
				}
			}
			topic = shared.TopicPaymentFailed
		}

		if derr = tx.Payments().Update(ctx, p); derr != nil {
			return derr
		}
		if derr = tx.Bookings().Update(ctx, b); derr != nil {
			return derr
		}
		if derr = tx.Outbox().Append(ctx, paymentEvent(topic, b, p, now)); derr != nil {
			return derr
		}
		result = &AttachPaymentResult{Booking: b, Payment: p}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *bookingUseCaseImpl) ReleasePromotion(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*booking.Booking, error) {
	var updated *booking.Booking
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		b, derr := tx.Bookings().GetForUpdate(ctx, bookingID)
		if derr != nil {
			return notFoundAs(derr, booking.ErrBookingNotFound)
		}
		if derr = b.ReleasePromotion(actor, now); derr != nil {
			return derr
		}
		released, derr := tx.Promotions().Release(ctx, *b.PromotionID())
		if derr != nil {
			return derr
		}
		if !released {
			slog.WarnContext(ctx, "promotion usage already at zero", "promotion_id", *b.PromotionID(), "booking_id", b.ID())
		}
		if derr = tx.Bookings().Update(ctx, b); derr != nil {
			return derr
		}
		if derr = tx.Outbox().Append(ctx, bookingEvent(shared.TopicPromotionReleased, b, now)); derr != nil {
			return derr
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *bookingUseCaseImpl) ExpireStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	var expired int
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		ids, derr := tx.Bookings().ExpireStalePending(ctx, now.Add(-olderThan), now)
		if derr != nil {
			return derr
		}
		for _, id := range ids {
			e := shared.Event{
				Topic:       shared.TopicBookingExpired,
				AggregateID: id,
				Payload:     map[string]any{"booking_id": id, "status": booking.StatusCancelled},
				OccurredAt:  now,
			}
			if derr = tx.Outbox().Append(ctx, e); derr != nil {
				return derr
			}
		}
		expired = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}

func calculateRequestHash(in CreateBookingInput) string {
	code := ""
	if in.PromotionCode != nil {
		code = *in.PromotionCode
	}
	raw := fmt.Sprintf("%s|%d|%d|%s", in.CarID, in.StartAt.UnixMicro(), in.EndAt.UnixMicro(), code)
	hash := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(hash[:])
}
