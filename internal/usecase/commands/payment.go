package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/payment"
	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/infra"
	"car-rental-api/internal/pkg/clock"
	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=payment.go -destination=../../testutil/mock/commandsmock/payment.go -package=commandsmock

type PaymentCommands interface {
	Pay(ctx context.Context, actor user.Actor, in PayInput) (*PayResult, error)
	HandleCallback(ctx context.Context, in CallbackInput) (*AttachPaymentResult, error)
	MarkRefunded(ctx context.Context, actor user.Actor, bookingID uuid.UUID, reference string) (*booking.Booking, error)
}

type PayInput struct {
	BookingID   uuid.UUID
	SourceToken string
	// Attempt 0 starts the next attempt. Passing a previous attempt number
	// retries it with the same idempotency key.
	Attempt int
}

type PayResult struct {
	Booking        *booking.Booking
	Payment        *payment.Payment
	Attempt        int
	IdempotencyKey string
}

type CallbackInput struct {
	IdempotencyKey string
	TransactionID  string
	Succeeded      bool
	FailureReason  string
}

type paymentUseCaseImpl struct {
	uow           shared.UnitOfWork
	bookings      BookingCommands
	gateway       PaymentGateway
	clock         clock.Clock
	chargeTimeout time.Duration
}

func NewPaymentUseCase(
	uow shared.UnitOfWork,
	bookings BookingCommands,
	gateway PaymentGateway,
	clk clock.Clock,
	chargeTimeout time.Duration,
) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:           uow,
		bookings:      bookings,
		gateway:       gateway,
		clock:         clk,
		chargeTimeout: chargeTimeout,
	}
}

type pendingCharge struct {
	booking *booking.Booking
	payment *payment.Payment
	amount  money.Money
	settled bool
}

// Pay reserves a payment attempt, charges the gateway outside any
// transaction and records the definitive outcome. A gateway timeout leaves
// the payment pending and returns ErrPaymentOutcomeUnknown.
func (uc *paymentUseCaseImpl) Pay(ctx context.Context, actor user.Actor, in PayInput) (*PayResult, error) {
	if in.SourceToken == "" {
		return nil, ErrMissingSourceToken
	}
	if in.Attempt < 0 {
		return nil, ErrInvalidAttempt
	}

	charge, err := uc.reserveAttempt(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	p := charge.payment
	result := &PayResult{
		Booking:        charge.booking,
		Payment:        p,
		Attempt:        p.Attempt(),
		IdempotencyKey: p.IdempotencyKey(),
	}
	if charge.settled {
		return result, nil
	}

	chargeCtx, cancel := context.WithTimeout(ctx, uc.chargeTimeout)
	defer cancel()
	res, err := uc.gateway.Charge(chargeCtx, ChargeRequest{
		Amount:         charge.amount,
		SourceToken:    in.SourceToken,
		IdempotencyKey: p.IdempotencyKey(),
	})
	if err != nil {
		slog.WarnContext(ctx, "payment outcome unknown",
			"booking_id", in.BookingID,
			"attempt", p.Attempt(),
			"idempotency_key", p.IdempotencyKey(),
			"timeout", errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrGatewayTimeout),
			"error", err.Error())
		return result, errs.Wrapf(ErrPaymentOutcomeUnknown, "charge: %v", err)
	}

	attached, err := uc.bookings.AttachPayment(ctx, PaymentOutcome{
		BookingID:      in.BookingID,
		IdempotencyKey: p.IdempotencyKey(),
		TransactionID:  res.TransactionID,
		Succeeded:      res.Succeeded,
		FailureReason:  res.FailureReason,
	})
	if err != nil {
		return nil, err
	}
	result.Booking = attached.Booking
	result.Payment = attached.Payment

	if !res.Succeeded {
		slog.InfoContext(ctx, "payment declined", "booking_id", in.BookingID, "attempt", p.Attempt(), "reason", res.FailureReason)
		return result, errs.Wrapf(ErrPaymentDeclined, "%s", res.FailureReason)
	}
	slog.InfoContext(ctx, "payment captured", "booking_id", in.BookingID, "attempt", p.Attempt(), "transaction_id", res.TransactionID)
	return result, nil
}

func (uc *paymentUseCaseImpl) reserveAttempt(ctx context.Context, actor user.Actor, in PayInput) (*pendingCharge, error) {
	var charge *pendingCharge
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		charge = nil
		now := uc.clock.Now()

		b, derr := tx.Bookings().GetForUpdate(ctx, in.BookingID)
		if derr != nil {
			return notFoundAs(derr, booking.ErrBookingNotFound)
		}
		if !actor.CanAccess(b.UserID()) {
			return booking.ErrAccessDenied
		}

		attempt := in.Attempt
		if attempt > b.NextPaymentAttempt() {
			return ErrInvalidAttempt
		}
		// A new attempt may only follow a settled one; an unanswered charge
		// is retried under its own key.
		if latest := b.PaymentAttempts(); latest > 0 && (attempt == 0 || attempt == b.NextPaymentAttempt()) {
			outstanding, derr := attemptOutstanding(ctx, tx, b.ID(), latest)
			if derr != nil {
				return derr
			}
			if outstanding {
				if attempt != 0 {
					return ErrAttemptOutstanding
				}
				attempt = latest
			}
		}
		if attempt == 0 {
			attempt = b.NextPaymentAttempt()
		}

		key, derr := payment.NewIdempotencyKey(b.ID(), attempt)
		if derr != nil {
			return derr
		}
		existing, derr := tx.Payments().GetByKeyForUpdate(ctx, key)
		switch {
		case derr == nil:
			switch existing.Status() {
			case payment.StatusPending:
				if derr = b.EnsurePayable(); derr != nil {
					return derr
				}
				charge = &pendingCharge{booking: b, payment: existing, amount: existing.Amount()}
				return nil
			case payment.StatusFailed:
				return ErrAttemptAlreadyFailed
			default:
				charge = &pendingCharge{booking: b, payment: existing, amount: existing.Amount(), settled: true}
				return nil
			}
		case !infra.IsKind(derr, infra.KindNotFound):
			return derr
		}

		if derr = b.EnsurePayable(); derr != nil {
			return derr
		}
		p, derr := payment.NewPendingPayment(uuid.New(), b.ID(), attempt, b.TotalPrice(), now)
		if derr != nil {
			return derr
		}
		if _, derr = tx.Payments().Create(ctx, p); derr != nil {
			return derr
		}
		b.StartPaymentAttempt(attempt, now)
		if derr = tx.Bookings().Update(ctx, b); derr != nil {
			return derr
		}
		charge = &pendingCharge{booking: b, payment: p, amount: p.Amount()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return charge, nil
}

// attemptOutstanding reports whether the given attempt was charged without
// a definitive answer yet.
func attemptOutstanding(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, attempt int) (bool, error) {
	key, err := payment.NewIdempotencyKey(bookingID, attempt)
	if err != nil {
		return false, err
	}
	p, err := tx.Payments().GetByKeyForUpdate(ctx, key)
	switch {
	case err == nil:
		return p.Status() == payment.StatusPending, nil
	case infra.IsKind(err, infra.KindNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (uc *paymentUseCaseImpl) HandleCallback(ctx context.Context, in CallbackInput) (*AttachPaymentResult, error) {
	p, err := uc.uow.CommandReads().PaymentByKey(ctx, in.IdempotencyKey)
	if err != nil {
		return nil, notFoundAs(err, payment.ErrPaymentNotFound)
	}
	return uc.bookings.AttachPayment(ctx, PaymentOutcome{
		BookingID:      p.BookingID(),
		IdempotencyKey: in.IdempotencyKey,
		TransactionID:  in.TransactionID,
		Succeeded:      in.Succeeded,
		FailureReason:  in.FailureReason,
	})
}

// MarkRefunded records a refund issued at the provider under reference.
func (uc *paymentUseCaseImpl) MarkRefunded(ctx context.Context, actor user.Actor, bookingID uuid.UUID, reference string) (*booking.Booking, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	var updated *booking.Booking
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		b, derr := tx.Bookings().GetForUpdate(ctx, bookingID)
		if derr != nil {
			return notFoundAs(derr, booking.ErrBookingNotFound)
		}
		if derr = b.MarkRefunded(actor, now); derr != nil {
			return derr
		}
		p, derr := tx.Payments().FindPaidByBooking(ctx, b.ID())
		if derr != nil {
			return notFoundAs(derr, payment.ErrPaymentNotFound)
		}
		if derr = p.Refund(now); derr != nil {
			return derr
		}
		if derr = tx.Payments().Update(ctx, p); derr != nil {
			return derr
		}
		if derr = tx.Bookings().Update(ctx, b); derr != nil {
			return derr
		}
		if derr = tx.Outbox().Append(ctx, paymentEvent(shared.TopicPaymentRefunded, b, p, now)); derr != nil {
			return derr
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "payment refunded", "booking_id", bookingID, "reference", reference, "admin_id", actor.UserID)
	return updated, nil
}
