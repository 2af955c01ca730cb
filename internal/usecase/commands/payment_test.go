//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/payment"
	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/testutil/builder"
	"car-rental-api/internal/usecase/commands"
	"car-rental-api/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGateway answers charges from a queue of outcomes and counts the
// calls per idempotency key.
type scriptedGateway struct {
	mu      sync.Mutex
	outcome []func(req commands.ChargeRequest) (commands.ChargeResult, error)
	calls   map[string]int
}

func newScriptedGateway() *scriptedGateway {
	return &scriptedGateway{calls: map[string]int{}}
}

func (g *scriptedGateway) then(fn func(req commands.ChargeRequest) (commands.ChargeResult, error)) *scriptedGateway {
	g.outcome = append(g.outcome, fn)
	return g
}

func (g *scriptedGateway) approve() *scriptedGateway {
	return g.then(func(req commands.ChargeRequest) (commands.ChargeResult, error) {
		return commands.ChargeResult{Succeeded: true, TransactionID: "txn-" + req.IdempotencyKey[:8]}, nil
	})
}

func (g *scriptedGateway) decline(reason string) *scriptedGateway {
	return g.then(func(commands.ChargeRequest) (commands.ChargeResult, error) {
		return commands.ChargeResult{FailureReason: reason}, nil
	})
}

func (g *scriptedGateway) timeout() *scriptedGateway {
	return g.then(func(commands.ChargeRequest) (commands.ChargeResult, error) {
		return commands.ChargeResult{}, commands.ErrGatewayTimeout
	})
}

func (g *scriptedGateway) Charge(_ context.Context, req commands.ChargeRequest) (commands.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[req.IdempotencyKey]++
	if len(g.outcome) == 0 {
		panic("unexpected charge for " + req.IdempotencyKey)
	}
	next := g.outcome[0]
	g.outcome = g.outcome[1:]
	return next(req)
}

func (g *scriptedGateway) totalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}

type paymentFixture struct {
	*fixture
	gateway  *scriptedGateway
	payments commands.PaymentCommands
	booking  *booking.Booking
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	f := newFixture(t)
	gw := newScriptedGateway()
	b := builder.NewBookingBuilder(baseTime).WithUserID(f.customer.UserID).MustBuild()
	f.store.SeedBooking(b)
	return &paymentFixture{
		fixture:  f,
		gateway:  gw,
		payments: commands.NewPaymentUseCase(f.store, f.bookings, gw, f.clock, time.Second),
		booking:  b,
	}
}

func (f *paymentFixture) pay(t *testing.T, attempt int) (*commands.PayResult, error) {
	t.Helper()
	return f.payments.Pay(context.Background(), f.customer, commands.PayInput{
		BookingID:   f.booking.ID(),
		SourceToken: "tok_visa",
		Attempt:     attempt,
	})
}

func (f *paymentFixture) stored(t *testing.T) *booking.Booking {
	t.Helper()
	b, ok := f.store.Booking(f.booking.ID())
	require.True(t, ok)
	return b
}

func countTopic(topics []string, topic string) int {
	n := 0
	for _, t := range topics {
		if t == topic {
			n++
		}
	}
	return n
}

func TestPay(t *testing.T) {
	t.Run("successful charge confirms the booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.approve()

		res, err := f.pay(t, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Attempt)
		assert.Equal(t, payment.StatusPaid, res.Payment.Status())
		assert.Equal(t, "3000.00", res.Payment.Amount().String())

		b := f.stored(t)
		assert.Equal(t, booking.PaymentPaid, b.PaymentStatus())
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, 1, b.PaymentAttempts())
		assert.Equal(t, []string{shared.TopicPaymentSucceeded}, f.store.OutboxTopics())
	})

	t.Run("timeout then retry settles exactly once", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.timeout().approve()

		first, err := f.pay(t, 0)
		require.ErrorIs(t, err, commands.ErrPaymentOutcomeUnknown)
		require.NotNil(t, first)
		assert.Equal(t, payment.StatusPending, first.Payment.Status())
		assert.Equal(t, booking.PaymentPending, f.stored(t).PaymentStatus())

		retried, err := f.pay(t, first.Attempt)
		require.NoError(t, err)
		assert.Equal(t, first.IdempotencyKey, retried.IdempotencyKey)

		// The provider's webhook for the same charge arrives afterwards.
		cb, err := f.payments.HandleCallback(context.Background(), commands.CallbackInput{
			IdempotencyKey: first.IdempotencyKey,
			TransactionID:  "txn-late",
			Succeeded:      true,
		})
		require.NoError(t, err)
		assert.True(t, cb.IsReplayed)

		payments := f.store.PaymentsFor(f.booking.ID())
		require.Len(t, payments, 1)
		assert.Equal(t, payment.StatusPaid, payments[0].Status())
		assert.Equal(t, booking.PaymentPaid, f.stored(t).PaymentStatus())
		assert.Equal(t, 1, countTopic(f.store.OutboxTopics(), shared.TopicPaymentSucceeded))
		assert.Equal(t, 2, f.gateway.calls[first.IdempotencyKey])
	})

	t.Run("retry without an attempt number reuses the unanswered charge", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.timeout().approve()

		first, err := f.pay(t, 0)
		require.ErrorIs(t, err, commands.ErrPaymentOutcomeUnknown)

		retried, err := f.pay(t, 0)
		require.NoError(t, err)
		assert.Equal(t, first.Attempt, retried.Attempt)
		assert.Equal(t, first.IdempotencyKey, retried.IdempotencyKey)
		assert.Equal(t, 2, f.gateway.calls[first.IdempotencyKey])
		assert.Equal(t, 2, f.gateway.totalCalls())

		payments := f.store.PaymentsFor(f.booking.ID())
		require.Len(t, payments, 1)
		assert.Equal(t, payment.StatusPaid, payments[0].Status())
		assert.Equal(t, 1, f.stored(t).PaymentAttempts())
	})

	t.Run("new attempt is refused while one is unanswered", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.timeout()

		first, err := f.pay(t, 0)
		require.ErrorIs(t, err, commands.ErrPaymentOutcomeUnknown)

		_, err = f.pay(t, first.Attempt+1)
		assert.ErrorIs(t, err, commands.ErrAttemptOutstanding)
		assert.True(t, errs.IsKind(err, errs.ErrInvalidState))
		assert.Equal(t, 1, f.gateway.totalCalls())
		assert.Len(t, f.store.PaymentsFor(f.booking.ID()), 1)
	})

	t.Run("declined charge can be retried with a new attempt", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.decline("card_declined").approve()

		res, err := f.pay(t, 0)
		require.ErrorIs(t, err, commands.ErrPaymentDeclined)
		assert.True(t, errs.IsKind(err, errs.ErrPaymentFailed))
		assert.Equal(t, payment.StatusFailed, res.Payment.Status())
		assert.Equal(t, "card_declined", res.Payment.FailureReason())
		assert.Equal(t, booking.PaymentFailed, f.stored(t).PaymentStatus())

		_, err = f.pay(t, 1)
		assert.ErrorIs(t, err, commands.ErrAttemptAlreadyFailed)

		second, err := f.pay(t, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, second.Attempt)
		assert.NotEqual(t, res.IdempotencyKey, second.IdempotencyKey)
		assert.Equal(t, booking.PaymentPaid, f.stored(t).PaymentStatus())
		assert.Len(t, f.store.PaymentsFor(f.booking.ID()), 2)
	})

	t.Run("paid booking is not charged again", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.approve()
		_, err := f.pay(t, 0)
		require.NoError(t, err)

		_, err = f.pay(t, 0)
		assert.ErrorIs(t, err, booking.ErrAlreadyPaid)

		res, err := f.pay(t, 1)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPaid, res.Payment.Status())
		assert.Equal(t, 1, f.gateway.totalCalls())
	})

	t.Run("input and access checks", func(t *testing.T) {
		f := newPaymentFixture(t)
		ctx := context.Background()

		_, err := f.payments.Pay(ctx, f.customer, commands.PayInput{BookingID: f.booking.ID()})
		assert.ErrorIs(t, err, commands.ErrMissingSourceToken)

		_, err = f.pay(t, 5)
		assert.ErrorIs(t, err, commands.ErrInvalidAttempt)

		_, err = f.payments.Pay(ctx, user.NewActor(uuid.New(), user.RoleCustomer), commands.PayInput{
			BookingID:   f.booking.ID(),
			SourceToken: "tok_visa",
		})
		assert.ErrorIs(t, err, booking.ErrAccessDenied)

		_, err = f.payments.Pay(ctx, f.customer, commands.PayInput{BookingID: uuid.New(), SourceToken: "tok_visa"})
		assert.ErrorIs(t, err, booking.ErrBookingNotFound)

		assert.Zero(t, f.gateway.totalCalls())
		assert.Empty(t, f.store.PaymentsFor(f.booking.ID()))
	})

	t.Run("cancelled booking cannot be paid", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.bookings.Cancel(context.Background(), f.customer, f.booking.ID())
		require.NoError(t, err)

		_, err = f.pay(t, 0)
		assert.ErrorIs(t, err, booking.ErrNotPayable)
		assert.Zero(t, f.gateway.totalCalls())
	})
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("late success for a retried attempt is a replay", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.timeout().approve()

		first, err := f.pay(t, 0)
		require.ErrorIs(t, err, commands.ErrPaymentOutcomeUnknown)
		second, err := f.pay(t, 0)
		require.NoError(t, err)
		require.Equal(t, first.IdempotencyKey, second.IdempotencyKey)

		res, err := f.payments.HandleCallback(ctx, commands.CallbackInput{
			IdempotencyKey: first.IdempotencyKey,
			TransactionID:  "txn-late",
			Succeeded:      true,
		})
		require.NoError(t, err)
		assert.True(t, res.IsReplayed)
		assert.Equal(t, booking.PaymentPaid, f.stored(t).PaymentStatus())
		assert.Len(t, f.store.PaymentsFor(f.booking.ID()), 1)
		assert.Equal(t, 1, countTopic(f.store.OutboxTopics(), shared.TopicPaymentSucceeded))
	})

	t.Run("late failure does not unsettle a paid booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.timeout().approve()

		first, err := f.pay(t, 0)
		require.ErrorIs(t, err, commands.ErrPaymentOutcomeUnknown)
		_, err = f.pay(t, 0)
		require.NoError(t, err)

		res, err := f.payments.HandleCallback(ctx, commands.CallbackInput{
			IdempotencyKey: first.IdempotencyKey,
			Succeeded:      false,
			FailureReason:  "expired_card",
		})
		require.NoError(t, err)
		assert.True(t, res.IsReplayed)
		assert.Equal(t, payment.StatusPaid, res.Payment.Status())
		assert.Equal(t, booking.PaymentPaid, f.stored(t).PaymentStatus())
	})

	t.Run("success for an unanswered charge confirms the booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.timeout()

		first, err := f.pay(t, 0)
		require.ErrorIs(t, err, commands.ErrPaymentOutcomeUnknown)

		res, err := f.payments.HandleCallback(ctx, commands.CallbackInput{
			IdempotencyKey: first.IdempotencyKey,
			TransactionID:  "txn-webhook",
			Succeeded:      true,
		})
		require.NoError(t, err)
		assert.False(t, res.IsReplayed)
		assert.Equal(t, payment.StatusPaid, res.Payment.Status())
		assert.Equal(t, booking.StatusConfirmed, f.stored(t).Status())
	})

	t.Run("unknown key", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.payments.HandleCallback(ctx, commands.CallbackInput{IdempotencyKey: "nope", Succeeded: true, TransactionID: "t"})
		assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
	})

	t.Run("success without transaction id", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.timeout()
		first, err := f.pay(t, 0)
		require.ErrorIs(t, err, commands.ErrPaymentOutcomeUnknown)

		_, err = f.payments.HandleCallback(ctx, commands.CallbackInput{IdempotencyKey: first.IdempotencyKey, Succeeded: true})
		assert.ErrorIs(t, err, payment.ErrMissingTxID)
		assert.Equal(t, booking.PaymentPending, f.stored(t).PaymentStatus())
	})
}

func TestAttachPayment_Mismatch(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.timeout()
	first, err := f.pay(t, 0)
	require.ErrorIs(t, err, commands.ErrPaymentOutcomeUnknown)

	other := builder.NewBookingBuilder(baseTime).MustBuild()
	f.store.SeedBooking(other)

	_, err = f.bookings.AttachPayment(context.Background(), commands.PaymentOutcome{
		BookingID:      other.ID(),
		IdempotencyKey: first.IdempotencyKey,
		TransactionID:  "txn",
		Succeeded:      true,
	})
	assert.ErrorIs(t, err, commands.ErrPaymentMismatch)
}

func TestMarkRefunded(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)

	_, err := f.payments.MarkRefunded(ctx, f.admin, f.booking.ID(), "re_1")
	assert.ErrorIs(t, err, booking.ErrInvalidPaymentChange)

	f.gateway.approve()
	_, err = f.pay(t, 0)
	require.NoError(t, err)

	_, err = f.payments.MarkRefunded(ctx, f.customer, f.booking.ID(), "re_1")
	assert.ErrorIs(t, err, commands.ErrAdminOnly)

	refunded, err := f.payments.MarkRefunded(ctx, f.admin, f.booking.ID(), "re_1")
	require.NoError(t, err)
	assert.Equal(t, booking.PaymentRefunded, refunded.PaymentStatus())

	payments := f.store.PaymentsFor(f.booking.ID())
	require.Len(t, payments, 1)
	assert.Equal(t, payment.StatusRefunded, payments[0].Status())
	assert.Equal(t, 1, countTopic(f.store.OutboxTopics(), shared.TopicPaymentRefunded))

	_, err = f.payments.MarkRefunded(ctx, f.admin, f.booking.ID(), "re_2")
	assert.ErrorIs(t, err, booking.ErrInvalidPaymentChange)
}

func TestExpirySweepWithChargeInFlight(t *testing.T) {
	ctx := context.Background()

	t.Run("unanswered charge keeps the booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.timeout()

		first, err := f.pay(t, 0)
		require.ErrorIs(t, err, commands.ErrPaymentOutcomeUnknown)

		f.clock.Add(2 * time.Hour)
		n, err := f.bookings.ExpireStalePending(ctx, time.Hour)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, booking.StatusPending, f.stored(t).Status())

		_, err = f.payments.HandleCallback(ctx, commands.CallbackInput{
			IdempotencyKey: first.IdempotencyKey,
			TransactionID:  "txn-webhook",
			Succeeded:      true,
		})
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, f.stored(t).Status())
		assert.Equal(t, booking.PaymentPaid, f.stored(t).PaymentStatus())
	})

	t.Run("declined charge does not hold the booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.decline("card_declined")

		_, err := f.pay(t, 0)
		require.ErrorIs(t, err, commands.ErrPaymentDeclined)

		f.clock.Add(2 * time.Hour)
		n, err := f.bookings.ExpireStalePending(ctx, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, booking.StatusCancelled, f.stored(t).Status())
	})
}
