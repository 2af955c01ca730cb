//go:build unit

package commands_test

import (
	"context"
	"testing"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/testutil/builder"
	"car-rental-api/internal/usecase/commands"
	"car-rental-api/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type damageFixture struct {
	*fixture
	damage  commands.DamageCommands
	booking *booking.Booking
}

func newDamageFixture(t *testing.T, status booking.Status) *damageFixture {
	t.Helper()
	f := newFixture(t)
	b := builder.NewBookingBuilder(baseTime).
		WithUserID(f.customer.UserID).
		WithStatus(status).
		WithPaymentStatus(booking.PaymentPaid).
		MustBuild()
	f.store.SeedBooking(b)
	return &damageFixture{fixture: f, damage: commands.NewDamageUseCase(f.store, f.clock), booking: b}
}

func (f *damageFixture) report(t *testing.T) *damage.Report {
	t.Helper()
	r, err := f.damage.Report(context.Background(), f.admin, commands.ReportDamageInput{
		BookingID:     f.booking.ID(),
		Description:   "  scratched rear bumper ",
		EstimatedCost: money.FromInt(300),
	})
	require.NoError(t, err)
	return r
}

func TestDamageReport(t *testing.T) {
	ctx := context.Background()

	t.Run("admin reports damage on a completed booking", func(t *testing.T) {
		f := newDamageFixture(t, booking.StatusCompleted)
		r := f.report(t)

		assert.Equal(t, damage.StatusPending, r.Status())
		assert.Equal(t, "scratched rear bumper", r.Description())
		assert.Equal(t, f.booking.CarID(), r.CarID())
		assert.Equal(t, f.admin.UserID, r.ReportedBy())
		assert.Nil(t, r.ActualCost())
		assert.Equal(t, []string{shared.TopicDamageReported}, f.store.OutboxTopics())
	})

	t.Run("booking must be completed", func(t *testing.T) {
		f := newDamageFixture(t, booking.StatusConfirmed)
		_, err := f.damage.Report(ctx, f.admin, commands.ReportDamageInput{
			BookingID:     f.booking.ID(),
			EstimatedCost: money.FromInt(10),
		})
		assert.ErrorIs(t, err, damage.ErrBookingNotCompleted)
	})

	t.Run("customers cannot report", func(t *testing.T) {
		f := newDamageFixture(t, booking.StatusCompleted)
		_, err := f.damage.Report(ctx, f.customer, commands.ReportDamageInput{BookingID: f.booking.ID()})
		assert.ErrorIs(t, err, commands.ErrAdminOnly)
		assert.True(t, errs.IsKind(err, errs.ErrUnauthorized))
	})

	t.Run("negative estimate", func(t *testing.T) {
		f := newDamageFixture(t, booking.StatusCompleted)
		_, err := f.damage.Report(ctx, f.admin, commands.ReportDamageInput{
			BookingID:     f.booking.ID(),
			EstimatedCost: money.FromInt(-1),
		})
		assert.ErrorIs(t, err, damage.ErrNegativeCost)
		assert.Empty(t, f.store.OutboxTopics())
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newDamageFixture(t, booking.StatusCompleted)
		_, err := f.damage.Report(ctx, f.admin, commands.ReportDamageInput{BookingID: uuid.New()})
		assert.ErrorIs(t, err, booking.ErrBookingNotFound)
	})
}

func TestDamageLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("review, approve and resolve", func(t *testing.T) {
		f := newDamageFixture(t, booking.StatusCompleted)
		r := f.report(t)

		reviewed, err := f.damage.MarkUnderReview(ctx, f.admin, r.ID())
		require.NoError(t, err)
		assert.Equal(t, damage.StatusUnderReview, reviewed.Status())

		approved, err := f.damage.Approve(ctx, f.admin, r.ID(), money.FromInt(280), "paint only")
		require.NoError(t, err)
		require.NotNil(t, approved.ActualCost())
		assert.Equal(t, "280.00", approved.ActualCost().String())
		assert.Equal(t, "paint only", approved.AdminNotes())

		resolved, err := f.damage.Resolve(ctx, f.admin, r.ID())
		require.NoError(t, err)
		assert.Equal(t, damage.StatusResolved, resolved.Status())
		assert.NotNil(t, resolved.ResolvedAt())

		assert.Equal(t, []string{
			shared.TopicDamageReported,
			shared.TopicDamageReviewStarted,
			shared.TopicDamageApproved,
			shared.TopicDamageResolved,
		}, f.store.OutboxTopics())
	})

	t.Run("second approval is rejected and keeps the first cost", func(t *testing.T) {
		f := newDamageFixture(t, booking.StatusCompleted)
		r := f.report(t)

		_, err := f.damage.Approve(ctx, f.admin, r.ID(), money.FromInt(250), "")
		require.NoError(t, err)

		_, err = f.damage.Approve(ctx, f.admin, r.ID(), money.FromInt(999), "")
		assert.ErrorIs(t, err, damage.ErrInvalidTransition)
		assert.True(t, errs.IsKind(err, errs.ErrInvalidState))

		// A rejected attempt must not leak into the stored report.
		resolved, err := f.damage.Resolve(ctx, f.admin, r.ID())
		require.NoError(t, err)
		assert.Equal(t, "250.00", resolved.ActualCost().String())
	})

	t.Run("rejected reports are final", func(t *testing.T) {
		f := newDamageFixture(t, booking.StatusCompleted)
		r := f.report(t)

		rejected, err := f.damage.Reject(ctx, f.admin, r.ID(), "pre-existing")
		require.NoError(t, err)
		assert.Equal(t, damage.StatusRejected, rejected.Status())

		_, err = f.damage.Approve(ctx, f.admin, r.ID(), money.FromInt(10), "")
		assert.ErrorIs(t, err, damage.ErrInvalidTransition)
		_, err = f.damage.Resolve(ctx, f.admin, r.ID())
		assert.ErrorIs(t, err, damage.ErrInvalidTransition)
	})

	t.Run("approved reports cannot be rejected", func(t *testing.T) {
		f := newDamageFixture(t, booking.StatusCompleted)
		r := f.report(t)
		_, err := f.damage.Approve(ctx, f.admin, r.ID(), money.FromInt(10), "")
		require.NoError(t, err)

		_, err = f.damage.Reject(ctx, f.admin, r.ID(), "changed mind")
		assert.ErrorIs(t, err, damage.ErrInvalidTransition)
	})

	t.Run("admin only and not found", func(t *testing.T) {
		f := newDamageFixture(t, booking.StatusCompleted)
		r := f.report(t)

		_, err := f.damage.MarkUnderReview(ctx, f.customer, r.ID())
		assert.ErrorIs(t, err, commands.ErrAdminOnly)

		_, err = f.damage.MarkUnderReview(ctx, f.admin, uuid.New())
		assert.ErrorIs(t, err, damage.ErrReportNotFound)
	})
}
