//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/car"
	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/domain/promotion"
	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/infra"
	"car-rental-api/internal/pkg/clock"
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/testutil/builder"
	"car-rental-api/internal/testutil/mock/queriesmock"
	"car-rental-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	now         = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	errDBFailed = errors.New("database connection lost")
	notFound    = infra.NewRepoErr(infra.KindNotFound, "not found")
)

func TestCarQueries(t *testing.T) {
	ctx := context.Background()
	carID := uuid.New()
	view := &queries.CarView{ID: carID, Name: "Mazda 3", DailyRate: money.FromInt(80), Available: true}

	testCases := []struct {
		name      string
		setupMock func(m *queriesmock.MockCarReadStore)
		errIs     error
	}{
		{
			name: "success",
			setupMock: func(m *queriesmock.MockCarReadStore) {
				m.EXPECT().FindByID(ctx, carID).Return(view, nil)
			},
		},
		{
			name: "not found maps to domain error",
			setupMock: func(m *queriesmock.MockCarReadStore) {
				m.EXPECT().FindByID(ctx, carID).Return(nil, notFound)
			},
			errIs: car.ErrCarNotFound,
		},
		{
			name: "database error passes through",
			setupMock: func(m *queriesmock.MockCarReadStore) {
				m.EXPECT().FindByID(ctx, carID).Return(nil, errDBFailed)
			},
			errIs: errDBFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			rs := queriesmock.NewMockCarReadStore(ctrl)
			tc.setupMock(rs)

			got, err := queries.NewCarQueries(rs, booking.NewDailyRateCalculator()).GetByID(ctx, carID)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, view, got)
		})
	}

	t.Run("quote", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rs := queriesmock.NewMockCarReadStore(ctrl)
		rs.EXPECT().FindByID(ctx, carID).Return(view, nil)

		start := now.Add(24 * time.Hour)
		q, err := queries.NewCarQueries(rs, booking.NewDailyRateCalculator()).Quote(ctx, carID, start, start.Add(50*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 3, q.DurationDays)
		assert.Equal(t, "240.00", q.BasePrice.String())
	})

	t.Run("same-day quote bills one day", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rs := queriesmock.NewMockCarReadStore(ctrl)
		rs.EXPECT().FindByID(ctx, carID).Return(view, nil)

		start := now.Add(24 * time.Hour)
		q, err := queries.NewCarQueries(rs, booking.NewDailyRateCalculator()).Quote(ctx, carID, start, start)
		require.NoError(t, err)
		assert.Equal(t, 1, q.DurationDays)
		assert.Equal(t, "80.00", q.BasePrice.String())
	})

	t.Run("quote needs a period", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rs := queriesmock.NewMockCarReadStore(ctrl)

		_, err := queries.NewCarQueries(rs, booking.NewDailyRateCalculator()).Quote(ctx, carID, time.Time{}, now)
		assert.ErrorIs(t, err, queries.ErrMissingQuotePeriod)
	})
}

func TestPromotionQueries_PreviewDiscount(t *testing.T) {
	ctx := context.Background()
	vehicleID := uuid.New()

	testCases := []struct {
		name      string
		code      string
		amount    int64
		setupMock func(m *queriesmock.MockPromotionReadStore)
		discount  string
		errIs     error
	}{
		{
			name:   "fixed discount",
			code:   "SAVE50",
			amount: 3000,
			setupMock: func(m *queriesmock.MockPromotionReadStore) {
				m.EXPECT().FindByCode(ctx, promotion.Code("SAVE50")).Return(builder.NewPromotionBuilder(now).MustBuild(), nil)
			},
			discount: "50.00",
		},
		{
			name:   "below minimum is rejected",
			code:   "SAVE50",
			amount: 400,
			setupMock: func(m *queriesmock.MockPromotionReadStore) {
				m.EXPECT().FindByCode(ctx, promotion.Code("SAVE50")).Return(builder.NewPromotionBuilder(now).MustBuild(), nil)
			},
			errIs: promotion.ErrPromotionBelowMinimum,
		},
		{
			name:   "unknown code",
			code:   "GHOST",
			amount: 3000,
			setupMock: func(m *queriesmock.MockPromotionReadStore) {
				m.EXPECT().FindByCode(ctx, promotion.Code("GHOST")).Return(nil, notFound)
			},
			errIs: promotion.ErrPromotionNotFound,
		},
		{
			name:      "malformed code never reaches the store",
			code:      "??",
			amount:    3000,
			setupMock: func(*queriesmock.MockPromotionReadStore) {},
			errIs:     promotion.ErrPromotionNotFound,
		},
		{
			name:      "negative amount",
			code:      "SAVE50",
			amount:    -1,
			setupMock: func(*queriesmock.MockPromotionReadStore) {},
			errIs:     queries.ErrNegativeAmount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			rs := queriesmock.NewMockPromotionReadStore(ctrl)
			tc.setupMock(rs)

			got, err := queries.NewPromotionQueries(rs, clock.NewMockClock(now)).
				PreviewDiscount(ctx, tc.code, vehicleID, money.FromInt(tc.amount))
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.discount, got.Discount.String())
			assert.Equal(t, money.FromInt(tc.amount).Sub(got.Discount).String(), got.FinalAmount.String())
		})
	}
}

func TestOwnershipFiltering(t *testing.T) {
	ctx := context.Background()
	owner := user.NewActor(uuid.New(), user.RoleCustomer)
	stranger := user.NewActor(uuid.New(), user.RoleCustomer)
	staff := user.NewActor(uuid.New(), user.RoleStaff)
	id := uuid.New()

	t.Run("booking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rs := queriesmock.NewMockBookingReadStore(ctrl)
		rs.EXPECT().FindByID(ctx, id).Return(&queries.BookingView{ID: id, UserID: owner.UserID}, nil).Times(3)
		q := queries.NewBookingQueries(rs)

		_, err := q.GetByID(ctx, owner, id)
		assert.NoError(t, err)
		_, err = q.GetByID(ctx, staff, id)
		assert.NoError(t, err)
		_, err = q.GetByID(ctx, stranger, id)
		assert.ErrorIs(t, err, booking.ErrBookingNotFound)
	})

	t.Run("damage report", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rs := queriesmock.NewMockDamageReadStore(ctrl)
		rs.EXPECT().FindByID(ctx, id).Return(&queries.DamageReportView{ID: id, BookingUserID: owner.UserID}, nil).Times(3)
		q := queries.NewDamageQueries(rs)

		_, err := q.GetByID(ctx, owner, id)
		assert.NoError(t, err)
		_, err = q.GetByID(ctx, staff, id)
		assert.NoError(t, err)
		_, err = q.GetByID(ctx, stranger, id)
		assert.ErrorIs(t, err, damage.ErrReportNotFound)
	})
}
