//go:build unit

package promotion_test

import (
	"testing"
	"time"

	"car-rental-api/internal/domain/promotion"
	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/testutil/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestPromotion_Validate(t *testing.T) {
	vehicle := uuid.New()

	tests := []struct {
		name   string
		mutate func(*builder.PromotionBuilder)
		amount int64
		at     time.Time
		errIs  error
	}{
		{name: "valid", amount: 3000, at: now},
		{
			name:   "inactive",
			mutate: func(b *builder.PromotionBuilder) { b.Inactive() },
			amount: 3000, at: now,
			errIs: promotion.ErrPromotionInvalid,
		},
		{
			name:   "before window",
			amount: 3000, at: now.Add(-48 * time.Hour),
			errIs: promotion.ErrPromotionInvalid,
		},
		{
			name:   "after window",
			amount: 3000, at: now.Add(48 * time.Hour),
			errIs: promotion.ErrPromotionInvalid,
		},
		{
			name:   "window bounds are inclusive",
			mutate: func(b *builder.PromotionBuilder) { b.ValidTo = now },
			amount: 3000, at: now,
		},
		{
			name:   "usage exhausted",
			mutate: func(b *builder.PromotionBuilder) { b.WithUsage(5, 5) },
			amount: 3000, at: now,
			errIs: promotion.ErrPromotionInvalid,
		},
		{
			name:   "vehicle not in applicable set",
			mutate: func(b *builder.PromotionBuilder) { b.WithVehicles(uuid.New()) },
			amount: 3000, at: now,
			errIs: promotion.ErrPromotionNotApplicable,
		},
		{
			name:   "vehicle in applicable set",
			mutate: func(b *builder.PromotionBuilder) { b.WithVehicles(uuid.New(), vehicle) },
			amount: 3000, at: now,
		},
		{
			name:   "below minimum",
			amount: 400, at: now,
			errIs: promotion.ErrPromotionBelowMinimum,
		},
		{
			name:   "exactly minimum",
			amount: 500, at: now,
		},
		{
			name: "invalid wins over below minimum",
			mutate: func(b *builder.PromotionBuilder) {
				b.Inactive()
			},
			amount: 100, at: now,
			errIs: promotion.ErrPromotionInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := builder.NewPromotionBuilder(now)
			if tt.mutate != nil {
				b.With(tt.mutate)
			}
			p, err := b.BuildDomain()
			require.NoError(t, err)

			err = p.Validate(vehicle, money.FromInt(tt.amount), tt.at)
			if tt.errIs == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.errIs)
			assert.True(t, errs.IsKind(err, errs.ErrPromotionRejected))
		})
	}
}

func TestPromotion_CalculateDiscount(t *testing.T) {
	tests := []struct {
		name   string
		build  func(*builder.PromotionBuilder)
		amount string
		want   string
	}{
		{
			name:   "fixed under cap",
			build:  func(b *builder.PromotionBuilder) { b.WithFixed(50).WithMaxDiscount(50) },
			amount: "3000",
			want:   "50.00",
		},
		{
			name:   "fixed capped",
			build:  func(b *builder.PromotionBuilder) { b.WithFixed(300).WithMaxDiscount(100) },
			amount: "3000",
			want:   "100.00",
		},
		{
			name:   "fixed larger than amount",
			build:  func(b *builder.PromotionBuilder) { b.WithFixed(500) },
			amount: "120",
			want:   "120.00",
		},
		{
			name:   "percentage",
			build:  func(b *builder.PromotionBuilder) { b.WithPercentage(15) },
			amount: "2000",
			want:   "300.00",
		},
		{
			name:   "percentage capped",
			build:  func(b *builder.PromotionBuilder) { b.WithPercentage(50).WithMaxDiscount(200) },
			amount: "1000",
			want:   "200.00",
		},
		{
			name:   "percentage rounds to cents",
			build:  func(b *builder.PromotionBuilder) { b.WithPercentage(15) },
			amount: "99.99",
			want:   "15.00",
		},
		{
			name:   "full percentage never exceeds amount",
			build:  func(b *builder.PromotionBuilder) { b.WithPercentage(100) },
			amount: "750.50",
			want:   "750.50",
		},
		{
			name:   "zero amount",
			build:  func(b *builder.PromotionBuilder) { b.WithFixed(50) },
			amount: "0",
			want:   "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := builder.NewPromotionBuilder(now).With(tt.build).MustBuild()
			amount, err := money.FromString(tt.amount)
			require.NoError(t, err)

			first := p.CalculateDiscount(amount)
			second := p.CalculateDiscount(amount)

			assert.Equal(t, tt.want, first.String())
			assert.True(t, first.Equal(second), "discount must be deterministic")
			assert.False(t, first.IsNegative())
			assert.False(t, amount.LessThan(first))
		})
	}
}

func TestPromotion_Consume(t *testing.T) {
	p := builder.NewPromotionBuilder(now).WithUsage(0, 2).MustBuild()

	require.NoError(t, p.Consume())
	require.NoError(t, p.Consume())
	require.ErrorIs(t, p.Consume(), promotion.ErrUsageLimitExhausted)
	assert.Equal(t, 2, p.UsedCount())

	assert.True(t, p.Release())
	assert.Equal(t, 1, p.UsedCount())
}

func TestNewPromotion_Invariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*builder.PromotionBuilder)
		errIs  error
	}{
		{name: "bad code", mutate: func(b *builder.PromotionBuilder) { b.WithCode("x") }, errIs: promotion.ErrInvalidCode},
		{name: "zero limit", mutate: func(b *builder.PromotionBuilder) { b.WithUsage(0, 0) }, errIs: promotion.ErrInvalidUsageLimit},
		{name: "used above limit", mutate: func(b *builder.PromotionBuilder) { b.WithUsage(3, 2) }, errIs: promotion.ErrInvalidUsageLimit},
		{name: "inverted window", mutate: func(b *builder.PromotionBuilder) { b.ValidTo = b.ValidFrom.Add(-time.Minute) }, errIs: promotion.ErrInvalidWindow},
		{name: "percentage above 100", mutate: func(b *builder.PromotionBuilder) { b.WithPercentage(101) }, errIs: promotion.ErrInvalidDiscountPercent},
		{name: "negative fixed", mutate: func(b *builder.PromotionBuilder) { b.Value = decimal.NewFromInt(-1) }, errIs: promotion.ErrInvalidDiscountAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := builder.NewPromotionBuilder(now).With(tt.mutate).BuildDomain()
			require.Nil(t, p)
			require.ErrorIs(t, err, tt.errIs)
		})
	}
}

func TestNewCode_Normalizes(t *testing.T) {
	code, err := promotion.NewCode("  summer-25 ")
	require.NoError(t, err)
	assert.Equal(t, "SUMMER-25", code.String())
}
