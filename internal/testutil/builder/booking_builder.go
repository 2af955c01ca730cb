//go:build unit || integration

package builder

import (
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/car"
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type CarBuilder struct {
	ID        uuid.UUID
	Name      string
	Category  string
	DailyRate money.Money
	Available bool
}

func NewCarBuilder() *CarBuilder {
	return &CarBuilder{
		ID:        uuid.New(),
		Name:      "Toyota Corolla",
		Category:  "compact",
		DailyRate: money.FromInt(1000),
		Available: true,
	}
}

func (b *CarBuilder) WithDailyRate(rate int64) *CarBuilder {
	b.DailyRate = money.FromInt(rate)
	return b
}

func (b *CarBuilder) Unavailable() *CarBuilder {
	b.Available = false
	return b
}

func (b *CarBuilder) MustBuild() *car.Car {
	c, err := car.NewCar(b.ID, b.Name, b.Category, b.DailyRate, b.Available)
	if err != nil {
		panic(err)
	}
	return c
}

type BookingBuilder struct {
	ID            uuid.UUID
	CarID         uuid.UUID
	UserID        uuid.UUID
	StartAt       time.Time
	EndAt         time.Time
	DailyRate     money.Money
	Applied       *booking.AppliedPromotion
	Status        booking.Status
	PaymentStatus booking.PaymentStatus
	Now           time.Time
}

// NewBookingBuilder returns a pending three-day booking at 1000 a day.
func NewBookingBuilder(now time.Time) *BookingBuilder {
	start := now.Add(24 * time.Hour).Truncate(time.Hour)
	return &BookingBuilder{
		ID:            uuid.New(),
		CarID:         uuid.New(),
		UserID:        uuid.New(),
		StartAt:       start,
		EndAt:         start.Add(72 * time.Hour),
		DailyRate:     money.FromInt(1000),
		Status:        booking.StatusPending,
		PaymentStatus: booking.PaymentPending,
		Now:           now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	if mutate != nil {
		mutate(b)
	}
	return b
}

func (b *BookingBuilder) WithUserID(id uuid.UUID) *BookingBuilder {
	b.UserID = id
	return b
}

func (b *BookingBuilder) WithCarID(id uuid.UUID) *BookingBuilder {
	b.CarID = id
	return b
}

func (b *BookingBuilder) WithStatus(s booking.Status) *BookingBuilder {
	b.Status = s
	return b
}

func (b *BookingBuilder) WithPaymentStatus(s booking.PaymentStatus) *BookingBuilder {
	b.PaymentStatus = s
	return b
}

func (b *BookingBuilder) WithPromotion(id uuid.UUID, code string, discount int64) *BookingBuilder {
	b.Applied = &booking.AppliedPromotion{ID: id, Code: code, Discount: money.FromInt(discount)}
	return b
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	period, err := booking.NewPeriod(b.StartAt, b.EndAt)
	if err != nil {
		return nil, err
	}
	quote := booking.NewDailyRateCalculator().Quote(b.StartAt, b.EndAt, b.DailyRate)
	bk, err := booking.NewBooking(b.ID, b.CarID, b.UserID, period, quote, b.Applied, b.Now)
	if err != nil {
		return nil, err
	}
	if b.Status == booking.StatusPending && b.PaymentStatus == booking.PaymentPending {
		return bk, nil
	}
	snap := bk.Snapshot()
	snap.Status = b.Status
	snap.PaymentStatus = b.PaymentStatus
	return booking.Reconstruct(snap), nil
}

func (b *BookingBuilder) MustBuild() *booking.Booking {
	bk, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return bk
}

// BuildView renders the booking the way the read side returns it.
func (b *BookingBuilder) BuildView() *queries.BookingView {
	s := b.MustBuild().Snapshot()
	view := &queries.BookingView{
		ID:              s.ID,
		CarID:           s.CarID,
		CarName:         "Toyota Corolla",
		UserID:          s.UserID,
		StartAt:         s.StartAt,
		EndAt:           s.EndAt,
		DurationDays:    s.DurationDays,
		DailyRate:       s.DailyRate,
		BasePrice:       s.BasePrice,
		Discount:        s.Discount,
		TotalPrice:      s.TotalPrice,
		Status:          s.Status.String(),
		PaymentStatus:   s.PaymentStatus.String(),
		PaymentAttempts: s.PaymentAttempts,
		PromotionID:     s.PromotionID,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.PromotionCode != "" {
		code := s.PromotionCode
		view.PromotionCode = &code
	}
	return view
}
