package shared

import (
	"context"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/car"
	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/domain/payment"
	"car-rental-api/internal/domain/promotion"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

// Tx exposes repositories bound to one transaction.
type Tx interface {
	Cars() CarRepository
	Bookings() BookingRepository
	Promotions() PromotionRepository
	Payments() PaymentRepository
	DamageReports() DamageReportRepository
	Idempotency() IdempotencyRepository
	Outbox() OutboxRepository
	Reads() CommandReads
}

type CommandReads interface {
	CarByID(ctx context.Context, id uuid.UUID) (*car.Car, error)
	PromotionByCode(ctx context.Context, code promotion.Code) (*promotion.Promotion, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	PaymentByKey(ctx context.Context, idempotencyKey string) (*payment.Payment, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

type CarRepository interface {
	// GetForUpdate locks the car row until the transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*car.Car, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	GetForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, b *booking.Booking) error
	// HasOverlap reports whether a pending or confirmed booking of carID
	// intersects period.
	HasOverlap(ctx context.Context, carID uuid.UUID, period booking.Period) (bool, error)
	// ExpireStalePending cancels unpaid pending bookings created before
	// cutoff and returns their ids. Bookings with a pending charge are kept.
	ExpireStalePending(ctx context.Context, cutoff, now time.Time) ([]uuid.UUID, error)
}

type PromotionRepository interface {
	// Consume increments the usage counter only while it is below the
	// limit. It reports whether a slot was taken.
	Consume(ctx context.Context, id uuid.UUID) (bool, error)
	// Release decrements the usage counter while it is above zero.
	Release(ctx context.Context, id uuid.UUID) (bool, error)
}

type PaymentRepository interface {
	// Create inserts p unless its idempotency key exists. It reports
	// whether a row was inserted.
	Create(ctx context.Context, p *payment.Payment) (bool, error)
	GetByKeyForUpdate(ctx context.Context, idempotencyKey string) (*payment.Payment, error)
	FindPaidByBooking(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error)
	Update(ctx context.Context, p *payment.Payment) error
}

type DamageReportRepository interface {
	Create(ctx context.Context, r *damage.Report) error
	GetForUpdate(ctx context.Context, id uuid.UUID) (*damage.Report, error)
	Update(ctx context.Context, r *damage.Report) error
}

type IdempotencyRepository interface {
	// TryInsert claims key for userID. It reports false when the key exists.
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	// ClaimExpired takes over an expired key. It reports false when the key
	// is still live.
	ClaimExpired(ctx context.Context, key, userID uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error)
	Complete(ctx context.Context, key, userID, bookingID uuid.UUID) error
}

type OutboxRepository interface {
	Append(ctx context.Context, e Event) error
	// FetchPending locks up to limit due events. Rows locked by another
	// relay are skipped.
	FetchPending(ctx context.Context, now time.Time, limit int) ([]OutboxMessage, error)
	MarkSent(ctx context.Context, id uuid.UUID, now time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastErr string, retryAt time.Time, giveUp bool) error
}
