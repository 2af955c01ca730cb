package converter

import (
	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/car"
	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/domain/payment"
	"car-rental-api/internal/domain/promotion"
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/pkg/pgconv"
	"car-rental-api/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Scanner is implemented by pgx.Row and pgx.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

var CarColumns = []any{"id", "name", "category", "daily_rate", "available", "created_at", "updated_at"}

func ScanCar(row Scanner) (*car.Car, error) {
	var (
		id                   uuid.UUID
		name, category       string
		rate                 money.Money
		available            bool
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &name, &category, &rate, &available, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return car.ReconstructCar(id, name, category, rate, available, createdAt.Time.UTC(), updatedAt.Time.UTC()), nil
}

var PromotionColumns = []any{
	"id", "code", "discount_type", "discount_value", "max_discount", "min_booking_amount",
	"valid_from", "valid_to", "usage_limit", "used_count", "applicable_vehicles", "active",
	"created_at", "updated_at",
}

func ScanPromotion(row Scanner) (*promotion.Promotion, error) {
	var (
		p                    promotion.Params
		kind                 string
		value                decimal.Decimal
		maxDiscount          decimal.NullDecimal
		validFrom, validTo   pgtype.Timestamptz
		vehicles             []pgtype.UUID
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&p.ID, &p.Code, &kind, &value, &maxDiscount, &p.MinBookingAmount,
		&validFrom, &validTo, &p.UsageLimit, &p.UsedCount, &vehicles, &p.Active,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	discount, err := promotion.NewDiscount(promotion.DiscountType(kind), value, pgconv.MoneyPtrFromNullDecimal(maxDiscount))
	if err != nil {
		return nil, err
	}
	p.Discount = discount
	p.ValidFrom = validFrom.Time.UTC()
	p.ValidTo = validTo.Time.UTC()
	for _, v := range vehicles {
		if v.Valid {
			p.ApplicableVehicles = append(p.ApplicableVehicles, uuid.UUID(v.Bytes))
		}
	}
	return promotion.ReconstructPromotion(p, createdAt.Time.UTC(), updatedAt.Time.UTC()), nil
}

var BookingColumns = []any{
	"id", "car_id", "user_id", "start_at", "end_at", "status", "payment_status",
	"duration_days", "daily_rate", "base_price", "discount", "total_price",
	"promotion_id", "promotion_code", "promotion_released_at", "payment_attempts",
	"created_at", "updated_at",
}

func ScanBooking(row Scanner) (*booking.Booking, error) {
	var (
		s                     booking.Snapshot
		startAt, endAt        pgtype.Timestamptz
		status, paymentStatus string
		promotionID           pgtype.UUID
		promotionCode         pgtype.Text
		releasedAt            pgtype.Timestamptz
		createdAt, updatedAt  pgtype.Timestamptz
	)
	if err := row.Scan(
		&s.ID, &s.CarID, &s.UserID, &startAt, &endAt, &status, &paymentStatus,
		&s.DurationDays, &s.DailyRate, &s.BasePrice, &s.Discount, &s.TotalPrice,
		&promotionID, &promotionCode, &releasedAt, &s.PaymentAttempts,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if s.Status, err = booking.ParseStatus(status); err != nil {
		return nil, err
	}
	if s.PaymentStatus, err = booking.ParsePaymentStatus(paymentStatus); err != nil {
		return nil, err
	}
	s.StartAt = startAt.Time.UTC()
	s.EndAt = endAt.Time.UTC()
	s.PromotionID = pgconv.UUIDPtrFromPgtype(promotionID)
	s.PromotionCode = pgconv.StringFromPgtype(promotionCode)
	s.PromotionReleasedAt = pgconv.TimePtrFromPgtype(releasedAt)
	s.CreatedAt = createdAt.Time.UTC()
	s.UpdatedAt = updatedAt.Time.UTC()
	return booking.Reconstruct(s), nil
}

var PaymentColumns = []any{
	"id", "booking_id", "idempotency_key", "attempt", "amount", "transaction_id",
	"status", "failure_reason", "created_at", "updated_at",
}

func ScanPayment(row Scanner) (*payment.Payment, error) {
	var (
		s                    payment.Snapshot
		txID, reason         pgtype.Text
		status               string
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&s.ID, &s.BookingID, &s.IdempotencyKey, &s.Attempt, &s.Amount, &txID,
		&status, &reason, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	s.TransactionID = pgconv.StringPtrFromPgtype(txID)
	s.Status = payment.Status(status)
	s.FailureReason = pgconv.StringFromPgtype(reason)
	s.CreatedAt = createdAt.Time.UTC()
	s.UpdatedAt = updatedAt.Time.UTC()
	return payment.Reconstruct(s), nil
}

var DamageReportColumns = []any{
	"id", "booking_id", "car_id", "reported_by", "description", "estimated_cost",
	"actual_cost", "status", "admin_notes", "resolved_at", "created_at", "updated_at",
}

func ScanDamageReport(row Scanner) (*damage.Report, error) {
	var (
		s                    damage.Snapshot
		actualCost           decimal.NullDecimal
		status               string
		notes                pgtype.Text
		resolvedAt           pgtype.Timestamptz
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&s.ID, &s.BookingID, &s.CarID, &s.ReportedBy, &s.Description, &s.EstimatedCost,
		&actualCost, &status, &notes, &resolvedAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	s.ActualCost = pgconv.MoneyPtrFromNullDecimal(actualCost)
	s.Status = damage.Status(status)
	s.AdminNotes = pgconv.StringFromPgtype(notes)
	s.ResolvedAt = pgconv.TimePtrFromPgtype(resolvedAt)
	s.CreatedAt = createdAt.Time.UTC()
	s.UpdatedAt = updatedAt.Time.UTC()
	return damage.Reconstruct(s), nil
}

var IdempotencyColumns = []any{"key", "user_id", "endpoint", "status", "request_hash", "result_booking_id", "expires_at"}

func ScanIdempotency(row Scanner) (*shared.IdempotencyRecord, error) {
	var (
		rec       shared.IdempotencyRecord
		resultID  pgtype.UUID
		expiresAt pgtype.Timestamptz
	)
	if err := row.Scan(&rec.Key, &rec.UserID, &rec.Endpoint, &rec.Status, &rec.RequestHash, &resultID, &expiresAt); err != nil {
		return nil, err
	}
	rec.ResultBookingID = pgconv.UUIDPtrFromPgtype(resultID)
	rec.ExpiresAt = expiresAt.Time.UTC()
	return &rec, nil
}
