package converter

import (
	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/domain/payment"

	"github.com/doug-martin/goqu/v9"
)

// Nullable returns nil for a nil pointer so the statement binds NULL.
func Nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func BookingToRecord(b *booking.Booking) goqu.Record {
	s := b.Snapshot()
	return goqu.Record{
		"id":                    s.ID,
		"car_id":                s.CarID,
		"user_id":               s.UserID,
		"start_at":              s.StartAt,
		"end_at":                s.EndAt,
		"status":                s.Status.String(),
		"payment_status":        s.PaymentStatus.String(),
		"duration_days":         s.DurationDays,
		"daily_rate":            s.DailyRate,
		"base_price":            s.BasePrice,
		"discount":              s.Discount,
		"total_price":           s.TotalPrice,
		"promotion_id":          Nullable(s.PromotionID),
		"promotion_code":        nullableText(s.PromotionCode),
		"promotion_released_at": Nullable(s.PromotionReleasedAt),
		"payment_attempts":      s.PaymentAttempts,
		"created_at":            s.CreatedAt,
		"updated_at":            s.UpdatedAt,
	}
}

// BookingMutableRecord holds the columns a booking update may change.
func BookingMutableRecord(b *booking.Booking) goqu.Record {
	s := b.Snapshot()
	return goqu.Record{
		"status":                s.Status.String(),
		"payment_status":        s.PaymentStatus.String(),
		"promotion_released_at": Nullable(s.PromotionReleasedAt),
		"payment_attempts":      s.PaymentAttempts,
		"updated_at":            s.UpdatedAt,
	}
}

func PaymentToRecord(p *payment.Payment) goqu.Record {
	s := p.Snapshot()
	return goqu.Record{
		"id":              s.ID,
		"booking_id":      s.BookingID,
		"idempotency_key": s.IdempotencyKey,
		"attempt":         s.Attempt,
		"amount":          s.Amount,
		"transaction_id":  Nullable(s.TransactionID),
		"status":          s.Status.String(),
		"failure_reason":  nullableText(s.FailureReason),
		"created_at":      s.CreatedAt,
		"updated_at":      s.UpdatedAt,
	}
}

func PaymentMutableRecord(p *payment.Payment) goqu.Record {
	s := p.Snapshot()
	return goqu.Record{
		"transaction_id": Nullable(s.TransactionID),
		"status":         s.Status.String(),
		"failure_reason": nullableText(s.FailureReason),
		"updated_at":     s.UpdatedAt,
	}
}

func DamageReportToRecord(r *damage.Report) goqu.Record {
	s := r.Snapshot()
	return goqu.Record{
		"id":             s.ID,
		"booking_id":     s.BookingID,
		"car_id":         s.CarID,
		"reported_by":    s.ReportedBy,
		"description":    s.Description,
		"estimated_cost": s.EstimatedCost,
		"actual_cost":    Nullable(s.ActualCost),
		"status":         s.Status.String(),
		"admin_notes":    nullableText(s.AdminNotes),
		"resolved_at":    Nullable(s.ResolvedAt),
		"created_at":     s.CreatedAt,
		"updated_at":     s.UpdatedAt,
	}
}

func DamageReportMutableRecord(r *damage.Report) goqu.Record {
	s := r.Snapshot()
	return goqu.Record{
		"actual_cost": Nullable(s.ActualCost),
		"status":      s.Status.String(),
		"admin_notes": nullableText(s.AdminNotes),
		"resolved_at": Nullable(s.ResolvedAt),
		"updated_at":  s.UpdatedAt,
	}
}
