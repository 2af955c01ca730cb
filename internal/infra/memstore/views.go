package memstore

import (
	"bytes"
	"cmp"
	"context"
	"slices"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/promotion"
	"car-rental-api/internal/usecase/queries"

	"github.com/google/uuid"
)

// Views exposes the read stores behind the query usecases.
type Views struct {
	store *Store
}

func (s *Store) Views() Views {
	return Views{store: s}
}

func (v Views) Cars() queries.CarReadStore             { return carView(v) }
func (v Views) Bookings() queries.BookingReadStore     { return bookingView(v) }
func (v Views) Promotions() queries.PromotionReadStore { return promotionView(v) }
func (v Views) DamageReports() queries.DamageReadStore { return damageView(v) }

type carView Views

func (v carView) FindByID(_ context.Context, id uuid.UUID) (out *queries.CarView, err error) {
	v.store.read(func(d *state) {
		c, ok := d.cars[id]
		if !ok {
			err = notFound("car")
			return
		}
		out = &queries.CarView{
			ID:        c.ID(),
			Name:      c.Name(),
			Category:  c.Category(),
			DailyRate: c.DailyRate(),
			Available: c.Available(),
			CreatedAt: c.CreatedAt(),
			UpdatedAt: c.UpdatedAt(),
		}
	})
	return out, err
}

type bookingView Views

func (v bookingView) FindByID(_ context.Context, id uuid.UUID) (out *queries.BookingView, err error) {
	v.store.read(func(d *state) {
		s, ok := d.bookings[id]
		if !ok {
			err = notFound("booking")
			return
		}
		out = &queries.BookingView{
			ID:                  s.ID,
			CarID:               s.CarID,
			CarName:             carName(d, s),
			UserID:              s.UserID,
			StartAt:             s.StartAt,
			EndAt:               s.EndAt,
			DurationDays:        s.DurationDays,
			DailyRate:           s.DailyRate,
			BasePrice:           s.BasePrice,
			Discount:            s.Discount,
			TotalPrice:          s.TotalPrice,
			Status:              s.Status.String(),
			PaymentStatus:       s.PaymentStatus.String(),
			PaymentAttempts:     s.PaymentAttempts,
			PromotionID:         s.PromotionID,
			PromotionReleasedAt: s.PromotionReleasedAt,
			CreatedAt:           s.CreatedAt,
			UpdatedAt:           s.UpdatedAt,
		}
		if s.PromotionCode != "" {
			code := s.PromotionCode
			out.PromotionCode = &code
		}
	})
	return out, err
}

func (v bookingView) FindByUserFirstPage(_ context.Context, userID uuid.UUID, limit int) ([]*queries.BookingListItem, error) {
	return v.list(userID, func(booking.Snapshot) bool { return true }, limit), nil
}

func (v bookingView) FindByUserKeyset(_ context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int) ([]*queries.BookingListItem, error) {
	return v.list(userID, func(s booking.Snapshot) bool {
		return compareKey(s, lastCreatedAt, lastID) < 0
	}, limit), nil
}

func (v bookingView) list(userID uuid.UUID, after func(booking.Snapshot) bool, limit int) []*queries.BookingListItem {
	var rows []booking.Snapshot
	var names map[uuid.UUID]string
	v.store.read(func(d *state) {
		names = make(map[uuid.UUID]string, len(d.cars))
		for id, c := range d.cars {
			names[id] = c.Name()
		}
		for _, s := range d.bookings {
			if s.UserID == userID && after(s) {
				rows = append(rows, s)
			}
		}
	})

	// created_at DESC, id DESC
	slices.SortFunc(rows, func(a, b booking.Snapshot) int {
		return -compareKey(a, b.CreatedAt, b.ID)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	items := make([]*queries.BookingListItem, 0, len(rows))
	for _, s := range rows {
		items = append(items, &queries.BookingListItem{
			ID:            s.ID,
			CarID:         s.CarID,
			CarName:       names[s.CarID],
			StartAt:       s.StartAt,
			EndAt:         s.EndAt,
			TotalPrice:    s.TotalPrice,
			Status:        s.Status.String(),
			PaymentStatus: s.PaymentStatus.String(),
			CreatedAt:     s.CreatedAt,
		})
	}
	return items
}

// compareKey orders by created_at at microsecond precision, then id, the
// same way the cursor encodes them.
func compareKey(s booking.Snapshot, createdAt time.Time, id uuid.UUID) int {
	if c := cmp.Compare(s.CreatedAt.UnixMicro(), createdAt.UnixMicro()); c != 0 {
		return c
	}
	return bytes.Compare(s.ID[:], id[:])
}

func carName(d *state, s booking.Snapshot) string {
	if c, ok := d.cars[s.CarID]; ok {
		return c.Name()
	}
	return ""
}

type promotionView Views

func (v promotionView) FindByCode(ctx context.Context, code promotion.Code) (p *promotion.Promotion, err error) {
	v.store.read(func(d *state) { p, err = reads{d}.PromotionByCode(ctx, code) })
	return p, err
}

type damageView Views

func (v damageView) FindByID(_ context.Context, id uuid.UUID) (out *queries.DamageReportView, err error) {
	v.store.read(func(d *state) {
		s, ok := d.damage[id]
		if !ok {
			err = notFound("damage report")
			return
		}
		out = &queries.DamageReportView{
			ID:            s.ID,
			BookingID:     s.BookingID,
			BookingUserID: d.bookings[s.BookingID].UserID,
			CarID:         s.CarID,
			ReportedBy:    s.ReportedBy,
			Description:   s.Description,
			EstimatedCost: s.EstimatedCost,
			ActualCost:    s.ActualCost,
			Status:        s.Status.String(),
			ResolvedAt:    s.ResolvedAt,
			CreatedAt:     s.CreatedAt,
			UpdatedAt:     s.UpdatedAt,
		}
		if s.AdminNotes != "" {
			notes := s.AdminNotes
			out.AdminNotes = &notes
		}
	})
	return out, err
}
