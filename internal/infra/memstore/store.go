// Package memstore keeps the booking data set in process memory. It backs
// DB_DRIVER=memory and the usecase tests.
package memstore

import (
	"context"
	"maps"
	"sync"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/car"
	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/domain/payment"
	"car-rental-api/internal/domain/promotion"
	"car-rental-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type promotionRow struct {
	params    promotion.Params
	createdAt time.Time
	updatedAt time.Time
}

func (r promotionRow) entity() *promotion.Promotion {
	return promotion.ReconstructPromotion(r.params, r.createdAt, r.updatedAt)
}

type idempotencyID struct {
	key    uuid.UUID
	userID uuid.UUID
}

type outboxRow struct {
	msg         shared.OutboxMessage
	status      string
	availableAt time.Time
	lastError   string
	sentAt      *time.Time
}

type state struct {
	cars        map[uuid.UUID]*car.Car
	promotions  map[uuid.UUID]promotionRow
	bookings    map[uuid.UUID]booking.Snapshot
	payments    map[string]payment.Snapshot
	damage      map[uuid.UUID]damage.Snapshot
	idempotency map[idempotencyID]shared.IdempotencyRecord
	outbox      []outboxRow
}

func newState() *state {
	return &state{
		cars:        map[uuid.UUID]*car.Car{},
		promotions:  map[uuid.UUID]promotionRow{},
		bookings:    map[uuid.UUID]booking.Snapshot{},
		payments:    map[string]payment.Snapshot{},
		damage:      map[uuid.UUID]damage.Snapshot{},
		idempotency: map[idempotencyID]shared.IdempotencyRecord{},
	}
}

func (s *state) clone() *state {
	return &state{
		cars:        maps.Clone(s.cars),
		promotions:  maps.Clone(s.promotions),
		bookings:    maps.Clone(s.bookings),
		payments:    maps.Clone(s.payments),
		damage:      maps.Clone(s.damage),
		idempotency: maps.Clone(s.idempotency),
		outbox:      append([]outboxRow(nil), s.outbox...),
	}
}

// Store is an in-memory unit of work. Transactions run one at a time and
// work on a copy of the data that replaces it only on success.
type Store struct {
	mu   sync.Mutex
	data *state
}

func New() *Store {
	return &Store{data: newState()}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, &memTx{data: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &lockedReads{store: s}
}

func (s *Store) read(fn func(d *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

func (s *Store) SeedCar(c *car.Car) {
	s.read(func(d *state) { d.cars[c.ID()] = c })
}

func (s *Store) SeedPromotion(p *promotion.Promotion) {
	s.read(func(d *state) {
		d.promotions[p.ID()] = promotionRow{params: paramsOf(p), createdAt: p.CreatedAt(), updatedAt: p.UpdatedAt()}
	})
}

// SeedBooking stores b as is, bypassing the creation flow.
func (s *Store) SeedBooking(b *booking.Booking) {
	s.read(func(d *state) { d.bookings[b.ID()] = b.Snapshot() })
}

func (s *Store) Promotion(id uuid.UUID) (*promotion.Promotion, bool) {
	var (
		p  *promotion.Promotion
		ok bool
	)
	s.read(func(d *state) {
		var row promotionRow
		if row, ok = d.promotions[id]; ok {
			p = row.entity()
		}
	})
	return p, ok
}

func (s *Store) Booking(id uuid.UUID) (*booking.Booking, bool) {
	var (
		b  *booking.Booking
		ok bool
	)
	s.read(func(d *state) {
		var snap booking.Snapshot
		if snap, ok = d.bookings[id]; ok {
			b = booking.Reconstruct(snap)
		}
	})
	return b, ok
}

func (s *Store) Bookings() []*booking.Booking {
	var out []*booking.Booking
	s.read(func(d *state) {
		for _, snap := range d.bookings {
			out = append(out, booking.Reconstruct(snap))
		}
	})
	return out
}

func (s *Store) PaymentsFor(bookingID uuid.UUID) []*payment.Payment {
	var out []*payment.Payment
	s.read(func(d *state) {
		for _, snap := range d.payments {
			if snap.BookingID == bookingID {
				out = append(out, payment.Reconstruct(snap))
			}
		}
	})
	return out
}

// OutboxTopics lists recorded event topics in append order.
func (s *Store) OutboxTopics() []string {
	var topics []string
	s.read(func(d *state) {
		for _, row := range d.outbox {
			topics = append(topics, row.msg.Topic)
		}
	})
	return topics
}

// OutboxStatus returns the delivery status of every event, in append order.
func (s *Store) OutboxStatus() []string {
	var out []string
	s.read(func(d *state) {
		for _, row := range d.outbox {
			out = append(out, row.status)
		}
	})
	return out
}

func paramsOf(p *promotion.Promotion) promotion.Params {
	return promotion.Params{
		ID:                 p.ID(),
		Code:               p.Code().String(),
		Discount:           p.Discount(),
		MinBookingAmount:   p.MinBookingAmount(),
		ValidFrom:          p.ValidFrom(),
		ValidTo:            p.ValidTo(),
		UsageLimit:         p.UsageLimit(),
		UsedCount:          p.UsedCount(),
		ApplicableVehicles: p.ApplicableVehicles(),
		Active:             p.Active(),
	}
}
