package memstore

import (
	"context"
	"slices"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/car"
	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/domain/payment"
	"car-rental-api/internal/domain/promotion"
	"car-rental-api/internal/infra"
	"car-rental-api/internal/infra/codec"
	"car-rental-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type memTx struct {
	data *state
}

func (t *memTx) Cars() shared.CarRepository                   { return carRepo{t.data} }
func (t *memTx) Bookings() shared.BookingRepository           { return bookingRepo{t.data} }
func (t *memTx) Promotions() shared.PromotionRepository       { return promotionRepo{t.data} }
func (t *memTx) Payments() shared.PaymentRepository           { return paymentRepo{t.data} }
func (t *memTx) DamageReports() shared.DamageReportRepository { return damageRepo{t.data} }
func (t *memTx) Idempotency() shared.IdempotencyRepository    { return idempotencyRepo{t.data} }
func (t *memTx) Outbox() shared.OutboxRepository              { return outboxRepo{t.data} }
func (t *memTx) Reads() shared.CommandReads                   { return reads{t.data} }

func notFound(what string) error {
	return infra.NewRepoErr(infra.KindNotFound, what+" not found")
}

type carRepo struct{ d *state }

func (r carRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*car.Car, error) {
	c, ok := r.d.cars[id]
	if !ok {
		return nil, notFound("car")
	}
	return c, nil
}

type bookingRepo struct{ d *state }

func (r bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if _, exists := r.d.bookings[b.ID()]; exists {
		return infra.NewRepoErr(infra.KindDuplicateKey, "booking already exists")
	}
	if _, ok := r.d.cars[b.CarID()]; !ok {
		return infra.NewRepoErr(infra.KindForeignKeyViolated, "car does not exist")
	}
	r.d.bookings[b.ID()] = b.Snapshot()
	return nil
}

func (r bookingRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	snap, ok := r.d.bookings[id]
	if !ok {
		return nil, notFound("booking")
	}
	return booking.Reconstruct(snap), nil
}

func (r bookingRepo) Update(_ context.Context, b *booking.Booking) error {
	if _, ok := r.d.bookings[b.ID()]; !ok {
		return notFound("booking")
	}
	r.d.bookings[b.ID()] = b.Snapshot()
	return nil
}

func (r bookingRepo) HasOverlap(_ context.Context, carID uuid.UUID, period booking.Period) (bool, error) {
	for _, snap := range r.d.bookings {
		if snap.CarID != carID {
			continue
		}
		if snap.Status != booking.StatusPending && snap.Status != booking.StatusConfirmed {
			continue
		}
		if booking.ReconstructPeriod(snap.StartAt, snap.EndAt).Overlaps(period) {
			return true, nil
		}
	}
	return false, nil
}

func (r bookingRepo) ExpireStalePending(_ context.Context, cutoff, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, snap := range r.d.bookings {
		if !snap.CreatedAt.Before(cutoff) || r.chargeInFlight(id) {
			continue
		}
		b := booking.Reconstruct(snap)
		if b.Expire(now) {
			r.d.bookings[id] = b.Snapshot()
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r bookingRepo) chargeInFlight(bookingID uuid.UUID) bool {
	for _, p := range r.d.payments {
		if p.BookingID == bookingID && p.Status == payment.StatusPending {
			return true
		}
	}
	return false
}

type promotionRepo struct{ d *state }

func (r promotionRepo) Consume(_ context.Context, id uuid.UUID) (bool, error) {
	row, ok := r.d.promotions[id]
	if !ok || row.params.UsedCount >= row.params.UsageLimit {
		return false, nil
	}
	row.params.UsedCount++
	r.d.promotions[id] = row
	return true, nil
}

func (r promotionRepo) Release(_ context.Context, id uuid.UUID) (bool, error) {
	row, ok := r.d.promotions[id]
	if !ok || row.params.UsedCount == 0 {
		return false, nil
	}
	row.params.UsedCount--
	r.d.promotions[id] = row
	return true, nil
}

type paymentRepo struct{ d *state }

func (r paymentRepo) Create(_ context.Context, p *payment.Payment) (bool, error) {
	if _, exists := r.d.payments[p.IdempotencyKey()]; exists {
		return false, nil
	}
	r.d.payments[p.IdempotencyKey()] = p.Snapshot()
	return true, nil
}

func (r paymentRepo) GetByKeyForUpdate(_ context.Context, key string) (*payment.Payment, error) {
	snap, ok := r.d.payments[key]
	if !ok {
		return nil, notFound("payment")
	}
	return payment.Reconstruct(snap), nil
}

func (r paymentRepo) FindPaidByBooking(_ context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	for _, snap := range r.d.payments {
		if snap.BookingID == bookingID && snap.Status == payment.StatusPaid {
			return payment.Reconstruct(snap), nil
		}
	}
	return nil, notFound("paid payment")
}

func (r paymentRepo) Update(_ context.Context, p *payment.Payment) error {
	if _, ok := r.d.payments[p.IdempotencyKey()]; !ok {
		return notFound("payment")
	}
	r.d.payments[p.IdempotencyKey()] = p.Snapshot()
	return nil
}

type damageRepo struct{ d *state }

func (r damageRepo) Create(_ context.Context, report *damage.Report) error {
	if _, exists := r.d.damage[report.ID()]; exists {
		return infra.NewRepoErr(infra.KindDuplicateKey, "damage report already exists")
	}
	r.d.damage[report.ID()] = report.Snapshot()
	return nil
}

func (r damageRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*damage.Report, error) {
	snap, ok := r.d.damage[id]
	if !ok {
		return nil, notFound("damage report")
	}
	return damage.Reconstruct(snap), nil
}

func (r damageRepo) Update(_ context.Context, report *damage.Report) error {
	if _, ok := r.d.damage[report.ID()]; !ok {
		return notFound("damage report")
	}
	r.d.damage[report.ID()] = report.Snapshot()
	return nil
}

type idempotencyRepo struct{ d *state }

func (r idempotencyRepo) TryInsert(_ context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	id := idempotencyID{key: key, userID: userID}
	if _, exists := r.d.idempotency[id]; exists {
		return false, nil
	}
	r.d.idempotency[id] = shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		Status:      shared.IdempotencyStatusProcessing,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r idempotencyRepo) ClaimExpired(_ context.Context, key, userID uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error) {
	id := idempotencyID{key: key, userID: userID}
	rec, ok := r.d.idempotency[id]
	if !ok || !rec.ExpiresAt.Before(now) {
		return false, nil
	}
	rec.RequestHash = requestHash
	rec.Status = shared.IdempotencyStatusProcessing
	rec.ResultBookingID = nil
	rec.ExpiresAt = expiresAt
	r.d.idempotency[id] = rec
	return true, nil
}

func (r idempotencyRepo) Complete(_ context.Context, key, userID, bookingID uuid.UUID) error {
	id := idempotencyID{key: key, userID: userID}
	rec, ok := r.d.idempotency[id]
	if !ok {
		return notFound("idempotency key")
	}
	rec.Status = shared.IdempotencyStatusCompleted
	rec.ResultBookingID = &bookingID
	r.d.idempotency[id] = rec
	return nil
}

type outboxRepo struct{ d *state }

func (r outboxRepo) Append(_ context.Context, e shared.Event) error {
	payload, err := codec.EncodePayload(e)
	if err != nil {
		return err
	}
	r.d.outbox = append(r.d.outbox, outboxRow{
		msg: shared.OutboxMessage{
			ID:          uuid.New(),
			Topic:       e.Topic,
			AggregateID: e.AggregateID,
			Payload:     payload,
			CreatedAt:   e.OccurredAt,
		},
		status:      shared.OutboxStatusPending,
		availableAt: e.OccurredAt,
	})
	return nil
}

func (r outboxRepo) FetchPending(_ context.Context, now time.Time, limit int) ([]shared.OutboxMessage, error) {
	var out []shared.OutboxMessage
	for _, row := range r.d.outbox {
		if len(out) == limit {
			break
		}
		if row.status == shared.OutboxStatusPending && !row.availableAt.After(now) {
			out = append(out, row.msg)
		}
	}
	return out, nil
}

func (r outboxRepo) MarkSent(_ context.Context, id uuid.UUID, now time.Time) error {
	return r.update(id, func(row *outboxRow) {
		row.status = shared.OutboxStatusSent
		row.msg.Attempts++
		row.sentAt = &now
	})
}

func (r outboxRepo) MarkFailed(_ context.Context, id uuid.UUID, lastErr string, retryAt time.Time, giveUp bool) error {
	return r.update(id, func(row *outboxRow) {
		row.msg.Attempts++
		row.lastError = lastErr
		row.availableAt = retryAt
		if giveUp {
			row.status = shared.OutboxStatusFailed
		}
	})
}

func (r outboxRepo) update(id uuid.UUID, fn func(row *outboxRow)) error {
	i := slices.IndexFunc(r.d.outbox, func(row outboxRow) bool { return row.msg.ID == id })
	if i < 0 {
		return notFound("outbox event")
	}
	fn(&r.d.outbox[i])
	return nil
}

// reads serves CommandReads from one state, either a transaction's working
// copy or, through lockedReads, the committed data.
type reads struct{ d *state }

func (r reads) CarByID(_ context.Context, id uuid.UUID) (*car.Car, error) {
	c, ok := r.d.cars[id]
	if !ok {
		return nil, notFound("car")
	}
	return c, nil
}

func (r reads) PromotionByCode(_ context.Context, code promotion.Code) (*promotion.Promotion, error) {
	for _, row := range r.d.promotions {
		if row.params.Code == code.String() {
			return row.entity(), nil
		}
	}
	return nil, notFound("promotion")
}

func (r reads) BookingByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	snap, ok := r.d.bookings[id]
	if !ok {
		return nil, notFound("booking")
	}
	return booking.Reconstruct(snap), nil
}

func (r reads) PaymentByKey(_ context.Context, key string) (*payment.Payment, error) {
	snap, ok := r.d.payments[key]
	if !ok {
		return nil, notFound("payment")
	}
	return payment.Reconstruct(snap), nil
}

func (r reads) IdempotencyByKey(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.d.idempotency[idempotencyID{key: key, userID: userID}]
	if !ok {
		return nil, notFound("idempotency key")
	}
	return &rec, nil
}

type lockedReads struct{ store *Store }

func (r *lockedReads) CarByID(ctx context.Context, id uuid.UUID) (c *car.Car, err error) {
	r.store.read(func(d *state) { c, err = reads{d}.CarByID(ctx, id) })
	return c, err
}

func (r *lockedReads) PromotionByCode(ctx context.Context, code promotion.Code) (p *promotion.Promotion, err error) {
	r.store.read(func(d *state) { p, err = reads{d}.PromotionByCode(ctx, code) })
	return p, err
}

func (r *lockedReads) BookingByID(ctx context.Context, id uuid.UUID) (b *booking.Booking, err error) {
	r.store.read(func(d *state) { b, err = reads{d}.BookingByID(ctx, id) })
	return b, err
}

func (r *lockedReads) PaymentByKey(ctx context.Context, key string) (p *payment.Payment, err error) {
	r.store.read(func(d *state) { p, err = reads{d}.PaymentByKey(ctx, key) })
	return p, err
}

func (r *lockedReads) IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (rec *shared.IdempotencyRecord, err error) {
	r.store.read(func(d *state) { rec, err = reads{d}.IdempotencyByKey(ctx, key, userID) })
	return rec, err
}
