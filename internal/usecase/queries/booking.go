package queries

import (
	"context"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/infra"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../testutil/mock/queriesmock/booking.go -package=queriesmock

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int) ([]*BookingListItem, error)
	FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int) ([]*BookingListItem, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*BookingView, error)
	// ListMine returns the actor's bookings, newest first.
	ListMine(ctx context.Context, actor user.Actor, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
}

type bookingQueriesImpl struct {
	readStore BookingReadStore
}

func NewBookingQueries(readStore BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{readStore: readStore}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*BookingView, error) {
	b, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	// Staff may look up any booking; customers only their own.
	if b.UserID != actor.UserID && !actor.Role.AtLeast(user.RoleStaff) {
		return nil, booking.ErrBookingNotFound
	}
	return b, nil
}

func (q *bookingQueriesImpl) ListMine(ctx context.Context, actor user.Actor, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var rows []*BookingListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.readStore.FindByUserFirstPage(ctx, actor.UserID, limit+1)
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, derr
		}
		rows, err = q.readStore.FindByUserKeyset(ctx, actor.UserID, lastCreatedAt, lastID, limit+1)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, next := paginate(rows, limit, func(b *BookingListItem) (time.Time, uuid.UUID) {
		return b.CreatedAt, b.ID
	})
	return rows, next, nil
}
