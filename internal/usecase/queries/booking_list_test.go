//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/infra/memstore"
	"car-rental-api/internal/testutil/builder"
	"car-rental-api/internal/testutil/mock/queriesmock"
	"car-rental-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBookingQueries_ListMine(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c := builder.NewCarBuilder().MustBuild()
	store.SeedCar(c)

	actor := user.NewActor(uuid.New(), user.RoleCustomer)
	var want []uuid.UUID
	for i := range 5 {
		// Two bookings share a timestamp so the id breaks the tie.
		created := now.Add(time.Duration(i/2) * time.Minute)
		b := builder.NewBookingBuilder(created).WithCarID(c.ID()).WithUserID(actor.UserID).MustBuild()
		store.SeedBooking(b)
		want = append(want, b.ID())
	}
	store.SeedBooking(builder.NewBookingBuilder(now).WithCarID(c.ID()).MustBuild())

	q := queries.NewBookingQueries(store.Views().Bookings())

	var (
		got    []uuid.UUID
		cursor *queries.Cursor
		pages  int
	)
	for {
		items, next, err := q.ListMine(ctx, actor, cursor, 2)
		require.NoError(t, err)
		pages++
		for i, item := range items {
			assert.Equal(t, c.Name(), item.CarName)
			if i > 0 {
				assert.False(t, item.CreatedAt.After(items[i-1].CreatedAt))
			}
			got = append(got, item.ID)
		}
		if next == nil {
			break
		}
		cursor = next
	}

	assert.Equal(t, 3, pages)
	assert.ElementsMatch(t, want, got)
}

func TestBookingQueries_ListMine_InvalidCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	rs := queriesmock.NewMockBookingReadStore(ctrl)

	_, _, err := queries.NewBookingQueries(rs).ListMine(context.Background(), user.NewActor(uuid.New(), user.RoleCustomer), &queries.Cursor{After: "%%%"}, 10)
	assert.ErrorIs(t, err, queries.ErrInvalidCursor)
}

func TestCursorRoundTrip(t *testing.T) {
	id := uuid.New()
	ts := time.Date(2026, 1, 2, 3, 4, 5, 678901000, time.UTC)

	decodedAt, decodedID, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(ts, id))
	require.NoError(t, err)
	assert.True(t, ts.Equal(decodedAt))
	assert.Equal(t, id, decodedID)

	for _, bad := range []string{"", "bm90LWEtY3Vyc29y", "djE6YWJjLWRlZg=="} {
		_, _, err := queries.DecodeAfterCursor(bad)
		assert.ErrorIs(t, err, queries.ErrInvalidCursor, bad)
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(1000))
	assert.Equal(t, 7, queries.ValidateLimit(7))
}
