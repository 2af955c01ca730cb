//go:build unit

package damage_test

import (
	"strings"
	"testing"
	"time"

	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

func newReport(t *testing.T) *damage.Report {
	t.Helper()
	r, err := damage.NewReport(uuid.New(), uuid.New(), uuid.New(), uuid.New(), "scratched bumper", money.FromInt(300), now)
	require.NoError(t, err)
	return r
}

func TestReport_ApproveTwice(t *testing.T) {
	r := newReport(t)

	require.NoError(t, r.MarkUnderReview(now))
	require.NoError(t, r.Approve(money.FromInt(250), "confirmed by workshop", now))

	err := r.Approve(money.FromInt(999), "second try", now.Add(time.Hour))
	require.ErrorIs(t, err, damage.ErrInvalidTransition)
	assert.True(t, errs.IsKind(err, errs.ErrInvalidState))

	require.NotNil(t, r.ActualCost())
	assert.Equal(t, "250.00", r.ActualCost().String())
	assert.Equal(t, "confirmed by workshop", r.AdminNotes())
	assert.Equal(t, now, r.UpdatedAt())
}

func TestReport_Transitions(t *testing.T) {
	type step func(r *damage.Report) error
	review := func(r *damage.Report) error { return r.MarkUnderReview(now) }
	approve := func(r *damage.Report) error { return r.Approve(money.FromInt(100), "", now) }
	reject := func(r *damage.Report) error { return r.Reject("not our fault", now) }
	resolve := func(r *damage.Report) error { return r.Resolve(now) }

	tests := []struct {
		name   string
		setup  []step
		action step
		errIs  error
		want   damage.Status
	}{
		{name: "review pending", action: review, want: damage.StatusUnderReview},
		{name: "approve pending", action: approve, want: damage.StatusApproved},
		{name: "reject pending", action: reject, want: damage.StatusRejected},
		{name: "approve under review", setup: []step{review}, action: approve, want: damage.StatusApproved},
		{name: "reject under review", setup: []step{review}, action: reject, want: damage.StatusRejected},
		{name: "review twice", setup: []step{review}, action: review, errIs: damage.ErrInvalidTransition},
		{name: "review approved", setup: []step{approve}, action: review, errIs: damage.ErrInvalidTransition},
		{name: "reject approved", setup: []step{approve}, action: reject, errIs: damage.ErrInvalidTransition},
		{name: "approve rejected", setup: []step{reject}, action: approve, errIs: damage.ErrInvalidTransition},
		{name: "resolve rejected", setup: []step{reject}, action: resolve, errIs: damage.ErrInvalidTransition},
		{name: "resolve pending", action: resolve, errIs: damage.ErrInvalidTransition},
		{name: "resolve approved", setup: []step{approve}, action: resolve, want: damage.StatusResolved},
		{name: "resolved is final", setup: []step{approve, resolve}, action: resolve, errIs: damage.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newReport(t)
			for _, s := range tt.setup {
				require.NoError(t, s(r))
			}
			before := r.Snapshot()

			err := tt.action(r)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				assert.Equal(t, before, r.Snapshot())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Status())
		})
	}
}

func TestReport_ActualCostOnlyOnApprove(t *testing.T) {
	r := newReport(t)
	require.NoError(t, r.Reject("pre-existing damage", now))
	assert.Nil(t, r.ActualCost())

	a := newReport(t)
	require.NoError(t, a.Approve(money.FromInt(80), "", now))
	require.NoError(t, a.Resolve(now))
	require.NotNil(t, a.ActualCost())
	assert.Equal(t, "80.00", a.ActualCost().String())
	require.NotNil(t, a.ResolvedAt())
}

func TestReport_Validation(t *testing.T) {
	_, err := damage.NewReport(uuid.New(), uuid.New(), uuid.New(), uuid.New(), "dent", money.FromInt(-1), now)
	require.ErrorIs(t, err, damage.ErrNegativeCost)

	_, err = damage.NewReport(uuid.New(), uuid.New(), uuid.New(), uuid.New(), strings.Repeat("a", damage.MaxTextLength+1), money.FromInt(1), now)
	require.ErrorIs(t, err, damage.ErrDescriptionTooLong)

	r := newReport(t)
	require.ErrorIs(t, r.Approve(money.FromInt(-5), "", now), damage.ErrNegativeCost)
	assert.Equal(t, damage.StatusPending, r.Status())
	assert.Nil(t, r.ActualCost())
}
