//go:build integration

package dbtest

import (
	"context"
	"testing"
	"time"

	"car-rental-api/internal/infra/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func InsertCar(t *testing.T, dbtx db.DBTX, name string, dailyRate string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := dbtx.Exec(context.Background(),
		"INSERT INTO cars (id, name, category, daily_rate, available) VALUES ($1, $2, 'compact', $3::numeric, true)",
		id, name, dailyRate)
	require.NoError(t, err)
	return id
}

// InsertPercentPromotion adds an active percentage promotion valid for a
// day either side of now.
func InsertPercentPromotion(t *testing.T, dbtx db.DBTX, code string, percent string, usageLimit int, now time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := dbtx.Exec(context.Background(), `
		INSERT INTO promotions (id, code, discount_type, discount_value, valid_from, valid_to, usage_limit, active)
		VALUES ($1, $2, 'percentage', $3::numeric, $4, $5, $6, true)`,
		id, code, percent, now.Add(-24*time.Hour), now.Add(24*time.Hour), usageLimit)
	require.NoError(t, err)
	return id
}

func PromotionUsedCount(t *testing.T, dbtx db.DBTX, id uuid.UUID) int {
	t.Helper()
	var n int
	require.NoError(t, dbtx.QueryRow(context.Background(), "SELECT used_count FROM promotions WHERE id = $1", id).Scan(&n))
	return n
}

func CountRows(t *testing.T, dbtx db.DBTX, table string) int {
	t.Helper()
	var n int
	require.NoError(t, dbtx.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n))
	return n
}
