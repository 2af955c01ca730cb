//go:build unit

package bootstrap_test

import (
	"net/http"
	"testing"
	"time"

	"car-rental-api/cmd/bootstrap"
	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/handler/middleware"
	resdto "car-rental-api/internal/handler/dto/response"
	"car-rental-api/internal/infra/memstore"
	"car-rental-api/internal/pkg/config"
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/testutil/authtest"
	"car-rental-api/internal/testutil/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// newApp starts the full dependency graph on the memory driver.
func newApp(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var engine *gin.Engine
	app := fxtest.New(t,
		bootstrap.AppModule,
		fx.Supply(cfg),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		fx.Populate(&engine),
		fx.NopLogger,
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)
	return engine
}

func TestAppBookingFlow(t *testing.T) {
	cfg := config.NewTestConfig()
	router := newApp(t, cfg)

	tokens := authtest.NewJWTHelper(cfg.JWT)
	customerID := uuid.New()
	customer := tokens.GenerateToken(t, customerID, user.RoleCustomer)
	admin := tokens.GenerateToken(t, uuid.New(), user.RoleAdmin)

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	createBody := map[string]any{
		"car_id":         memstore.DemoCompactID,
		"start_at":       start,
		"end_at":         start.Add(72 * time.Hour),
		"promotion_code": "WELCOME10",
	}
	idemKey := map[string]string{middleware.HeaderIdempotencyKey: uuid.NewString()}

	rec := httptest.PerformRequest(t, router, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/v1/bookings", createBody, "")
	httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")

	var created resdto.CreateBookingResponse
	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/v1/bookings", createBody, customer, idemKey)
	httptest.AssertSuccessResponse(t, rec, http.StatusCreated, &created)
	require.NotNil(t, created.BookingResponse)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, 3, created.DurationDays)
	assert.True(t, created.BasePrice.Equal(money.FromInt(135)), "base price %s", created.BasePrice)
	assert.True(t, created.TotalPrice.Equal(money.New(created.BasePrice.Decimal().Sub(created.Discount.Decimal()))))
	assert.Empty(t, created.PromotionRejection)
	bookingURL := "/api/v1/bookings/" + created.ID.String()

	// same key and body replays the stored booking
	var replayed resdto.CreateBookingResponse
	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/v1/bookings", createBody, customer, idemKey)
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &replayed)
	httptest.AssertHeaders(t, rec, map[string]string{"Idempotent-Replayed": "true"})
	assert.Equal(t, created.ID, replayed.ID)

	// overlapping booking of the same car
	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/v1/bookings", createBody, customer,
		map[string]string{middleware.HeaderIdempotencyKey: uuid.NewString()})
	httptest.AssertErrorResponse(t, rec, http.StatusConflict, "overlapping")

	var paid resdto.PaymentResultResponse
	rec = httptest.PerformRequest(t, router, http.MethodPost, bookingURL+"/payments", map[string]any{"source_token": "tok_visa"}, customer)
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &paid)
	assert.Equal(t, "confirmed", paid.BookingStatus)
	assert.Equal(t, "paid", paid.PaymentStatus)

	rec = httptest.PerformRequest(t, router, http.MethodPost, bookingURL+"/payments", map[string]any{"source_token": "tok_visa"}, customer)
	httptest.AssertErrorResponse(t, rec, http.StatusConflict, "")

	// refunds are admin only
	rec = httptest.PerformRequest(t, router, http.MethodPost, bookingURL+"/refund", map[string]any{"reference": "re_1"}, customer)
	httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Insufficient permissions")

	var refunded resdto.BookingResponse
	rec = httptest.PerformRequest(t, router, http.MethodPost, bookingURL+"/refund", map[string]any{"reference": "re_1"}, admin)
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &refunded)
	assert.Equal(t, "refunded", refunded.PaymentStatus)

	var list resdto.BookingListResponse
	rec = httptest.PerformRequest(t, router, http.MethodGet, "/api/v1/bookings?limit=10", nil, customer)
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)
	assert.Nil(t, list.NextCursor)
}

func TestAppCallbackRequiresSecret(t *testing.T) {
	cfg := config.NewTestConfig()
	router := newApp(t, cfg)

	body := map[string]any{"idempotency_key": uuid.NewString(), "status": "succeeded", "transaction_id": "prov_1"}

	rec := httptest.PerformRequest(t, router, http.MethodPost, "/api/v1/payments/callback", body, "")
	httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid callback signature")

	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/v1/payments/callback", body, "",
		map[string]string{middleware.HeaderCallbackSecret: cfg.Payment.CallbackSecret})
	httptest.AssertErrorResponse(t, rec, http.StatusNotFound, "payment not found")
}

func TestAppCatalog(t *testing.T) {
	cfg := config.NewTestConfig()
	router := newApp(t, cfg)
	token := authtest.NewJWTHelper(cfg.JWT).GenerateToken(t, uuid.New(), user.RoleCustomer)

	var car resdto.CarResponse
	rec := httptest.PerformRequest(t, router, http.MethodGet, "/api/v1/cars/"+memstore.DemoSedanID.String(), nil, token)
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &car)
	assert.Equal(t, "Honda Accord", car.Name)

	var preview resdto.DiscountPreviewResponse
	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/v1/promotions/preview",
		map[string]any{"code": "SEDAN25", "vehicle_id": memstore.DemoSedanID, "amount": 210}, token)
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &preview)
	assert.True(t, preview.Discount.Equal(money.FromInt(25)))
	assert.True(t, preview.FinalAmount.Equal(money.FromInt(185)))

	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/v1/promotions/preview",
		map[string]any{"code": "SEDAN25", "vehicle_id": memstore.DemoCompactID, "amount": 210}, token)
	httptest.AssertErrorResponse(t, rec, http.StatusUnprocessableEntity, "does not apply")

	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/v1/promotions/preview",
		map[string]any{"code": "NOPE", "vehicle_id": memstore.DemoSedanID, "amount": 210}, token)
	httptest.AssertErrorResponse(t, rec, http.StatusUnprocessableEntity, "promotion not found")
}
