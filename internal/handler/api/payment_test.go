//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/payment"
	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/handler/api"
	resdto "car-rental-api/internal/handler/dto/response"
	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/testutil"
	"car-rental-api/internal/testutil/builder"
	"car-rental-api/internal/testutil/httptest"
	"car-rental-api/internal/testutil/mock/commandsmock"
	"car-rental-api/internal/testutil/mock/queriesmock"
	"car-rental-api/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.PaymentHandler
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewPaymentHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/api/v1/bookings/:id/payments", fakeAuth, s.handler.Pay)
	s.router.POST("/api/v1/bookings/:id/refund", fakeAuth, s.handler.Refund)
	s.router.POST("/api/v1/payments/callback", s.handler.Callback)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func (s *PaymentHandlerTestSuite) payResult(settle func(b *booking.Booking, p *payment.Payment)) *commands.PayResult {
	b := builder.NewBookingBuilder(testNow).WithUserID(testCustomerID).MustBuild()
	p, err := payment.NewPendingPayment(uuid.New(), b.ID(), 1, b.TotalPrice(), testNow)
	s.Require().NoError(err)
	b.StartPaymentAttempt(1, testNow)
	if settle != nil {
		settle(b, p)
	}
	return &commands.PayResult{Booking: b, Payment: p, Attempt: 1, IdempotencyKey: p.IdempotencyKey()}
}

func (s *PaymentHandlerTestSuite) TestPay() {
	bookingID := uuid.New()
	url := "/api/v1/bookings/" + bookingID.String() + "/payments"
	reqBody := map[string]any{"source_token": "tok_visa"}

	s.Run("success: returns 200 with the captured payment", func() {
		result := s.payResult(func(b *booking.Booking, p *payment.Payment) {
			s.Require().NoError(p.Succeed("sbx_1", testNow))
			s.Require().NoError(b.MarkPaid(testNow))
		})
		s.mockCommands.EXPECT().
			Pay(gomock.Any(), user.NewActor(testCustomerID, user.RoleCustomer), commands.PayInput{BookingID: bookingID, SourceToken: "tok_visa"}).
			Return(result, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, customerToken)

		var body resdto.PaymentResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("paid", body.Payment.Status)
		s.Equal("paid", body.PaymentStatus)
		s.Equal("confirmed", body.BookingStatus)
		s.Require().NotNil(body.Payment.TransactionID)
		s.Equal("sbx_1", *body.Payment.TransactionID)
	})

	s.Run("accepted: gateway timeout leaves the booking pending", func() {
		result := s.payResult(nil)
		s.mockCommands.EXPECT().Pay(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(result, errs.Wrapf(commands.ErrPaymentOutcomeUnknown, "charge: %v", commands.ErrGatewayTimeout))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, customerToken)

		var body resdto.PaymentResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusAccepted, &body)
		s.Equal("pending", body.Payment.Status)
		s.Equal("pending", body.BookingStatus)
		s.Equal(result.IdempotencyKey, body.Payment.IdempotencyKey)
	})

	s.Run("error: declined charge answers 402 with the failed attempt", func() {
		result := s.payResult(func(b *booking.Booking, p *payment.Payment) {
			s.Require().NoError(p.Fail("", "card_declined", testNow))
			s.Require().NoError(b.MarkPaymentFailed(testNow))
		})
		s.mockCommands.EXPECT().Pay(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(result, errs.Wrapf(commands.ErrPaymentDeclined, "%s", "card_declined"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, customerToken)

		httptest.AssertErrorResponse(s.T(), rec, http.StatusPaymentRequired, "payment was declined")
		s.Contains(rec.Body.String(), `"failure_reason":"card_declined"`)
	})

	s.Run("success: retrying a previous attempt forwards the attempt number", func() {
		s.mockCommands.EXPECT().
			Pay(gomock.Any(), gomock.Any(), commands.PayInput{BookingID: bookingID, SourceToken: "tok_visa", Attempt: 2}).
			Return(s.payResult(nil), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"source_token": "tok_visa", "attempt": 2}, customerToken)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: source_token (required)", mutate: testutil.Field("source_token", nil)},
			{name: "negative attempt", mutate: testutil.Field("attempt", -1)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, customerToken)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: already paid is a conflict", func() {
		s.mockCommands.EXPECT().Pay(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, booking.ErrNotPayable)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, customerToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "can no longer be paid")
	})
}

func (s *PaymentHandlerTestSuite) TestCallback() {
	url := "/api/v1/payments/callback"

	s.Run("success: settles the pending payment", func() {
		pay := s.payResult(func(b *booking.Booking, p *payment.Payment) {
			s.Require().NoError(p.Succeed("prov_42", testNow))
			s.Require().NoError(b.MarkPaid(testNow))
		})
		in := commands.CallbackInput{IdempotencyKey: pay.IdempotencyKey, TransactionID: "prov_42", Succeeded: true}
		s.mockCommands.EXPECT().HandleCallback(gomock.Any(), in).
			Return(&commands.AttachPaymentResult{Booking: pay.Booking, Payment: pay.Payment}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{
			"idempotency_key": pay.IdempotencyKey,
			"transaction_id":  "prov_42",
			"status":          "succeeded",
		}, "")

		var body resdto.PaymentResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("confirmed", body.BookingStatus)
		s.False(body.Replayed)
	})

	s.Run("error: 400 on unknown status", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{
			"idempotency_key": "k",
			"status":          "maybe",
		}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 404 for unknown payment", func() {
		s.mockCommands.EXPECT().HandleCallback(gomock.Any(), gomock.Any()).Return(nil, payment.ErrPaymentNotFound)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{
			"idempotency_key": "missing",
			"status":          "failed",
		}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "payment not found")
	})
}

func (s *PaymentHandlerTestSuite) TestRefund() {
	bookingID := uuid.New()
	url := "/api/v1/bookings/" + bookingID.String() + "/refund"

	s.Run("success: returns the refunded booking", func() {
		view := builder.NewBookingBuilder(testNow).WithStatus(booking.StatusCancelled).WithPaymentStatus(booking.PaymentRefunded).BuildView()
		s.mockCommands.EXPECT().MarkRefunded(gomock.Any(), user.NewActor(testAdminID, user.RoleAdmin), bookingID, "re_123").Return(nil, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), bookingID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reference": "re_123"}, adminToken)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("refunded", body.PaymentStatus)
	})

	s.Run("error: 403 for customers", func() {
		s.mockCommands.EXPECT().MarkRefunded(gomock.Any(), gomock.Any(), bookingID, "re_123").Return(nil, commands.ErrAdminOnly)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reference": "re_123"}, customerToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "requires an admin")
	})

	s.Run("error: 400 without reference", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}
