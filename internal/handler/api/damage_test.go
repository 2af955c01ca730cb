//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/handler/api"
	resdto "car-rental-api/internal/handler/dto/response"
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/testutil/httptest"
	"car-rental-api/internal/testutil/mock/commandsmock"
	"car-rental-api/internal/testutil/mock/queriesmock"
	"car-rental-api/internal/usecase/commands"
	"car-rental-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DamageHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockDamageCommands
	mockQueries  *queriesmock.MockDamageQueries
	handler      *api.DamageHandler
}

func (s *DamageHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockDamageCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockDamageQueries(s.mockCtrl)
	s.handler = api.NewDamageHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/api/v1/bookings/:id/damage-reports", fakeAuth, s.handler.Report)
	g := s.router.Group("/api/v1/damage-reports", fakeAuth)
	g.GET("/:id", s.handler.Get)
	g.POST("/:id/review", s.handler.MarkUnderReview)
	g.POST("/:id/approve", s.handler.Approve)
	g.POST("/:id/reject", s.handler.Reject)
	g.POST("/:id/resolve", s.handler.Resolve)
}

func (s *DamageHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestDamageHandlerSuite(t *testing.T) {
	suite.Run(t, new(DamageHandlerTestSuite))
}

func (s *DamageHandlerTestSuite) reportView(id uuid.UUID, status damage.Status) *queries.DamageReportView {
	return &queries.DamageReportView{
		ID:            id,
		BookingID:     uuid.New(),
		BookingUserID: testCustomerID,
		CarID:         uuid.New(),
		ReportedBy:    testAdminID,
		Description:   "scratched rear bumper",
		EstimatedCost: money.FromInt(250),
		Status:        status.String(),
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
}

func (s *DamageHandlerTestSuite) TestReport() {
	bookingID := uuid.New()
	url := "/api/v1/bookings/" + bookingID.String() + "/damage-reports"
	reqBody := map[string]any{"description": "scratched rear bumper", "estimated_cost": 250}

	s.Run("success: returns 201 with location", func() {
		reportID := uuid.New()
		report, err := damage.NewReport(reportID, bookingID, uuid.New(), testAdminID, "scratched rear bumper", money.FromInt(250), testNow)
		s.Require().NoError(err)

		s.mockCommands.EXPECT().
			Report(gomock.Any(), user.NewActor(testAdminID, user.RoleAdmin), gomock.Cond(func(in commands.ReportDamageInput) bool {
				return in.BookingID == bookingID && in.EstimatedCost.Equal(money.FromInt(250))
			})).
			Return(report, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), reportID).Return(s.reportView(reportID, damage.StatusPending), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, adminToken)

		var body resdto.DamageReportResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal("pending", body.Status)
		s.Nil(body.ActualCost)
		httptest.AssertHeaders(s.T(), rec, map[string]string{
			"Location": "/api/v1/damage-reports/" + reportID.String(),
		})
	})

	s.Run("error: booking not completed", func() {
		s.mockCommands.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, damage.ErrBookingNotCompleted)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "completed booking")
	})

	s.Run("error: unknown booking", func() {
		s.mockCommands.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, booking.ErrBookingNotFound)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})

	s.Run("error: 400 without description", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"estimated_cost": 250}, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *DamageHandlerTestSuite) TestGet() {
	reportID := uuid.New()

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), user.NewActor(testCustomerID, user.RoleCustomer), reportID).
			Return(s.reportView(reportID, damage.StatusUnderReview), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/v1/damage-reports/"+reportID.String(), nil, customerToken)

		var body resdto.DamageReportResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("under_review", body.Status)
	})

	s.Run("error: 404", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), reportID).Return(nil, damage.ErrReportNotFound)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/v1/damage-reports/"+reportID.String(), nil, customerToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "damage report not found")
	})
}

func (s *DamageHandlerTestSuite) TestTransitions() {
	reportID := uuid.New()
	base := "/api/v1/damage-reports/" + reportID.String()

	s.Run("success: approve records the actual cost", func() {
		view := s.reportView(reportID, damage.StatusApproved)
		cost := money.FromInt(300)
		notes := "confirmed at return"
		view.ActualCost = &cost
		view.AdminNotes = &notes

		s.mockCommands.EXPECT().
			Approve(gomock.Any(), gomock.Any(), reportID, gomock.Cond(func(m money.Money) bool { return m.Equal(cost) }), notes).
			Return(nil, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), reportID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/approve",
			map[string]any{"actual_cost": 300, "notes": notes}, adminToken)

		var body resdto.DamageReportResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("approved", body.Status)
		s.Require().NotNil(body.ActualCost)
		s.True(body.ActualCost.Equal(cost))
	})

	s.Run("error: approving twice is a conflict", func() {
		s.mockCommands.EXPECT().Approve(gomock.Any(), gomock.Any(), reportID, gomock.Any(), gomock.Any()).
			Return(nil, damage.ErrInvalidTransition)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/approve", map[string]any{"actual_cost": 300}, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "transition not allowed")
	})

	s.Run("success: reject", func() {
		s.mockCommands.EXPECT().Reject(gomock.Any(), gomock.Any(), reportID, "pre-existing").Return(nil, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), reportID).Return(s.reportView(reportID, damage.StatusRejected), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/reject", map[string]any{"notes": "pre-existing"}, adminToken)

		var body resdto.DamageReportResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("rejected", body.Status)
	})

	s.Run("success: review and resolve take no body", func() {
		s.mockCommands.EXPECT().MarkUnderReview(gomock.Any(), gomock.Any(), reportID).Return(nil, nil)
		s.mockCommands.EXPECT().Resolve(gomock.Any(), gomock.Any(), reportID).Return(nil, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), reportID).Return(s.reportView(reportID, damage.StatusUnderReview), nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), reportID).Return(s.reportView(reportID, damage.StatusResolved), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/review", nil, adminToken)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)

		rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/resolve", nil, adminToken)
		var body resdto.DamageReportResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("resolved", body.Status)
	})

	s.Run("error: customers cannot transition", func() {
		s.mockCommands.EXPECT().Resolve(gomock.Any(), user.NewActor(testCustomerID, user.RoleCustomer), reportID).Return(nil, commands.ErrAdminOnly)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/resolve", nil, customerToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "requires an admin")
	})
}
