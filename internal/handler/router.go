package handler

import (
	"net/http"

	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/handler/api"
	"car-rental-api/internal/handler/middleware"
	"car-rental-api/internal/pkg/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// Handlers collects every API handler for the router.
type Handlers struct {
	fx.In

	Cars       *api.CarHandler
	Promotions *api.PromotionHandler
	Bookings   *api.BookingHandler
	Payments   *api.PaymentHandler
	Damage     *api.DamageHandler
	Auth       *middleware.AuthMiddleware
	Logger     *middleware.Logger
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers) {
	setupMiddleware(engine, cfg, h.Logger)
	setupRoutes(engine, cfg, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, h Handlers) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := engine.Group("/api/v1")
	{
		callbacks := v1.Group("/payments")
		callbacks.Use(middleware.RequireCallbackSecret(cfg.Payment.CallbackSecret))
		addRoutes(callbacks, []route{
			{Method: http.MethodPost, Path: "/callback", Handler: h.Payments.Callback},
		})

		authed := v1.Group("")
		authed.Use(h.Auth.RequireAuth())
		adminOnly := h.Auth.RequireRoleAtLeast(user.RoleAdmin)

		cars := authed.Group("/cars")
		addRoutes(cars, []route{
			{Method: http.MethodGet, Path: "/:id", Handler: h.Cars.Get},
			{Method: http.MethodGet, Path: "/:id/quote", Handler: h.Cars.Quote},
		})

		promotions := authed.Group("/promotions")
		addRoutes(promotions, []route{
			{Method: http.MethodPost, Path: "/preview", Handler: h.Promotions.Preview},
		})

		bookings := authed.Group("/bookings")
		addRoutes(bookings, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Bookings.Create},
			{Method: http.MethodGet, Path: "", Handler: h.Bookings.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Bookings.Get},
			{Method: http.MethodPatch, Path: "/:id/status", Handler: h.Bookings.UpdateStatus},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Bookings.Cancel},
			{Method: http.MethodPost, Path: "/:id/payments", Handler: h.Payments.Pay},
			{Method: http.MethodPost, Path: "/:id/refund", Handler: h.Payments.Refund, Mw: []gin.HandlerFunc{adminOnly}},
			{Method: http.MethodPost, Path: "/:id/promotion/release", Handler: h.Bookings.ReleasePromotion, Mw: []gin.HandlerFunc{adminOnly}},
			{Method: http.MethodPost, Path: "/:id/damage-reports", Handler: h.Damage.Report, Mw: []gin.HandlerFunc{adminOnly}},
		})

		damage := authed.Group("/damage-reports")
		addRoutes(damage, []route{
			{Method: http.MethodGet, Path: "/:id", Handler: h.Damage.Get},
			{Method: http.MethodPost, Path: "/:id/review", Handler: h.Damage.MarkUnderReview, Mw: []gin.HandlerFunc{adminOnly}},
			{Method: http.MethodPost, Path: "/:id/approve", Handler: h.Damage.Approve, Mw: []gin.HandlerFunc{adminOnly}},
			{Method: http.MethodPost, Path: "/:id/reject", Handler: h.Damage.Reject, Mw: []gin.HandlerFunc{adminOnly}},
			{Method: http.MethodPost, Path: "/:id/resolve", Handler: h.Damage.Resolve, Mw: []gin.HandlerFunc{adminOnly}},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
