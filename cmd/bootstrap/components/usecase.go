package components

import (
	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/infra/paygateway"
	"car-rental-api/internal/pkg/clock"
	"car-rental-api/internal/pkg/config"
	"car-rental-api/internal/usecase/commands"
	"car-rental-api/internal/usecase/queries"
	"car-rental-api/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewDailyRateCalculator,
		fx.As(new(booking.PriceCalculator)),
	),
	fx.Annotate(
		paygateway.NewSandbox,
		fx.As(new(commands.PaymentGateway)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
		commands.NewDamageUseCase,
		func(
			uow shared.UnitOfWork,
			bookings commands.BookingCommands,
			gateway commands.PaymentGateway,
			clk clock.Clock,
			cfg config.Config,
		) commands.PaymentCommands {
			return commands.NewPaymentUseCase(uow, bookings, gateway, clk, cfg.Payment.ChargeTimeout)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCarQueries,
		queries.NewBookingQueries,
		queries.NewPromotionQueries,
		queries.NewDamageQueries,
	),
)
