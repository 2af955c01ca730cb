package bootstrap

import (
	"car-rental-api/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// AppModule is everything but configuration, so tests can supply their own.
var AppModule = fx.Options(
	LoggerModule,
	DBModule,
	JWTModule,
	components.UseCaseModule,
	components.JobsModule,
	components.HandlerModule,
)

var Module = fx.Options(
	ConfigModule,
	AppModule,
)
