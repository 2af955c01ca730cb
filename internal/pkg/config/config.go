package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Booking   BookingConfig
	Payment   PaymentConfig
	Messaging MessagingConfig
}

type ServerConfig struct {
	Port    string `envconfig:"PORT" required:"true"`
	GinMode string `envconfig:"GIN_MODE" default:"release"`
}

const (
	DBDriverPostgres = "postgres"
	DBDriverMemory   = "memory"
)

type DBConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"postgres"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone   string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

type BookingConfig struct {
	PendingTTL    time.Duration `envconfig:"BOOKING_PENDING_TTL" default:"30m"`
	SweepSchedule string        `envconfig:"BOOKING_SWEEP_SCHEDULE" default:"0 */5 * * * *"`
}

const PaymentGatewaySandbox = "sandbox"

type PaymentConfig struct {
	Gateway        string        `envconfig:"PAYMENT_GATEWAY" default:"sandbox"`
	ChargeTimeout  time.Duration `envconfig:"PAYMENT_CHARGE_TIMEOUT" default:"10s"`
	CallbackSecret string        `envconfig:"PAYMENT_CALLBACK_SECRET"`
}

type MessagingConfig struct {
	RabbitMQURL   string `envconfig:"RABBITMQ_URL"`
	Exchange      string `envconfig:"RABBITMQ_EXCHANGE" default:"car-rental.events"`
	RelaySchedule string `envconfig:"OUTBOX_RELAY_SCHEDULE" default:"*/10 * * * * *"`
	BatchSize     int    `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	MaxAttempts   int    `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// Enabled reports whether events should be relayed to a broker.
func (c MessagingConfig) Enabled() bool {
	return c.RabbitMQURL != ""
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DB.Driver {
	case DBDriverMemory:
	case DBDriverPostgres:
		if c.DB.User == "" || c.DB.DBName == "" {
			return fmt.Errorf("DB_USER and DB_NAME are required for driver %q", c.DB.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.Payment.Gateway != PaymentGatewaySandbox {
		return fmt.Errorf("unsupported PAYMENT_GATEWAY %q", c.Payment.Gateway)
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:    "8889", // Test port
			GinMode: "test",
		},
		DB: DBConfig{
			Driver:   DBDriverMemory,
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 4,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Booking: BookingConfig{
			PendingTTL:    30 * time.Minute,
			SweepSchedule: "0 */5 * * * *",
		},
		Payment: PaymentConfig{
			Gateway:        PaymentGatewaySandbox,
			ChargeTimeout:  2 * time.Second,
			CallbackSecret: "test-callback-secret",
		},
		Messaging: MessagingConfig{
			Exchange:      "car-rental.events",
			RelaySchedule: "*/10 * * * * *",
			BatchSize:     100,
			MaxAttempts:   10,
		},
	}
}
