package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

var ErrPostgresNotConfigured = errors.New("config: postgres driver selected but POSTGRES_HOST, POSTGRES_USER or POSTGRES_DBNAME is empty")

// Config holds the application's configuration values.
// Tags like `envconfig:"APP_PORT"` name the environment variable,
// `default:""` provides the fallback when it is not set.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development" validate:"oneof=development staging production test"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	HttpServer ServerConfig
	GrpcServer GrpcServerConfig
	Storage    StorageConfig
	Postgres   PostgresConfig
	Catalog    CatalogConfig
	Shop       ShopConfig
}

// ServerConfig holds HTTP server-specific configurations.
type ServerConfig struct {
	Port         string        `envconfig:"HTTP_SERVER_PORT" default:"8080" validate:"required,numeric"`
	TimeoutRead  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
}

// GrpcServerConfig holds gRPC server-specific configurations.
type GrpcServerConfig struct {
	Port string `envconfig:"GRPC_SERVER_PORT" default:"9090" validate:"required,numeric"`
}

// StorageConfig selects where carts, wishlists and profiles are kept.
type StorageConfig struct {
	Driver         string `envconfig:"STORAGE_DRIVER" default:"sqlite" validate:"oneof=memory sqlite postgres redis"`
	SQLitePath     string `envconfig:"SQLITE_PATH" default:"techhouse.db"`
	RedisURL       string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	RedisKeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"techhouse"`
}

// PostgresConfig holds PostgreSQL database connection details. The fields
// are only required when STORAGE_DRIVER=postgres.
type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST"`
	Port     string `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	DBName   string `envconfig:"POSTGRES_DBNAME"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable" validate:"oneof=disable require verify-ca verify-full"`
}

// CatalogConfig tunes the query engine defaults.
type CatalogConfig struct {
	DatasetPath  string `envconfig:"CATALOG_DATASET_PATH"`
	PageSize     int    `envconfig:"CATALOG_PAGE_SIZE" default:"20" validate:"gte=1,lte=200"`
	PriceCeiling int64  `envconfig:"CATALOG_PRICE_CEILING" default:"10000000" validate:"gt=0"`
	CompareLimit int    `envconfig:"COMPARE_LIMIT" default:"6" validate:"gte=1"`
}

// ShopConfig holds checkout settings.
type ShopConfig struct {
	DeliveryFee int64 `envconfig:"DELIVERY_FEE" default:"50000" validate:"gte=0"`
}

// DSN constructs the Data Source Name string for connecting to PostgreSQL.
func (pc *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, pc.SSLMode)
}

// Load reads the configuration from environment variables and validates it.
// It should be called once during application startup, after .env loading.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the driver-specific requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Storage.Driver == DriverPostgres &&
		(c.Postgres.Host == "" || c.Postgres.User == "" || c.Postgres.DBName == "") {
		return ErrPostgresNotConfigured
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// NewLogger builds the service logger: JSON output in production,
// console output elsewhere, at LOG_LEVEL.
func (c *Config) NewLogger() (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if c.IsProduction() {
		zc = zap.NewProductionConfig()
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level %q: %w", c.LogLevel, err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
