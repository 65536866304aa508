package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvLogLevel     = "STOREFRONT_LOG_LEVEL"
	EnvLogFormat    = "STOREFRONT_LOG_FORMAT"
	EnvDBDriver     = "STOREFRONT_DB_DRIVER"
	EnvDBDSN        = "STOREFRONT_DB_DSN"
	EnvRedisURL     = "STOREFRONT_REDIS_URL"
	EnvJWTSecret    = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer    = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins   = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvTaxRate      = "STOREFRONT_CHECKOUT_TAX_RATE"
	EnvProcessDelay = "STOREFRONT_CHECKOUT_PROCESSING_DELAY"
	EnvCloseGrace   = "STOREFRONT_CHECKOUT_CLOSE_GRACE"
	EnvAuthDelay    = "STOREFRONT_AUTH_DELAY"
	EnvFrameEvery   = "STOREFRONT_TRACKING_FRAME_INTERVAL"
	EnvSessionTTL   = "STOREFRONT_SESSION_IDLE_TTL"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Checkout      CheckoutConfig
	Auth          AuthConfig
	AuthRateLimit AuthRateLimitConfig
	Tracking      TrackingConfig
	Session       SessionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Checkout.Tax(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	// CORSOrigins is a comma separated allow list; empty means local dev origins.
	CORSOrigins []string `envconfig:"STOREFRONT_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig points the placed-order store at sqlite (in-memory by default) or postgres.
type DBConfig struct {
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
}

func (db *DBConfig) ensureDSN() error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	switch db.Driver {
	case DBDriverSQLite:
		if db.DSN == "" {
			db.DSN = "file::memory:?cache=shared"
		}
		return nil
	case DBDriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverPostgres)
		}
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, db.Driver)
	}
}

// RedisConfig is optional; auth rate limiting is skipped without a URL.
type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"3s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOREFRONT_JWT_ISSUER" default:"storefront"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"720"`
}

func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type CheckoutConfig struct {
	TaxRate         string        `envconfig:"STOREFRONT_CHECKOUT_TAX_RATE" default:"0.08"`
	ProcessingDelay time.Duration `envconfig:"STOREFRONT_CHECKOUT_PROCESSING_DELAY" default:"1500ms"`
	CloseGrace      time.Duration `envconfig:"STOREFRONT_CHECKOUT_CLOSE_GRACE" default:"300ms"`
}

// Tax parses the configured tax rate.
func (c CheckoutConfig) Tax() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s: %w", EnvTaxRate, err)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", EnvTaxRate)
	}
	return rate, nil
}

type AuthConfig struct {
	Delay time.Duration `envconfig:"STOREFRONT_AUTH_DELAY" default:"1500ms"`
}

type AuthRateLimitConfig struct {
	LoginWindow          time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit      int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit         int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	LoginSessionLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_SESSION_LIMIT" default:"10"`
	RegisterWindow       time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit   int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit      int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	RegisterSessionLimit int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_SESSION_LIMIT" default:"5"`
}

type TrackingConfig struct {
	FrameInterval time.Duration `envconfig:"STOREFRONT_TRACKING_FRAME_INTERVAL" default:"16ms"`
	SegmentBaseMS float64       `envconfig:"STOREFRONT_TRACKING_SEGMENT_BASE_MS" default:"1000"`
	MetersPerMS   float64       `envconfig:"STOREFRONT_TRACKING_METERS_PER_MS" default:"5000"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `envconfig:"STOREFRONT_SESSION_IDLE_TTL" default:"2h"`
	SweepInterval time.Duration `envconfig:"STOREFRONT_SESSION_SWEEP_INTERVAL" default:"5m"`
}
