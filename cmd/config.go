package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// EnvPrefix namespaces every variable, e.g. SETTLEMENT_HTTP_PORT.
const EnvPrefix = "SETTLEMENT"

// Config is the process configuration. Every field is read from
// SETTLEMENT_<NAME>.
type Config struct {
	HTTPPort       string        `envconfig:"HTTP_PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	DBHost            string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort            string        `envconfig:"DB_PORT" default:"5432"`
	DBUser            string        `envconfig:"DB_USER" default:"postgres"`
	DBPassword        string        `envconfig:"DB_PASSWORD"`
	DBName            string        `envconfig:"DB_NAME" default:"settlement"`
	DBSslMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	DBAutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	RedisAddr             string        `envconfig:"REDIS_ADDR"`
	RedisPassword         string        `envconfig:"REDIS_PASSWORD"`
	RedisDB               int           `envconfig:"REDIS_DB" default:"0"`
	IdempotencyTTL        time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	IdempotencyPendingTTL time.Duration `envconfig:"IDEMPOTENCY_PENDING_TTL" default:"2m"`
	LogLevel              string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat             string        `envconfig:"LOG_FORMAT" default:"json"`
	CurrencyScale         int32         `envconfig:"CURRENCY_SCALE" default:"0"`
	TaxRate               string        `envconfig:"TAX_RATE" default:"0.10"`
	ShutdownGracePeriod   time.Duration `envconfig:"SHUTDOWN_GRACE_PERIOD" default:"10s"`
}

// LoadConfig reads an optional .env file into the environment and then
// processes the SETTLEMENT_ variables. Variables already set win over the
// file.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate joins every configuration error.
func (c Config) Validate() error {
	var portErr, scaleErr, formatErr, levelErr, pendingErr error
	if strings.TrimSpace(c.HTTPPort) == "" {
		portErr = errors.New("HTTP_PORT is required")
	}
	if c.CurrencyScale < 0 || c.CurrencyScale > kernel.MaxAmountScale {
		scaleErr = fmt.Errorf("CURRENCY_SCALE %d is outside [0, %d]", c.CurrencyScale, kernel.MaxAmountScale)
	}
	if f := strings.ToLower(c.LogFormat); f != "json" && f != "text" {
		formatErr = fmt.Errorf("LOG_FORMAT %q is not json or text", c.LogFormat)
	}
	if _, err := c.SlogLevel(); err != nil {
		levelErr = err
	}
	if c.RequestTimeout > 0 && c.IdempotencyPendingTTL <= c.RequestTimeout {
		pendingErr = fmt.Errorf("IDEMPOTENCY_PENDING_TTL %s must exceed REQUEST_TIMEOUT %s",
			c.IdempotencyPendingTTL, c.RequestTimeout)
	}
	_, taxErr := c.Policy()
	return errors.Join(portErr, scaleErr, formatErr, levelErr, pendingErr, taxErr)
}

// Policy is the tax and rounding policy snapshotted onto new bundles.
func (c Config) Policy() (bundle.Policy, error) {
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return bundle.Policy{}, fmt.Errorf("TAX_RATE: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return bundle.Policy{}, fmt.Errorf("TAX_RATE %s is outside [0, 1)", rate)
	}
	policy := bundle.Policy{TaxRate: rate, CurrencyScale: c.CurrencyScale}
	if err := policy.Validate(); err != nil {
		return bundle.Policy{}, fmt.Errorf("TAX_RATE: %w", err)
	}
	return policy, nil
}

// SlogLevel parses LOG_LEVEL (debug, info, warn, error).
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

// DSN is the libpq keyword/value connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
