// Package config loads process configuration from the environment.
//
// Values come from real environment variables, optionally seeded from a
// .env file. The Config is built once in main and passed to the components
// that need it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Gateway names accepted by PAYMENT_GATEWAY.
const (
	GatewaySimulated = "simulated"
	GatewayStripe    = "stripe"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port   int    `env:"PORT,default=8080"`
	DBPath string `env:"DB_PATH,default=./data/apex.db"`

	JWTSecret  string        `env:"JWT_SECRET,required"`
	JWTTTL     time.Duration `env:"JWT_TTL,default=24h"`
	BcryptCost int           `env:"BCRYPT_COST,default=10"`

	// AdminEmail, when set, is promoted to admin at startup if registered.
	AdminEmail string `env:"ADMIN_EMAIL"`

	LogLevel    string `env:"LOG_LEVEL,default=info"`
	CORSOrigins string `env:"CORS_ORIGINS,default=*"`

	PaymentGateway  string `env:"PAYMENT_GATEWAY,default=simulated"`
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	DefaultCurrency string `env:"DEFAULT_CURRENCY,default=ZAR"`

	// LoginRatePerMinute bounds Register/Login calls per client address.
	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MIN,default=30"`
}

// Load reads the given .env files (default ".env"; missing files are
// ignored), then decodes the environment into a Config and validates it.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.LoginRatePerMinute <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MIN must be positive, got %d", c.LoginRatePerMinute)
	}

	switch c.PaymentGateway {
	case GatewaySimulated:
	case GatewayStripe:
		if c.StripeSecretKey == "" {
			return errors.New("STRIPE_SECRET_KEY is required when PAYMENT_GATEWAY=stripe")
		}
	default:
		return fmt.Errorf("unknown PAYMENT_GATEWAY %q", c.PaymentGateway)
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Level maps LOG_LEVEL to a slog level (default: INFO).
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
