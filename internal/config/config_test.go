package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "./data/apex.db", cfg.DBPath)
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.Equal(t, GatewaySimulated, cfg.PaymentGateway)
	require.Equal(t, "ZAR", cfg.DefaultCurrency)
	require.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	require.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFromDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=from-file\nPORT=9090\nLOG_LEVEL=debug\nCORS_ORIGINS=http://a.test, http://b.test\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv does not override variables that are already set, so make
	// sure these are restored and unset for the duration of the test.
	for _, k := range []string{"JWT_SECRET", "PORT", "LOG_LEVEL", "CORS_ORIGINS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.JWTSecret)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, slog.LevelDebug, cfg.Level())
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:               8080,
		JWTSecret:          "s",
		JWTTTL:             time.Hour,
		BcryptCost:         10,
		PaymentGateway:     GatewaySimulated,
		LoginRatePerMinute: 10,
	}
	require.NoError(t, valid.Validate())

	tests := map[string]func(c *Config){
		"missing secret":       func(c *Config) { c.JWTSecret = "" },
		"bad port":             func(c *Config) { c.Port = 70000 },
		"bad cost":             func(c *Config) { c.BcryptCost = 2 },
		"unknown gateway":      func(c *Config) { c.PaymentGateway = "paypal" },
		"stripe without key":   func(c *Config) { c.PaymentGateway = GatewayStripe },
		"non-positive ttl":     func(c *Config) { c.JWTTTL = 0 },
		"non-positive ratelim": func(c *Config) { c.LoginRatePerMinute = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}
