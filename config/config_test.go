package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "DATABASE_URL", "DATABASE_NAME", "APP_ENV", "LOG_LEVEL",
		"BRIEFS_DEFAULT_LIMIT", "BRIEFS_MAX_LIMIT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"DB_CONNECT_TIMEOUT", "TRUSTED_PROXIES",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "", cfg.Database.URL)
	assert.False(t, cfg.DatabaseURLSet())
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 20, cfg.Briefs.DefaultLimit)
	assert.Equal(t, 100, cfg.Briefs.MaxLimit)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "redis://localhost:6379/2")
	t.Setenv("DB_CONNECT_TIMEOUT", "750ms")
	t.Setenv("BRIEFS_MAX_LIMIT", "50")
	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.DatabaseURLSet())
	assert.Equal(t, 750*time.Millisecond, cfg.Database.ConnectTimeout)
	assert.Equal(t, 50, cfg.Briefs.MaxLimit)
	assert.Equal(t, 0.0, cfg.RateLimit.RPS)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.Server.TrustedProxies)
}

func TestLoad_InvalidIntegerFallsBackToDefault(t *testing.T) {
	t.Setenv("BRIEFS_MAX_LIMIT", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Briefs.MaxLimit)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8000"},
			Briefs:    BriefsConfig{DefaultLimit: 20, MaxLimit: 100},
			RateLimit: RateLimitConfig{RPS: 5, Burst: 10},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"non numeric port", func(c *Config) { c.Server.Port = "http" }},
		{"zero default limit", func(c *Config) { c.Briefs.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.Briefs.MaxLimit = 10 }},
		{"rate without burst", func(c *Config) { c.RateLimit.Burst = 0 }},
		{"bad trusted proxy", func(c *Config) { c.Server.TrustedProxies = []string{"10.0.0.1", "gateway"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
