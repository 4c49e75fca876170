package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL())
	assert.Equal(t, RateLimitBackendMemory, cfg.RateLimit.Backend)
	assert.Equal(t, 5, cfg.RateLimit.RegisterLimit)
	assert.Equal(t, 10, cfg.RateLimit.LoginLimit)
	assert.Equal(t, time.Hour, cfg.RateLimit.Window())
	assert.Equal(t, time.Hour, cfg.RateLimit.SweepInterval())
	assert.True(t, cfg.RateLimit.TrustForwardedFor)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, "/client/login", cfg.Portal.LoginPath)
	assert.Equal(t, "token", cfg.Portal.TokenCookie)
	assert.True(t, cfg.Portal.CheckTokenExpiry)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("RATE_LIMIT_LOGIN_PER_WINDOW", "3")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("PROXY_UPSTREAM_URL", "https://api.example.com/")
	t.Setenv("PORTAL_CHECK_TOKEN_EXPIRY", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 3, cfg.RateLimit.LoginLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, "https://api.example.com", cfg.Proxy.UpstreamURL)
	assert.False(t, cfg.Portal.CheckTokenExpiry)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:       AppConfig{Env: "development"},
			Auth:      AuthConfig{JWTSecret: "dev-secret"},
			RateLimit: RateLimitConfig{Backend: RateLimitBackendMemory, RegisterLimit: 5, LoginLimit: 10, WindowSeconds: 3600},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"default secret in production", func(c *Config) { c.App.Env = "production" }, true},
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"zero limit", func(c *Config) { c.RateLimit.LoginLimit = 0 }, true},
		{"zero window", func(c *Config) { c.RateLimit.WindowSeconds = 0 }, true},
		{"unknown backend", func(c *Config) { c.RateLimit.Backend = "memcached" }, true},
		{"redis without addr", func(c *Config) { c.RateLimit.Backend = RateLimitBackendRedis }, true},
		{"redis with addr", func(c *Config) {
			c.RateLimit.Backend = RateLimitBackendRedis
			c.Redis.Addr = "127.0.0.1:6379"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
