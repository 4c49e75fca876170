package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/advisory-portal/internal/api/http/handlers"
	"github.com/spec-kit/advisory-portal/internal/auth"
	"github.com/spec-kit/advisory-portal/internal/domain"
	"github.com/spec-kit/advisory-portal/internal/observability"
	"github.com/spec-kit/advisory-portal/internal/portal"
	"github.com/spec-kit/advisory-portal/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Proxy          *handlers.ProxyHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *RateLimiter
	RegisterPolicy ratelimit.Policy
	LoginPolicy    ratelimit.Policy
	Portal         *portal.Shell
	Metrics        *observability.Metrics
	MetricsPath    string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		app.Get(cfg.MetricsPath, cfg.Metrics.Handler())
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.RateLimiter.Handle(cfg.RegisterPolicy), cfg.Auth.Register)
	authGroup.Post("/login", cfg.RateLimiter.Handle(cfg.LoginPolicy), cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleClient, domain.RoleAdmin), cfg.Auth.Me)

	app.Post("/proxy", cfg.AuthMiddleware.Handle, cfg.Proxy.Forward)

	if cfg.Portal != nil {
		cfg.Portal.Register(app)
	}
}
