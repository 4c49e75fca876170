package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/advisory-portal/internal/observability"
	"github.com/spec-kit/advisory-portal/internal/ratelimit"
	apperrors "github.com/spec-kit/advisory-portal/pkg/util"
)

// UnknownClientIP keys callers whose address cannot be determined. They share
// one window.
const UnknownClientIP = "unknown"

// ClientIP returns the caller address used as the rate limit key. With
// trustForwarded the first X-Forwarded-For entry wins and a missing header
// yields UnknownClientIP; otherwise the socket peer address is used.
func ClientIP(c *fiber.Ctx, trustForwarded bool) string {
	if trustForwarded {
		forwarded := c.Get(fiber.HeaderXForwardedFor)
		if first, _, _ := strings.Cut(forwarded, ","); strings.TrimSpace(first) != "" {
			return strings.TrimSpace(first)
		}
		return UnknownClientIP
	}
	if ip := c.Context().RemoteIP(); ip != nil && !ip.IsUnspecified() {
		return ip.String()
	}
	return UnknownClientIP
}

// RateLimiter builds per-endpoint admission middleware over a shared store.
type RateLimiter struct {
	store          ratelimit.Limiter
	trustForwarded bool
	logger         *zap.Logger
	metrics        *observability.Metrics
}

// NewRateLimiter returns a limiter backed by store.
func NewRateLimiter(store ratelimit.Limiter, trustForwarded bool, logger *zap.Logger, metrics *observability.Metrics) *RateLimiter {
	return &RateLimiter{store: store, trustForwarded: trustForwarded, logger: logger, metrics: metrics}
}

// Handle admits requests under policy. Every response carries
// X-RateLimit-Remaining; a rejection also carries Retry-After and no handler
// runs. A store failure admits the request.
func (rl *RateLimiter) Handle(policy ratelimit.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := ClientIP(c, rl.trustForwarded)
		decision, err := policy.Check(c.UserContext(), rl.store, ip)
		if err != nil {
			rl.logger.Warn("rate limit check failed; admitting request",
				zap.String("policy", policy.Name), zap.Error(err))
			return c.Next()
		}

		c.Set(HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			rl.metrics.RecordRateLimited(policy.Name)
			rl.logger.Info("rate limited",
				zap.String("policy", policy.Name),
				zap.String("ip", ip),
				zap.Int("retry_after", decision.RetryAfterSeconds()))
			return apperrors.NewRateLimited(decision.RetryAfterSeconds())
		}
		return c.Next()
	}
}
