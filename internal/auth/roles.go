package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/advisory-portal/internal/domain"
	apperrors "github.com/spec-kit/advisory-portal/pkg/util"
)

// RequireRole ensures the principal carries one of the allowed roles.
// With no roles given any authenticated principal passes.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewForbidden("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Session.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
