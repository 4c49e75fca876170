package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/advisory-portal/internal/api/dto"
	"github.com/spec-kit/advisory-portal/internal/auth"
	"github.com/spec-kit/advisory-portal/internal/service"
	apperrors "github.com/spec-kit/advisory-portal/pkg/util"
)

// ProxyHandler relays authenticated calls to the secondary backend.
type ProxyHandler struct {
	proxy *service.ProxyService
}

// NewProxyHandler constructs handler.
func NewProxyHandler(proxy *service.ProxyService) *ProxyHandler {
	return &ProxyHandler{proxy: proxy}
}

// Forward handles POST /proxy. The caller's token is passed upstream as is
// and a 2xx upstream reply is written back with its status and body.
func (h *ProxyHandler) Forward(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}

	var req dto.ProxyRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidPayload
	}

	resp, err := h.proxy.Forward(c.UserContext(), principal.Token, req.Path, req.Method, req.Payload)
	if err != nil {
		return err
	}
	c.Status(resp.Status)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(resp.Body)
}
