package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/advisory-portal/internal/api/dto"
	"github.com/spec-kit/advisory-portal/internal/auth"
	"github.com/spec-kit/advisory-portal/internal/observability"
	"github.com/spec-kit/advisory-portal/internal/service"
	"github.com/spec-kit/advisory-portal/internal/session"
	apperrors "github.com/spec-kit/advisory-portal/pkg/util"
)

// AuthHandler exposes registration, login and the current account.
type AuthHandler struct {
	auth    *service.AuthService
	metrics *observability.Metrics
	cookie  string
}

// NewAuthHandler constructs handler. Successful register and login responses
// also store the token in the cookie the portal guard reads.
func NewAuthHandler(authService *service.AuthService, metrics *observability.Metrics, cookieName string) *AuthHandler {
	if cookieName == "" {
		cookieName = session.TokenKey
	}
	return &AuthHandler{auth: authService, metrics: metrics, cookie: cookieName}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		h.record("register", errInvalidPayload)
		return errInvalidPayload
	}

	result, err := h.auth.Register(c.UserContext(), req.Email, req.Password)
	h.record("register", err)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, result)
	return c.JSON(authResponse("Registration successful", result))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.record("login", errInvalidPayload)
		return errInvalidPayload
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	h.record("login", err)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, result)
	return c.JSON(authResponse("Login successful", result))
}

// Me handles GET /auth/me for a verified bearer token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}
	account, err := h.auth.CurrentAccount(c.UserContext(), principal.Session)
	if err != nil {
		return err
	}
	return c.JSON(dto.AccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		Role:      account.Role,
		CreatedAt: account.CreatedAt,
		ExpiresAt: principal.Session.ExpiresAt,
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, result *service.AuthResult) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) record(endpoint string, err error) {
	outcome := "success"
	if err != nil {
		outcome = strings.ToLower(apperrors.ToDomainError(err).Code)
	}
	h.metrics.RecordAuthAttempt(endpoint, outcome)
}

func authResponse(message string, result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Message:   message,
		Token:     result.Token,
		ExpiresAt: result.Session.ExpiresAt,
		Contact:   dto.NewContactDTO(result.Account),
	}
}
