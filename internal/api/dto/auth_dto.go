package dto

import (
	"time"

	"github.com/spec-kit/advisory-portal/internal/domain"
)

// RegisterRequest payload for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ContactDTO is the public view of an account.
type ContactDTO struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message   string     `json:"message"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	Contact   ContactDTO `json:"contact"`
}

// AccountResponse is returned by GET /auth/me.
type AccountResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"sessionExpiresAt"`
}

// NewContactDTO maps an account to its public view.
func NewContactDTO(a *domain.Account) ContactDTO {
	return ContactDTO{ID: a.ID, Email: a.Email, Role: a.Role}
}
