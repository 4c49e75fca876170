package domain

import (
	"strings"
	"time"
)

// Role is the authorization role carried by accounts and session tokens.
type Role string

const (
	RoleClient Role = "Client"
	RoleAdmin  Role = "Admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleAdmin
}

// Account is a registered client's identity record. It is created on
// registration and never mutated by the portal afterwards.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// NormalizeEmail is the match key used for uniqueness and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
