package domain

import "time"

// SessionToken is the decoded form of an issued bearer credential.
type SessionToken struct {
	Subject   string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is no longer valid at now.
func (t SessionToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
