package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/advisory-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventAccountLoggedIn   EventType = "account_logged_in"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountPayload describes the account an event refers to.
type AccountPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// NewAccountEvent builds an event for account.
func NewAccountEvent(eventType EventType, account *domain.Account, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		AccountID: account.ID,
		Timestamp: at,
		Payload:   AccountPayload{Email: account.Email, Role: account.Role},
	}
}
