package session

import (
	"time"

	"github.com/spec-kit/advisory-portal/internal/auth"
)

// State is the guard's view of the local session.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Decision tells a protected view whether to render or where to redirect.
type Decision struct {
	State    State
	Redirect string
	// Expired is set when a present token was rejected by the local expiry check.
	Expired bool
}

// Guard gates protected views on the presence of a stored token. The server
// remains the authority on validity; the optional expiry check only spares
// the user a page that would fail on its first API call.
type Guard struct {
	LoginPath   string
	CheckExpiry bool
	Now         func() time.Time
}

// NewGuard returns a guard redirecting to loginPath.
func NewGuard(loginPath string, checkExpiry bool) *Guard {
	return &Guard{LoginPath: loginPath, CheckExpiry: checkExpiry, Now: time.Now}
}

// Decide evaluates a raw token value. An empty token is unauthenticated.
func (g *Guard) Decide(token string) Decision {
	if token == "" {
		return g.deny(false)
	}
	if g.CheckExpiry {
		claims, err := auth.Peek(token)
		if err != nil {
			return g.deny(false)
		}
		if claims.Expired(g.now()) {
			return g.deny(true)
		}
	}
	return Decision{State: Authenticated}
}

// DecideStore evaluates the token held in s.
func (g *Guard) DecideStore(s Store) Decision {
	tok, _ := Token(s)
	return g.Decide(tok)
}

func (g *Guard) deny(expired bool) Decision {
	return Decision{State: Unauthenticated, Redirect: g.LoginPath, Expired: expired}
}

func (g *Guard) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}
