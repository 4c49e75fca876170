package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/advisory-portal/internal/domain"
)

// DefaultTokenTTL is the fixed session lifetime.
const DefaultTokenTTL = 30 * time.Minute

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// TokenManager issues and verifies signed session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source, used by tests.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// Claims describes the JWT payload.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a token for the account that expires after the configured TTL.
// exp has whole-second precision and is rounded up, so a token never lives
// shorter than the TTL.
func (tm *TokenManager) Issue(accountID, email string, role domain.Role) (string, domain.SessionToken, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	if floor := expiresAt.Truncate(time.Second); floor.Before(expiresAt) {
		expiresAt = floor.Add(time.Second)
	}
	claims := &Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", domain.SessionToken{}, err
	}
	return tokenString, claims.session(), nil
}

// Verify checks signature and expiry and returns the decoded session.
func (tm *TokenManager) Verify(tokenStr string) (domain.SessionToken, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.SessionToken{}, ErrTokenExpired
		}
		return domain.SessionToken{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return domain.SessionToken{}, ErrInvalidToken
	}
	return claims.session(), nil
}

// Peek decodes a token without checking its signature. It lets clients read
// the expiry locally; the result must never be used for authorization.
func Peek(tokenStr string) (domain.SessionToken, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return domain.SessionToken{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return domain.SessionToken{}, ErrInvalidToken
	}
	return claims.session(), nil
}

func (c *Claims) session() domain.SessionToken {
	s := domain.SessionToken{
		Subject: c.Subject,
		Email:   c.Email,
		Role:    c.Role,
	}
	if c.IssuedAt != nil {
		s.IssuedAt = c.IssuedAt.Time.UTC()
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return s
}
