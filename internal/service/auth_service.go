package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/advisory-portal/internal/auth"
	"github.com/spec-kit/advisory-portal/internal/config"
	"github.com/spec-kit/advisory-portal/internal/domain"
	"github.com/spec-kit/advisory-portal/internal/events"
	"github.com/spec-kit/advisory-portal/internal/repository"
	apperrors "github.com/spec-kit/advisory-portal/pkg/util"
)

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	Account *domain.Account
	Token   string
	Session domain.SessionToken
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	AccountRepo  repository.AccountRepository
	TokenManager *auth.TokenManager
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	tokens := deps.TokenManager
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   deps.AccountRepo,
		tokenMgr:   tokens,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

// Register creates a Client account and issues its first session token.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if err := validatePasswordLength(password); err != nil {
		return nil, err
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateEmail()
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleClient,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewDuplicateEmail()
		}
		return nil, apperrors.NewInternalError(err)
	}

	token, session, err := s.tokenMgr.Issue(account.ID, account.Email, account.Role)
	if err != nil {
		// The account must not outlive a failed registration.
		if delErr := s.accounts.Delete(ctx, account.ID); delErr != nil {
			s.logger.Error("rollback of account after token failure", zap.String("account_id", account.ID), zap.Error(delErr))
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventAccountRegistered, account)
	return &AuthResult{Account: account, Token: token, Session: session}, nil
}

// Login verifies credentials. Unknown emails and wrong passwords produce the
// same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	// No stored hash can match a password bcrypt would refuse.
	if len(password) > auth.MaxPasswordBytes {
		return nil, apperrors.NewInvalidCredentials()
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			s.logger.Debug("login for unknown email")
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.NewInternalError(err)
	}

	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Debug("login with wrong password", zap.String("account_id", account.ID))
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.NewInternalError(err)
	}

	role := account.Role
	if !role.Valid() {
		role = domain.RoleClient
	}
	token, session, err := s.tokenMgr.Issue(account.ID, account.Email, role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventAccountLoggedIn, account)
	return &AuthResult{Account: account, Token: token, Session: session}, nil
}

// CurrentAccount loads the account a verified session refers to.
func (s *AuthService) CurrentAccount(ctx context.Context, session domain.SessionToken) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, session.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, apperrors.NewNotFound("account")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return account, nil
}

// CreateAdmin stores an Admin account without issuing a token.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if err := validatePasswordLength(password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	account := &domain.Account{Email: email, PasswordHash: hash, Role: domain.RoleAdmin}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewDuplicateEmail()
		}
		return nil, apperrors.NewInternalError(err)
	}
	return account, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, account *domain.Account) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.NewAccountEvent(eventType, account, s.now())); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}

func validateCredentials(email, password string) error {
	missing := make([]string, 0, 2)
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("email and password required",
			map[string]any{"missing": strings.Join(missing, ",")})
	}
	return nil
}

func validatePasswordLength(password string) error {
	if len(password) > auth.MaxPasswordBytes {
		return apperrors.NewValidationError(
			fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes),
			map[string]any{"tooLong": "password"})
	}
	return nil
}
