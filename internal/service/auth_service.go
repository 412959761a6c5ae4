package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/starbite-api/internal/auth"
	"github.com/spec-kit/starbite-api/internal/domain"
	"github.com/spec-kit/starbite-api/internal/repository"
	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

// ErrInvalidCredentials is returned for any failed login.
var ErrInvalidCredentials = apperrors.NewDomainError("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized, nil)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Image    *string
}

// AuthService coordinates registration, login and token refresh.
type AuthService struct {
	users      repository.UserRepository
	issuer     *auth.Issuer
	bcryptCost int
	// dummyHash is compared against for unknown emails so both login
	// failures cost one bcrypt round.
	dummyHash string
	compare   func(hashed, plain string) error
	logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, issuer *auth.Issuer, bcryptCost int, logger *zap.Logger) *AuthService {
	dummyHash, err := auth.HashPassword("starbite-login-placeholder", bcryptCost)
	if err != nil {
		logger.Warn("dummy password hash unavailable", zap.Error(err))
	}
	return &AuthService{
		users:      users,
		issuer:     issuer,
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
		compare:    auth.ComparePassword,
		logger:     logger,
	}
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Image:        in.Image,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login verifies the password and issues an access/refresh pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, auth.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = s.compare(s.dummyHash, password)
			return nil, auth.TokenPair{}, ErrInvalidCredentials
		}
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	if err := s.compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, auth.TokenPair{}, ErrInvalidCredentials
		}
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}

	pair, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	return user, pair, nil
}

// Refresh issues a new access credential for a subject already vetted by the refresh guard.
func (s *AuthService) Refresh(subject string) (auth.Credential, error) {
	cred, err := s.issuer.IssueAccess(subject)
	if err != nil {
		return auth.Credential{}, apperrors.NewInternalError(err)
	}
	return cred, nil
}
