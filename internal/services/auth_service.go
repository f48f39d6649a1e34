package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/acorvin/shelf/internal/auth"
	"github.com/acorvin/shelf/internal/models"
	pkgauth "github.com/acorvin/shelf/pkg/auth"
	pkglogger "github.com/acorvin/shelf/pkg/logger"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService handles registration and login
type AuthService struct {
	users        UserRepository
	tokenManager *auth.TokenManager
	logger       *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserRepository, tokenManager *auth.TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:        users,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// Register creates a new user account. A duplicate email yields ErrConflict.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, models.ErrBadRequest
	}

	hashedPassword, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("registration conflict",
				slog.String("email", pkglogger.SanitizedEmail(email)))
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to look up user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed",
			slog.String("email", pkglogger.SanitizedEmail(email)))
		return nil, models.ErrUnauthorized
	}

	token, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	return &AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}
