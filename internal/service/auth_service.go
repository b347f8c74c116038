package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/eventra/eventra-backend/internal/logger"
	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
	"github.com/eventra/eventra-backend/internal/validation"
)

// AuthRepository is the storage surface the auth service depends on.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
}

// AuthService handles registration and authentication.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Email    string
	Password string
	Username string
	Role     string
}

// LoginInput carries the login payload.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is the outcome of registration or login.
type AuthResult struct {
	User      *models.User
	TokenPair *TokenPair
}

func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "email is already registered")
	} else if !errors.Is(err, apperror.ErrUserNotFound) {
		return nil, err
	}

	username := in.Username
	if username == "" {
		username = deriveUsername(in.Email)
	}

	role := in.Role
	if role == "" {
		role = models.RoleOrganizer
	}
	if role != models.RoleOrganizer && role != models.RoleAdmin {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown role %q", role))
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	user := &models.User{
		Email:        strings.ToLower(in.Email),
		Username:     username,
		PasswordHash: string(passHash),
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokenPair, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:      user,
		TokenPair: tokenPair,
	}, nil
}

// Login checks the credentials and returns a token pair.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		// Not fatal for login, but worth a warning.
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Warn("auth service: could not update last_login_at")
		}
	}

	tokenPair, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:      user,
		TokenPair: tokenPair,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "account is disabled")
	}

	return s.tokenManager.GeneratePair(user)
}

// deriveUsername builds a fallback username from the email local part.
func deriveUsername(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	return email[:at]
}
