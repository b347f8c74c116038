package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testTokenManager() *TokenManager {
	return NewTokenManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 720*time.Hour)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "jane@example.com").Return(nil, apperror.ErrUserNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "jane@example.com" &&
			u.Username == "jane" &&
			u.Role == models.RoleOrganizer &&
			u.PasswordHash != ""
	})).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Email:    "jane@example.com",
		Password: "Sup3rSecret",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "jane@example.com").Return(&models.User{ID: uuid.New()}, nil)

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "jane@example.com",
		Password: "Sup3rSecret",
	})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create")
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "jane@example.com",
		Password: "short",
	})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create")
}

func TestAuthService_Register_UnknownRole(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "jane@example.com").Return(nil, apperror.ErrUserNotFound)

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "jane@example.com",
		Password: "Sup3rSecret",
		Role:     "superuser",
	})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create")
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Sup3rSecret"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "jane@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleOrganizer,
		IsActive:     true,
	}

	repo.On("GetByEmail", ctx, "jane@example.com").Return(user, nil)
	repo.On("UpdateLastLoginAt", ctx, user.ID).Return(nil)

	result, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "Sup3rSecret"})
	assert.NoError(t, err)
	assert.Equal(t, user, result.User)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Sup3rSecret"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "jane@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	repo.On("GetByEmail", ctx, "jane@example.com").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "WrongPass1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, apperror.ErrUserNotFound)

	_, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "Sup3rSecret"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Email: "jane@example.com", IsActive: false}
	repo.On("GetByEmail", ctx, "jane@example.com").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "Sup3rSecret"})
	assert.Error(t, err)
}

func TestAuthService_Refresh_RoundTrip(t *testing.T) {
	repo := new(mockUserRepo)
	tokens := testTokenManager()
	svc := NewAuthService(repo, tokens)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Role: models.RoleOrganizer, IsActive: true}
	pair, err := tokens.GeneratePair(user)
	assert.NoError(t, err)

	repo.On("GetByID", ctx, user.ID).Return(user, nil)

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}
