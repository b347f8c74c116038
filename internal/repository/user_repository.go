package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
	"github.com/eventra/eventra-backend/internal/repository/common"
)

// UserRepository works with the users table.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err, "") {
			return apperror.New(apperror.ErrCodeConflict, "email or username is already registered")
		}
		return fmt.Errorf("user repository: create: %w", err)
	}

	return nil
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user repository: get by email: %w", err)
	}
	return &user, nil
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return common.GetByID[models.User](ctx, r.db, "users", id, apperror.ErrUserNotFound)
}

// UpdateLastLoginAt stamps the last successful login.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("user repository: update last login: %w", err)
	}
	return nil
}
