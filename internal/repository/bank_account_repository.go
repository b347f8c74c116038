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

type BankAccountRepository struct {
	db *sqlx.DB
}

func NewBankAccountRepository(db *sqlx.DB) *BankAccountRepository {
	return &BankAccountRepository{db: db}
}

// Create inserts a bank account under the per-user invariants: at most
// MaxBankAccountsPerUser accounts, account number unique within the user's
// set, and at most one primary. The count check, primary demotion and insert
// run in one transaction so no window with zero or two primaries exists.
func (r *BankAccountRepository) Create(ctx context.Context, userID uuid.UUID, bankCode, bankName, accountNumber, holderName string, isPrimary bool) (*models.BankAccount, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the owner row so concurrent Create/SetPrimary calls serialize.
	var ownerID uuid.UUID
	err = tx.GetContext(ctx, &ownerID, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("bank account repository: lock owner: %w", err)
	}

	var count int
	err = tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM bank_accounts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("bank account repository: count: %w", err)
	}
	if count >= models.MaxBankAccountsPerUser {
		return nil, apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("a maximum of %d bank accounts is allowed", models.MaxBankAccountsPerUser))
	}

	// First account is always primary.
	if count == 0 {
		isPrimary = true
	}

	if isPrimary {
		_, err = tx.ExecContext(ctx, `
			UPDATE bank_accounts SET is_primary = FALSE, updated_at = NOW()
			WHERE user_id = $1 AND is_primary
		`, userID)
		if err != nil {
			return nil, fmt.Errorf("bank account repository: demote primary: %w", err)
		}
	}

	var account models.BankAccount
	err = tx.GetContext(ctx, &account, `
		INSERT INTO bank_accounts (user_id, bank_code, bank_name, account_number, holder_name, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, userID, bankCode, bankName, accountNumber, holderName, isPrimary)
	if err != nil {
		if common.IsUniqueViolation(err, "uq_bank_accounts_user_number") {
			return nil, apperror.New(apperror.ErrCodeValidation, "account number is already registered")
		}
		return nil, fmt.Errorf("bank account repository: create: %w", err)
	}

	return &account, tx.Commit()
}

func (r *BankAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BankAccount, error) {
	return common.GetByID[models.BankAccount](ctx, r.db, "bank_accounts", id, apperror.ErrBankAccountNotFound)
}

func (r *BankAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	err := r.db.SelectContext(ctx, &accounts, `
		SELECT * FROM bank_accounts WHERE user_id = $1 ORDER BY is_primary DESC, created_at
	`, userID)
	return accounts, err
}

// SetPrimary promotes one account and demotes the rest atomically.
func (r *BankAccountRepository) SetPrimary(ctx context.Context, userID, accountID uuid.UUID) (*models.BankAccount, error) {
	var account models.BankAccount
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE bank_accounts SET is_primary = FALSE, updated_at = NOW()
			WHERE user_id = $1 AND is_primary
		`, userID)
		if err != nil {
			return fmt.Errorf("bank account repository: demote primary: %w", err)
		}

		err = tx.GetContext(ctx, &account, `
			UPDATE bank_accounts SET is_primary = TRUE, updated_at = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING *
		`, accountID, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrBankAccountNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// SetVerified is the admin side channel opening withdrawal eligibility.
// Verification is monotonic, there is no unverify path.
func (r *BankAccountRepository) SetVerified(ctx context.Context, accountID uuid.UUID) (*models.BankAccount, error) {
	var account models.BankAccount
	err := r.db.GetContext(ctx, &account, `
		UPDATE bank_accounts SET is_verified = TRUE, verified_at = COALESCE(verified_at, NOW()), updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrBankAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("bank account repository: verify: %w", err)
	}
	return &account, nil
}
