package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
	"github.com/eventra/eventra-backend/internal/repository/common"
)

type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a pending transaction with the fee percentage snapshotted
// from settings at creation time.
func (r *TransactionRepository) Create(ctx context.Context, code string, organizerID uuid.UUID, txType models.TransactionType, gross, feePercentage decimal.Decimal) (*models.Transaction, error) {
	platformFee := gross.Mul(feePercentage).Div(decimal.NewFromInt(100)).Round(2)
	net := gross.Sub(platformFee)

	var t models.Transaction
	err := r.db.GetContext(ctx, &t, `
		INSERT INTO transactions (transaction_code, organizer_id, type, gross_amount, platform_fee, net_amount, platform_fee_percentage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, code, organizerID, txType, gross, platformFee, net, feePercentage)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: create: %w", err)
	}
	return &t, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return common.GetByID[models.Transaction](ctx, r.db, "transactions", id, apperror.ErrTransactionNotFound)
}

func (r *TransactionRepository) GetByCode(ctx context.Context, code string) (*models.Transaction, error) {
	return common.GetByField[models.Transaction](ctx, r.db, "transactions", "transaction_code", code, apperror.ErrTransactionNotFound)
}

// MarkPaid flips a pending transaction to paid. The update is conditional so
// a duplicate gateway callback cannot confirm the same payment twice.
func (r *TransactionRepository) MarkPaid(ctx context.Context, code string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.GetContext(ctx, &t, `
		UPDATE transactions SET status = 'paid', paid_at = NOW(), updated_at = NOW()
		WHERE transaction_code = $1 AND status = 'pending'
		RETURNING *
	`, code)
	if err == nil {
		return &t, nil
	}

	// Distinguish "already confirmed" from "unknown code".
	existing, getErr := r.GetByCode(ctx, code)
	if getErr != nil {
		return nil, getErr
	}
	return existing, apperror.ErrStateConflict
}

func (r *TransactionRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT * FROM transactions WHERE organizer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, organizerID, limit, offset)
	return transactions, err
}
