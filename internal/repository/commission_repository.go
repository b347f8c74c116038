package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/eventra/eventra-backend/internal/models"
)

type CommissionRepository struct {
	db *sqlx.DB
}

func NewCommissionRepository(db *sqlx.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// UpsertPair writes both commission rows of a paid transaction in one
// database transaction. The upsert keys on (transaction_id, type), so
// recomputing a transaction is idempotent and never leaves a partial pair.
func (r *CommissionRepository) UpsertPair(ctx context.Context, commissions []models.Commission) ([]models.Commission, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	saved := make([]models.Commission, 0, len(commissions))
	for _, c := range commissions {
		var row models.Commission
		err = tx.GetContext(ctx, &row, `
			INSERT INTO commissions (transaction_id, recipient_id, type, amount, base_amount, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT ON CONSTRAINT uq_commissions_transaction_type
			DO UPDATE SET recipient_id = $2, amount = $4, base_amount = $5, updated_at = NOW()
			RETURNING *
		`, c.TransactionID, c.RecipientID, c.Type, c.Amount, c.BaseAmount, c.Status)
		if err != nil {
			return nil, fmt.Errorf("commission repository: upsert %s: %w", c.Type, err)
		}
		saved = append(saved, row)
	}

	return saved, tx.Commit()
}

func (r *CommissionRepository) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]models.Commission, error) {
	var commissions []models.Commission
	err := r.db.SelectContext(ctx, &commissions, `
		SELECT * FROM commissions WHERE transaction_id = $1 ORDER BY type
	`, transactionID)
	return commissions, err
}

func (r *CommissionRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]models.Commission, error) {
	var commissions []models.Commission
	err := r.db.SelectContext(ctx, &commissions, `
		SELECT * FROM commissions WHERE recipient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, recipientID, limit, offset)
	return commissions, err
}

// SumEventCommissions returns the organizer's total earnings: the sum of
// event_commission rows that are not on hold.
func (r *CommissionRepository) SumEventCommissions(ctx context.Context, recipientID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0) FROM commissions
		WHERE recipient_id = $1 AND type = 'event_commission' AND status != 'hold'
	`, recipientID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("commission repository: sum earnings: %w", err)
	}
	return sum, nil
}
