package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
	"github.com/eventra/eventra-backend/internal/repository/common"
)

// ErrWithdrawalCodeTaken signals a withdrawal_code collision; the caller
// regenerates the code and retries instead of failing.
var ErrWithdrawalCodeTaken = errors.New("withdrawal code already taken")

// transitionTimestamps maps a target status to the column stamped on entry.
var transitionTimestamps = map[models.WithdrawalStatus]string{
	models.WithdrawalStatusApproved:  "approved_at",
	models.WithdrawalStatusProcessed: "processed_at",
	models.WithdrawalStatusCompleted: "completed_at",
	models.WithdrawalStatusRejected:  "rejected_at",
	models.WithdrawalStatusCancelled: "cancelled_at",
}

// transitionActors maps a target status to the column recording the acting
// admin, so a rejecter is never written into approved_by.
var transitionActors = map[models.WithdrawalStatus]string{
	models.WithdrawalStatusApproved: "approved_by",
	models.WithdrawalStatusRejected: "rejected_by",
}

type WithdrawalRepository struct {
	db *sqlx.DB
}

func NewWithdrawalRepository(db *sqlx.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// NewWithdrawal carries everything needed to insert a withdrawal request.
type NewWithdrawal struct {
	Code          string
	UserID        uuid.UUID
	BankAccountID uuid.UUID
	Amount        decimal.Decimal
	AdminFee      decimal.Decimal
	Notes         *string
}

// CreateReserving executes the withdrawal submission as one serializable
// unit: it locks the organizer row, re-derives the available balance from
// commissions minus reserving withdrawals inside the same transaction,
// validates the bank account, and inserts the request. Two concurrent
// submissions against the same organizer therefore serialize on the row
// lock and the second one revalidates against the updated balance.
func (r *WithdrawalRepository) CreateReserving(ctx context.Context, in NewWithdrawal) (*models.Withdrawal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var organizerID uuid.UUID
	err = tx.GetContext(ctx, &organizerID, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, in.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("withdrawal repository: lock organizer: %w", err)
	}

	var earned decimal.Decimal
	err = tx.GetContext(ctx, &earned, `
		SELECT COALESCE(SUM(amount), 0) FROM commissions
		WHERE recipient_id = $1 AND type = 'event_commission' AND status != 'hold'
	`, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: sum earnings: %w", err)
	}

	var reserved decimal.Decimal
	err = tx.GetContext(ctx, &reserved, `
		SELECT COALESCE(SUM(amount), 0) FROM withdrawals
		WHERE user_id = $1 AND status IN ('pending', 'approved', 'processed', 'completed')
	`, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: sum reserved: %w", err)
	}

	available := earned.Sub(reserved)
	if in.Amount.GreaterThan(available) {
		return nil, apperror.InsufficientBalance(available)
	}

	var account models.BankAccount
	err = tx.GetContext(ctx, &account, `SELECT * FROM bank_accounts WHERE id = $1`, in.BankAccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrBankAccountNotFound
		}
		return nil, fmt.Errorf("withdrawal repository: get bank account: %w", err)
	}
	if account.UserID != in.UserID {
		return nil, apperror.ErrNotAccountOwner
	}
	if !account.IsVerified {
		return nil, apperror.ErrUnverifiedAccount
	}

	netAmount := in.Amount.Sub(in.AdminFee)

	var w models.Withdrawal
	err = tx.GetContext(ctx, &w, `
		INSERT INTO withdrawals (withdrawal_code, user_id, bank_account_id, amount, admin_fee, net_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, in.Code, in.UserID, in.BankAccountID, in.Amount, in.AdminFee, netAmount, in.Notes)
	if err != nil {
		if common.IsUniqueViolation(err, "withdrawals_withdrawal_code_key") {
			return nil, ErrWithdrawalCodeTaken
		}
		return nil, fmt.Errorf("withdrawal repository: create: %w", err)
	}

	return &w, tx.Commit()
}

func (r *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	return common.GetByID[models.Withdrawal](ctx, r.db, "withdrawals", id, apperror.ErrWithdrawalNotFound)
}

func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return withdrawals, err
}

func (r *WithdrawalRepository) ListByStatus(ctx context.Context, status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals WHERE status = $1 ORDER BY created_at LIMIT $2 OFFSET $3
	`, status, limit, offset)
	return withdrawals, err
}

func (r *WithdrawalRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	return withdrawals, err
}

// Transition moves a withdrawal from one status to another with a
// conditional update: the WHERE clause pins the expected source status, so
// of two simultaneous admin actions exactly one wins and the other observes
// a stale-state conflict. The timestamp column of the target state is
// stamped in the same statement.
func (r *WithdrawalRepository) Transition(ctx context.Context, id uuid.UUID, from, to models.WithdrawalStatus, adminID *uuid.UUID, adminNotes *string) (*models.Withdrawal, error) {
	tsColumn, ok := transitionTimestamps[to]
	if !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown target state %q", to))
	}

	// Transitions without an actor column carry a nil adminID, so the
	// COALESCE keeps the fallback column untouched.
	actorColumn, ok := transitionActors[to]
	if !ok {
		actorColumn = "approved_by"
	}

	query := fmt.Sprintf(`
		UPDATE withdrawals
		SET status = $3,
		    %s = NOW(),
		    %s = COALESCE($4, %s),
		    admin_notes = COALESCE($5, admin_notes),
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING *
	`, tsColumn, actorColumn, actorColumn)

	var w models.Withdrawal
	err := r.db.GetContext(ctx, &w, query, id, from, to, adminID, adminNotes)
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("withdrawal repository: transition to %s: %w", to, err)
	}

	// Lost the race or wrong id; tell the caller which.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, apperror.ErrStateConflict
}

// AttachTransferProof stores the proof path on a processed withdrawal.
func (r *WithdrawalRepository) AttachTransferProof(ctx context.Context, id uuid.UUID, proofPath string) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.GetContext(ctx, &w, `
		UPDATE withdrawals SET transfer_proof = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'processed'
		RETURNING *
	`, id, proofPath)
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("withdrawal repository: attach proof: %w", err)
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, apperror.ErrStateConflict
}

// SumReserved is the total still counting against the organizer's balance.
func (r *WithdrawalRepository) SumReserved(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0) FROM withdrawals
		WHERE user_id = $1 AND status IN ('pending', 'approved', 'processed', 'completed')
	`, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdrawal repository: sum reserved: %w", err)
	}
	return sum, nil
}

// SumCompleted is the total already delivered to the organizer's bank.
func (r *WithdrawalRepository) SumCompleted(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0) FROM withdrawals
		WHERE user_id = $1 AND status = 'completed'
	`, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdrawal repository: sum completed: %w", err)
	}
	return sum, nil
}

// CountPending counts in-flight requests for the summary endpoint.
func (r *WithdrawalRepository) CountPending(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM withdrawals WHERE user_id = $1 AND status = 'pending'
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("withdrawal repository: count pending: %w", err)
	}
	return count, nil
}
