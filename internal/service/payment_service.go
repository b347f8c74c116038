package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/eventra/eventra-backend/internal/logger"
	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
)

// TransactionRepository is the storage surface of the payment ingestion.
type TransactionRepository interface {
	Create(ctx context.Context, code string, organizerID uuid.UUID, txType models.TransactionType, gross, feePercentage decimal.Decimal) (*models.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	GetByCode(ctx context.Context, code string) (*models.Transaction, error)
	MarkPaid(ctx context.Context, code string) (*models.Transaction, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID, limit, offset int) ([]models.Transaction, error)
}

// PaymentService is the ingestion surface for the external payment gateway.
// It records pending transactions and, on payment confirmation, hands the
// paid transaction to the commission calculator.
type PaymentService struct {
	repo        TransactionRepository
	settings    *SettingsService
	commissions *CommissionService
}

func NewPaymentService(repo TransactionRepository, settings *SettingsService, commissions *CommissionService) *PaymentService {
	return &PaymentService{repo: repo, settings: settings, commissions: commissions}
}

// Record creates a pending transaction. The platform fee percentage is
// snapshotted from current settings onto the record, so later rate changes
// never touch it.
func (s *PaymentService) Record(ctx context.Context, organizerID uuid.UUID, txType models.TransactionType, gross decimal.Decimal) (*models.Transaction, error) {
	if !models.ValidTransactionType(txType) {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown transaction type %q", txType))
	}
	if !gross.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "gross amount must be positive")
	}

	snapshot, err := s.settings.LedgerSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, generateTransactionCode(), organizerID, txType, gross, snapshot.PlatformFeePercentage)
}

// ConfirmPaid marks a transaction paid and computes its commissions. The
// status flip is conditional, so a duplicate gateway callback surfaces a
// state conflict instead of double-counting; the commission write itself is
// an idempotent upsert, so retrying a half-finished confirmation is safe.
func (s *PaymentService) ConfirmPaid(ctx context.Context, code string) (*models.Transaction, error) {
	t, err := s.repo.MarkPaid(ctx, code)
	if err != nil {
		if errors.Is(err, apperror.ErrStateConflict) && t != nil && t.Status == models.TransactionStatusPaid {
			// Already confirmed: recompute commissions in case the first
			// confirmation failed between the flip and the upsert.
			if _, cerr := s.commissions.ComputeForTransaction(ctx, t); cerr != nil {
				return nil, cerr
			}
		}
		return nil, err
	}

	if _, err := s.commissions.ComputeForTransaction(ctx, t); err != nil {
		return nil, err
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"transaction_code": t.TransactionCode,
			"gross_amount":     t.GrossAmount.String(),
		}).Info("transaction confirmed paid")
	}
	return t, nil
}

// GetByCode returns one transaction by its public code.
func (s *PaymentService) GetByCode(ctx context.Context, code string) (*models.Transaction, error) {
	return s.repo.GetByCode(ctx, code)
}

// ListForOrganizer returns the organizer's transaction history.
func (s *PaymentService) ListForOrganizer(ctx context.Context, organizerID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByOrganizer(ctx, organizerID, limit, offset)
}

// generateTransactionCode builds a code like TRX-20260831-9M4X2KQ7.
func generateTransactionCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	suffix := make([]byte, 8)
	random := make([]byte, 8)
	_, _ = rand.Read(random)
	for i, b := range random {
		suffix[i] = alphabet[int(b)%len(alphabet)]
	}
	return fmt.Sprintf("TRX-%s-%s", time.Now().Format("20060102"), suffix)
}
