package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/eventra/eventra-backend/internal/logger"
	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
)

var oneHundred = decimal.NewFromInt(100)

// CommissionRepository is the storage surface of the commission calculator.
type CommissionRepository interface {
	UpsertPair(ctx context.Context, commissions []models.Commission) ([]models.Commission, error)
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]models.Commission, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]models.Commission, error)
	SumEventCommissions(ctx context.Context, recipientID uuid.UUID) (decimal.Decimal, error)
}

// CommissionService derives commission records from paid transactions.
type CommissionService struct {
	repo CommissionRepository
}

func NewCommissionService(repo CommissionRepository) *CommissionService {
	return &CommissionService{repo: repo}
}

// ComputeForTransaction splits a paid transaction into a platform_fee and an
// event_commission record. The fee percentage comes from the transaction's
// own snapshot, not the live setting, so recomputing an old transaction
// always reproduces the historical split. The write is an upsert keyed on
// (transaction_id, type): re-invocation updates the existing rows instead of
// duplicating them, and either both rows persist or neither does.
func (s *CommissionService) ComputeForTransaction(ctx context.Context, t *models.Transaction) ([]models.Commission, error) {
	if t.Status != models.TransactionStatusPaid {
		return nil, apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("transaction %s is not paid", t.TransactionCode))
	}
	if !t.GrossAmount.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "gross amount must be positive")
	}
	if t.PlatformFeePercentage.IsNegative() || t.PlatformFeePercentage.GreaterThan(oneHundred) {
		return nil, apperror.New(apperror.ErrCodeValidation, "platform fee percentage must be between 0 and 100")
	}

	platformFee := t.GrossAmount.Mul(t.PlatformFeePercentage).Div(oneHundred).Round(2)
	organizerShare := t.GrossAmount.Sub(platformFee)

	// base_amount is the remainder to gross, so amount + base_amount
	// reconciles with the transaction on every row.
	pair := []models.Commission{
		{
			TransactionID: t.ID,
			RecipientID:   t.OrganizerID,
			Type:          models.CommissionTypePlatformFee,
			Amount:        platformFee,
			BaseAmount:    organizerShare,
			Status:        models.CommissionStatusPending,
		},
		{
			TransactionID: t.ID,
			RecipientID:   t.OrganizerID,
			Type:          models.CommissionTypeEventCommission,
			Amount:        organizerShare,
			BaseAmount:    platformFee,
			Status:        models.CommissionStatusPending,
		},
	}

	saved, err := s.repo.UpsertPair(ctx, pair)
	if err != nil {
		return nil, err
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"transaction_code": t.TransactionCode,
			"organizer_id":     t.OrganizerID,
			"platform_fee":     platformFee.String(),
			"event_commission": organizerShare.String(),
		}).Info("commissions computed")
	}

	return saved, nil
}

// ListForTransaction returns the commission rows of one transaction.
func (s *CommissionService) ListForTransaction(ctx context.Context, transactionID uuid.UUID) ([]models.Commission, error) {
	return s.repo.ListByTransaction(ctx, transactionID)
}

// ListForRecipient returns an organizer's commission history.
func (s *CommissionService) ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]models.Commission, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByRecipient(ctx, recipientID, limit, offset)
}
