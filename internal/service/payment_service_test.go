package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
)

type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) Create(ctx context.Context, code string, organizerID uuid.UUID, txType models.TransactionType, gross, feePercentage decimal.Decimal) (*models.Transaction, error) {
	args := m.Called(ctx, code, organizerID, txType, gross, feePercentage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) GetByCode(ctx context.Context, code string) (*models.Transaction, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) MarkPaid(ctx context.Context, code string) (*models.Transaction, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) ListByOrganizer(ctx context.Context, organizerID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, organizerID, limit, offset)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func TestPaymentService_Record_SnapshotsFeePercentage(t *testing.T) {
	repo := new(mockTransactionRepo)
	commissions := NewCommissionService(new(mockCommissionRepo))
	svc := NewPaymentService(repo, testSettingsService("5", "50000", "2500"), commissions)
	ctx := context.Background()
	organizerID := uuid.New()

	gross := decimal.RequireFromString("100000")
	expected := &models.Transaction{ID: uuid.New(), Status: models.TransactionStatusPending}

	repo.On("Create", ctx, mock.MatchedBy(func(code string) bool {
		return strings.HasPrefix(code, "TRX-")
	}), organizerID, models.TransactionTypeTicketSale, gross, decimal.RequireFromString("5")).
		Return(expected, nil)

	tx, err := svc.Record(ctx, organizerID, models.TransactionTypeTicketSale, gross)
	assert.NoError(t, err)
	assert.Equal(t, expected, tx)
	repo.AssertExpectations(t)
}

func TestPaymentService_Record_UnknownType(t *testing.T) {
	repo := new(mockTransactionRepo)
	commissions := NewCommissionService(new(mockCommissionRepo))
	svc := NewPaymentService(repo, testSettingsService("5", "50000", "2500"), commissions)
	ctx := context.Background()

	_, err := svc.Record(ctx, uuid.New(), "lottery", decimal.RequireFromString("100"))
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Create")
}

func TestPaymentService_Record_NonPositiveGross(t *testing.T) {
	repo := new(mockTransactionRepo)
	commissions := NewCommissionService(new(mockCommissionRepo))
	svc := NewPaymentService(repo, testSettingsService("5", "50000", "2500"), commissions)
	ctx := context.Background()

	_, err := svc.Record(ctx, uuid.New(), models.TransactionTypeTicketSale, decimal.Zero)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create")
}

func TestPaymentService_ConfirmPaid_ComputesCommissions(t *testing.T) {
	repo := new(mockTransactionRepo)
	commissionRepo := new(mockCommissionRepo)
	svc := NewPaymentService(repo, testSettingsService("5", "50000", "2500"), NewCommissionService(commissionRepo))
	ctx := context.Background()

	paid := paidTransaction("100000", "5")
	repo.On("MarkPaid", ctx, paid.TransactionCode).Return(paid, nil)
	commissionRepo.On("UpsertPair", ctx, mock.Anything).Return([]models.Commission{{}, {}}, nil)

	tx, err := svc.ConfirmPaid(ctx, paid.TransactionCode)
	assert.NoError(t, err)
	assert.Equal(t, paid, tx)
	repo.AssertExpectations(t)
	commissionRepo.AssertExpectations(t)
}

func TestPaymentService_ConfirmPaid_DuplicateCallback(t *testing.T) {
	repo := new(mockTransactionRepo)
	commissionRepo := new(mockCommissionRepo)
	svc := NewPaymentService(repo, testSettingsService("5", "50000", "2500"), NewCommissionService(commissionRepo))
	ctx := context.Background()

	// The conditional flip already happened; the repo reports a state
	// conflict alongside the current (paid) row. The service recomputes the
	// commissions, which upserts idempotently, and still surfaces the
	// conflict to the caller.
	already := paidTransaction("100000", "5")
	repo.On("MarkPaid", ctx, already.TransactionCode).Return(already, apperror.ErrStateConflict)
	commissionRepo.On("UpsertPair", ctx, mock.Anything).Return([]models.Commission{{}, {}}, nil)

	_, err := svc.ConfirmPaid(ctx, already.TransactionCode)
	assert.Error(t, err)
	assert.True(t, apperror.IsStateConflict(err))
	commissionRepo.AssertExpectations(t)
}

func TestPaymentService_ListForOrganizer_DefaultLimit(t *testing.T) {
	repo := new(mockTransactionRepo)
	commissions := NewCommissionService(new(mockCommissionRepo))
	svc := NewPaymentService(repo, testSettingsService("5", "50000", "2500"), commissions)
	ctx := context.Background()
	organizerID := uuid.New()

	repo.On("ListByOrganizer", ctx, organizerID, 20, 0).Return([]models.Transaction{}, nil)

	_, err := svc.ListForOrganizer(ctx, organizerID, 0, 0)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
