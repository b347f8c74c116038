package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/validation"
)

// BankAccountRepository is the storage surface of the bank account registry.
type BankAccountRepository interface {
	Create(ctx context.Context, userID uuid.UUID, bankCode, bankName, accountNumber, holderName string, isPrimary bool) (*models.BankAccount, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.BankAccount, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.BankAccount, error)
	SetPrimary(ctx context.Context, userID, accountID uuid.UUID) (*models.BankAccount, error)
	SetVerified(ctx context.Context, accountID uuid.UUID) (*models.BankAccount, error)
}

// BankAccountService registers organizer payout accounts. New accounts start
// unverified; verification happens only through the admin side channel.
type BankAccountService struct {
	repo BankAccountRepository
}

func NewBankAccountService(repo BankAccountRepository) *BankAccountService {
	return &BankAccountService{repo: repo}
}

// Add registers a bank account. The per-user cap, the uniqueness of the
// account number and the single-primary invariant are enforced atomically
// in the repository.
func (s *BankAccountService) Add(ctx context.Context, userID uuid.UUID, bankCode, bankName, accountNumber, holderName string, isPrimary bool) (*models.BankAccount, error) {
	if err := validation.ValidateBankCode(bankCode); err != nil {
		return nil, err
	}
	if err := validation.ValidateAccountNumber(accountNumber); err != nil {
		return nil, err
	}
	if err := validation.ValidateHolderName(holderName); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, userID, bankCode, bankName, accountNumber, holderName, isPrimary)
}

// List returns the user's registered accounts, primary first.
func (s *BankAccountService) List(ctx context.Context, userID uuid.UUID) ([]models.BankAccount, error) {
	return s.repo.ListByUser(ctx, userID)
}

// SetPrimary promotes one of the user's accounts to primary.
func (s *BankAccountService) SetPrimary(ctx context.Context, userID, accountID uuid.UUID) (*models.BankAccount, error) {
	return s.repo.SetPrimary(ctx, userID, accountID)
}

// Verify marks an account as verified, opening withdrawal eligibility.
// Admin only; there is no reverse operation.
func (s *BankAccountService) Verify(ctx context.Context, accountID uuid.UUID) (*models.BankAccount, error) {
	return s.repo.SetVerified(ctx, accountID)
}
