package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/eventra/eventra-backend/internal/logger"
	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
	"github.com/eventra/eventra-backend/internal/repository"
)

// codeRetryAttempts bounds withdrawal_code regeneration. Collisions are
// structural (date plus random suffix), not adversarial, so a handful of
// retries is enough.
const codeRetryAttempts = 5

// WithdrawalRepository is the storage surface of the withdrawal service.
type WithdrawalRepository interface {
	CreateReserving(ctx context.Context, in repository.NewWithdrawal) (*models.Withdrawal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Withdrawal, error)
	ListByStatus(ctx context.Context, status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Withdrawal, error)
	Transition(ctx context.Context, id uuid.UUID, from, to models.WithdrawalStatus, adminID *uuid.UUID, adminNotes *string) (*models.Withdrawal, error)
	AttachTransferProof(ctx context.Context, id uuid.UUID, proofPath string) (*models.Withdrawal, error)
}

// ProofStorage persists transfer-proof files.
type ProofStorage interface {
	Save(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (string, int64, error)
}

// WithdrawalService validates withdrawal requests and owns the state
// machine that moves them to a terminal state.
type WithdrawalService struct {
	repo     WithdrawalRepository
	settings *SettingsService
	proofs   ProofStorage
	cache    *CacheService
}

func NewWithdrawalService(repo WithdrawalRepository, settings *SettingsService, proofs ProofStorage, cache *CacheService) *WithdrawalService {
	return &WithdrawalService{repo: repo, settings: settings, proofs: proofs, cache: cache}
}

// Create submits a withdrawal request. Validation order: minimum amount,
// then available balance, then bank account existence and ownership, then
// verification; the first failure wins. The balance and account checks run
// inside the repository's serialized transaction (see CreateReserving), so
// two concurrent submissions cannot both pass against a stale balance.
// The admin fee is snapshotted from current settings onto the record.
func (s *WithdrawalService) Create(ctx context.Context, userID, bankAccountID uuid.UUID, amount decimal.Decimal, notes *string) (*models.Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "amount must be positive")
	}
	if amount.Exponent() < -2 {
		return nil, apperror.New(apperror.ErrCodeValidation, "amount must have at most two decimal places")
	}

	snapshot, err := s.settings.LedgerSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if amount.LessThan(snapshot.MinimumWithdrawal) {
		return nil, apperror.BelowMinimum(snapshot.MinimumWithdrawal)
	}
	if amount.LessThanOrEqual(snapshot.AdminFee) {
		return nil, apperror.New(apperror.ErrCodeValidation, "amount must exceed the admin fee")
	}

	for attempt := 0; attempt < codeRetryAttempts; attempt++ {
		w, err := s.repo.CreateReserving(ctx, repository.NewWithdrawal{
			Code:          generateWithdrawalCode(),
			UserID:        userID,
			BankAccountID: bankAccountID,
			Amount:        amount,
			AdminFee:      snapshot.AdminFee,
			Notes:         notes,
		})
		if errors.Is(err, repository.ErrWithdrawalCodeTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.cache.InvalidateUserCache(userID)
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"withdrawal_code": w.WithdrawalCode,
				"user_id":         userID,
				"amount":          amount.String(),
			}).Info("withdrawal requested")
		}
		return w, nil
	}

	return nil, apperror.New(apperror.ErrCodeInternal, "could not allocate a unique withdrawal code")
}

// Get returns one withdrawal, restricted to its owner unless asAdmin.
func (s *WithdrawalService) Get(ctx context.Context, id, requesterID uuid.UUID, asAdmin bool) (*models.Withdrawal, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !asAdmin && w.UserID != requesterID {
		return nil, apperror.ErrWithdrawalNotFound
	}
	return w, nil
}

// ListForUser returns the organizer's own withdrawal history.
func (s *WithdrawalService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Withdrawal, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// ListForAdmin returns withdrawals across users, optionally by status.
func (s *WithdrawalService) ListForAdmin(ctx context.Context, status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if status == "" {
		return s.repo.ListAll(ctx, limit, offset)
	}
	if !models.ValidWithdrawalStatus(status) {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown status %q", status))
	}
	return s.repo.ListByStatus(ctx, status, limit, offset)
}

// Approve moves pending -> approved and stamps the acting admin.
func (s *WithdrawalService) Approve(ctx context.Context, id, adminID uuid.UUID) (*models.Withdrawal, error) {
	return s.transition(ctx, id, models.WithdrawalStatusPending, models.WithdrawalStatusApproved, &adminID, nil)
}

// Process moves approved -> processed once the bank transfer is initiated.
func (s *WithdrawalService) Process(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	return s.transition(ctx, id, models.WithdrawalStatusApproved, models.WithdrawalStatusProcessed, nil, nil)
}

// Complete moves processed -> completed; the amount is now permanently
// deducted from the organizer's balance.
func (s *WithdrawalService) Complete(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	return s.transition(ctx, id, models.WithdrawalStatusProcessed, models.WithdrawalStatusCompleted, nil, nil)
}

// Reject moves pending -> rejected and releases the reservation. A reason is
// mandatory and persisted for audit.
func (s *WithdrawalService) Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (*models.Withdrawal, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "a rejection reason is required")
	}
	return s.transition(ctx, id, models.WithdrawalStatusPending, models.WithdrawalStatusRejected, &adminID, &reason)
}

// Cancel lets the organizer withdraw their own pending request, releasing
// the reservation. Later states cannot be cancelled.
func (s *WithdrawalService) Cancel(ctx context.Context, id, requesterID uuid.UUID) (*models.Withdrawal, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.UserID != requesterID {
		return nil, apperror.New(apperror.ErrCodeOwnership, "withdrawal does not belong to the requester")
	}
	return s.transition(ctx, id, models.WithdrawalStatusPending, models.WithdrawalStatusCancelled, nil, nil)
}

func (s *WithdrawalService) transition(ctx context.Context, id uuid.UUID, from, to models.WithdrawalStatus, adminID *uuid.UUID, adminNotes *string) (*models.Withdrawal, error) {
	if !from.CanTransitionTo(to) {
		return nil, apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("transition %s -> %s is not permitted", from, to))
	}

	w, err := s.repo.Transition(ctx, id, from, to, adminID, adminNotes)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateUserCache(w.UserID)
	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"withdrawal_code": w.WithdrawalCode,
			"from":            from,
			"to":              to,
		}).Info("withdrawal transitioned")
	}
	return w, nil
}

// AttachTransferProof sniffs the uploaded file, stores it and links it to a
// processed withdrawal. Only images are accepted.
func (s *WithdrawalService) AttachTransferProof(ctx context.Context, id uuid.UUID, originalName string, r io.Reader) (*models.Withdrawal, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Status != models.WithdrawalStatusProcessed {
		return nil, apperror.ErrStateConflict
	}

	head := make([]byte, 261)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "could not read uploaded file")
	}
	head = head[:n]

	if !filetype.IsImage(head) {
		return nil, apperror.New(apperror.ErrCodeValidation, "transfer proof must be an image")
	}

	path, _, err := s.proofs.Save(ctx, w.UserID, originalName, io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		return nil, err
	}

	return s.repo.AttachTransferProof(ctx, id, path)
}

// generateWithdrawalCode builds a code like WD-20260831-4F7K2Q. Uniqueness
// is enforced by the database; callers retry on collision.
func generateWithdrawalCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	suffix := make([]byte, 6)
	random := make([]byte, 6)
	_, _ = rand.Read(random)
	for i, b := range random {
		suffix[i] = alphabet[int(b)%len(alphabet)]
	}
	return fmt.Sprintf("WD-%s-%s", time.Now().Format("20060102"), suffix)
}
