package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eventra/eventra-backend/internal/models"
)

// summaryCacheTTL bounds staleness of the cached balance dashboard. Writes
// that change the balance invalidate the entry eagerly, so the TTL only
// covers changes made outside the withdrawal flow.
const summaryCacheTTL = 15 * time.Second

// BalanceWithdrawalRepository is the slice of the withdrawal storage the
// balance ledger reads from.
type BalanceWithdrawalRepository interface {
	SumReserved(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	SumCompleted(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	CountPending(ctx context.Context, userID uuid.UUID) (int, error)
}

// BalanceService derives organizer balances. Balances are never materialized
// as a separately mutated counter: every query re-aggregates from the
// commission and withdrawal tables, so the ledger cannot drift.
type BalanceService struct {
	commissions CommissionRepository
	withdrawals BalanceWithdrawalRepository
	settings    *SettingsService
	cache       *CacheService
}

func NewBalanceService(commissions CommissionRepository, withdrawals BalanceWithdrawalRepository, settings *SettingsService, cache *CacheService) *BalanceService {
	return &BalanceService{
		commissions: commissions,
		withdrawals: withdrawals,
		settings:    settings,
		cache:       cache,
	}
}

// CurrentBalance is the organizer's earnings minus everything reserved or
// already withdrawn.
func (s *BalanceService) CurrentBalance(ctx context.Context, organizerID uuid.UUID) (decimal.Decimal, error) {
	earned, err := s.commissions.SumEventCommissions(ctx, organizerID)
	if err != nil {
		return decimal.Zero, err
	}

	reserved, err := s.withdrawals.SumReserved(ctx, organizerID)
	if err != nil {
		return decimal.Zero, err
	}

	return earned.Sub(reserved), nil
}

// AvailableBalance equals CurrentBalance in this model: funds are reserved
// at withdrawal submission time, so the reservation is already part of the
// current figure.
func (s *BalanceService) AvailableBalance(ctx context.Context, organizerID uuid.UUID) (decimal.Decimal, error) {
	return s.CurrentBalance(ctx, organizerID)
}

// Summary assembles the organizer's balance dashboard. The result is cached
// per organizer; withdrawal submissions and transitions invalidate the entry
// through CacheService.InvalidateUserCache.
func (s *BalanceService) Summary(ctx context.Context, organizerID uuid.UUID) (*models.WithdrawalSummary, error) {
	value, err := s.cache.GetOrSet(ctx, SummaryCacheKey(organizerID), summaryCacheTTL, func() (interface{}, error) {
		return s.buildSummary(ctx, organizerID)
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.WithdrawalSummary), nil
}

func (s *BalanceService) buildSummary(ctx context.Context, organizerID uuid.UUID) (*models.WithdrawalSummary, error) {
	current, err := s.CurrentBalance(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	withdrawn, err := s.withdrawals.SumCompleted(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	pending, err := s.withdrawals.CountPending(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.settings.LedgerSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &models.WithdrawalSummary{
		CurrentBalance:     current,
		AvailableBalance:   current,
		TotalWithdrawn:     withdrawn,
		PendingWithdrawals: pending,
		MinimumAmount:      snapshot.MinimumWithdrawal,
		AdminFee:           snapshot.AdminFee,
	}, nil
}
