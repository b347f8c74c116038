package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
)

// settingsCacheTTL keeps the ledger snapshot hot without making rate changes
// wait long to take effect for new records.
const settingsCacheTTL = 30 * time.Second

// SettingsRepository is the storage surface the settings service needs.
type SettingsRepository interface {
	GetByKey(ctx context.Context, key string) (*models.Setting, error)
	GetByKeys(ctx context.Context, keys []string) (map[string]models.Setting, error)
	ListByGroup(ctx context.Context, group string) ([]models.Setting, error)
	Upsert(ctx context.Context, key, value string, settingType models.SettingType, group string) (*models.Setting, error)
}

// LedgerSettings is an immutable snapshot of the rate-sensitive settings.
// Values from a snapshot are copied onto transactions and withdrawals at
// creation time and never re-read later, so later setting changes cannot
// retroactively alter existing records.
type LedgerSettings struct {
	PlatformFeePercentage decimal.Decimal
	MinimumWithdrawal     decimal.Decimal
	AdminFee              decimal.Decimal
}

type SettingsService struct {
	repo  SettingsRepository
	cache *CacheService
}

func NewSettingsService(repo SettingsRepository, cache *CacheService) *SettingsService {
	return &SettingsService{repo: repo, cache: cache}
}

// LedgerSnapshot loads the ledger keys into one immutable snapshot.
func (s *SettingsService) LedgerSnapshot(ctx context.Context) (*LedgerSettings, error) {
	value, err := s.cache.GetOrSet(ctx, LedgerSettingsCacheKey(), settingsCacheTTL, func() (interface{}, error) {
		return s.loadSnapshot(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.(*LedgerSettings), nil
}

func (s *SettingsService) loadSnapshot(ctx context.Context) (*LedgerSettings, error) {
	keys := []string{
		models.SettingKeyPlatformFeePercentage,
		models.SettingKeyWithdrawalMinAmount,
		models.SettingKeyWithdrawalAdminFee,
	}

	rows, err := s.repo.GetByKeys(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("settings service: load snapshot: %w", err)
	}

	snapshot := &LedgerSettings{}
	for _, key := range keys {
		setting, ok := rows[key]
		if !ok {
			return nil, apperror.Wrap(apperror.ErrSettingNotFound, apperror.ErrCodeInternal,
				fmt.Sprintf("required setting %q is missing", key))
		}
		num, err := decimal.NewFromString(setting.Value)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal,
				fmt.Sprintf("setting %q is not numeric", key))
		}
		switch key {
		case models.SettingKeyPlatformFeePercentage:
			snapshot.PlatformFeePercentage = num
		case models.SettingKeyWithdrawalMinAmount:
			snapshot.MinimumWithdrawal = num
		case models.SettingKeyWithdrawalAdminFee:
			snapshot.AdminFee = num
		}
	}

	return snapshot, nil
}

// Get returns a single setting row.
func (s *SettingsService) Get(ctx context.Context, key string) (*models.Setting, error) {
	return s.repo.GetByKey(ctx, key)
}

// ListGroup returns all settings of a group.
func (s *SettingsService) ListGroup(ctx context.Context, group string) ([]models.Setting, error) {
	return s.repo.ListByGroup(ctx, group)
}

// Update writes a setting after validating the value against its declared
// type, then drops the cached snapshot so new records pick the value up.
func (s *SettingsService) Update(ctx context.Context, key, value string, settingType models.SettingType, group string) (*models.Setting, error) {
	if key == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "setting key is required")
	}

	switch settingType {
	case models.SettingTypeNumber:
		if _, err := decimal.NewFromString(value); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("value %q is not a number", value))
		}
	case models.SettingTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("value %q is not a boolean", value))
		}
	case models.SettingTypeJSON:
		if !json.Valid([]byte(value)) {
			return nil, apperror.New(apperror.ErrCodeValidation, "value is not valid JSON")
		}
	case models.SettingTypeString:
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown setting type %q", settingType))
	}

	setting, err := s.repo.Upsert(ctx, key, value, settingType, group)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(LedgerSettingsCacheKey())
	return setting, nil
}
