package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
)

func TestSettingsService_LedgerSnapshot(t *testing.T) {
	svc := testSettingsService("5", "50000", "2500")
	ctx := context.Background()

	snapshot, err := svc.LedgerSnapshot(ctx)
	assert.NoError(t, err)
	assert.True(t, snapshot.PlatformFeePercentage.Equal(decimal.RequireFromString("5")))
	assert.True(t, snapshot.MinimumWithdrawal.Equal(decimal.RequireFromString("50000")))
	assert.True(t, snapshot.AdminFee.Equal(decimal.RequireFromString("2500")))
}

func TestSettingsService_LedgerSnapshot_Cached(t *testing.T) {
	repo := new(mockSettingsRepo)
	repo.On("GetByKeys", mock.Anything, mock.Anything).Return(map[string]models.Setting{
		models.SettingKeyPlatformFeePercentage: {Value: "5"},
		models.SettingKeyWithdrawalMinAmount:   {Value: "50000"},
		models.SettingKeyWithdrawalAdminFee:    {Value: "2500"},
	}, nil).Once()
	svc := NewSettingsService(repo, NewCacheService())
	ctx := context.Background()

	_, err := svc.LedgerSnapshot(ctx)
	assert.NoError(t, err)

	// Second read must come from the cache; the repo expectation is Once.
	_, err = svc.LedgerSnapshot(ctx)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSettingsService_LedgerSnapshot_MissingKey(t *testing.T) {
	repo := new(mockSettingsRepo)
	repo.On("GetByKeys", mock.Anything, mock.Anything).Return(map[string]models.Setting{
		models.SettingKeyPlatformFeePercentage: {Value: "5"},
	}, nil)
	svc := NewSettingsService(repo, NewCacheService())

	_, err := svc.LedgerSnapshot(context.Background())
	assert.Error(t, err)
}

func TestSettingsService_LedgerSnapshot_NonNumericValue(t *testing.T) {
	svc := testSettingsService("five percent", "50000", "2500")

	_, err := svc.LedgerSnapshot(context.Background())
	assert.Error(t, err)
}

func TestSettingsService_Update_ValidatesType(t *testing.T) {
	repo := new(mockSettingsRepo)
	svc := NewSettingsService(repo, NewCacheService())
	ctx := context.Background()

	_, err := svc.Update(ctx, "withdrawal_min_amount", "not a number", models.SettingTypeNumber, "withdrawal")
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Update(ctx, "some_flag", "maybe", models.SettingTypeBoolean, "general")
	assert.Error(t, err)

	_, err = svc.Update(ctx, "some_json", "{broken", models.SettingTypeJSON, "general")
	assert.Error(t, err)

	_, err = svc.Update(ctx, "", "1", models.SettingTypeNumber, "general")
	assert.Error(t, err)

	repo.AssertNotCalled(t, "Upsert")
}

func TestSettingsService_Update_InvalidatesSnapshot(t *testing.T) {
	repo := new(mockSettingsRepo)
	repo.On("GetByKeys", mock.Anything, mock.Anything).Return(map[string]models.Setting{
		models.SettingKeyPlatformFeePercentage: {Value: "5"},
		models.SettingKeyWithdrawalMinAmount:   {Value: "50000"},
		models.SettingKeyWithdrawalAdminFee:    {Value: "2500"},
	}, nil).Once()
	repo.On("GetByKeys", mock.Anything, mock.Anything).Return(map[string]models.Setting{
		models.SettingKeyPlatformFeePercentage: {Value: "5"},
		models.SettingKeyWithdrawalMinAmount:   {Value: "60000"},
		models.SettingKeyWithdrawalAdminFee:    {Value: "2500"},
	}, nil).Once()
	repo.On("Upsert", mock.Anything, models.SettingKeyWithdrawalMinAmount, "60000", models.SettingTypeNumber, "withdrawal").
		Return(&models.Setting{Key: models.SettingKeyWithdrawalMinAmount, Value: "60000"}, nil)

	svc := NewSettingsService(repo, NewCacheService())
	ctx := context.Background()

	before, err := svc.LedgerSnapshot(ctx)
	assert.NoError(t, err)
	assert.True(t, before.MinimumWithdrawal.Equal(decimal.RequireFromString("50000")))

	_, err = svc.Update(ctx, models.SettingKeyWithdrawalMinAmount, "60000", models.SettingTypeNumber, "withdrawal")
	assert.NoError(t, err)

	after, err := svc.LedgerSnapshot(ctx)
	assert.NoError(t, err)
	assert.True(t, after.MinimumWithdrawal.Equal(decimal.RequireFromString("60000")))
	repo.AssertExpectations(t)
}
