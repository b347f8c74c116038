package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
	"github.com/eventra/eventra-backend/internal/repository/common"
)

type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) GetByKey(ctx context.Context, key string) (*models.Setting, error) {
	return common.GetByField[models.Setting](ctx, r.db, "settings", "key", key, apperror.ErrSettingNotFound)
}

// GetByKeys returns the settings for the given keys, keyed by setting key.
// Missing keys are simply absent from the result.
func (r *SettingsRepository) GetByKeys(ctx context.Context, keys []string) (map[string]models.Setting, error) {
	query, args, err := sqlx.In(`SELECT * FROM settings WHERE key IN (?)`, keys)
	if err != nil {
		return nil, fmt.Errorf("settings repository: build query: %w", err)
	}

	var rows []models.Setting
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("settings repository: get by keys: %w", err)
	}

	result := make(map[string]models.Setting, len(rows))
	for _, s := range rows {
		result[s.Key] = s
	}
	return result, nil
}

func (r *SettingsRepository) ListByGroup(ctx context.Context, group string) ([]models.Setting, error) {
	var rows []models.Setting
	err := r.db.SelectContext(ctx, &rows, `SELECT * FROM settings WHERE "group" = $1 ORDER BY key`, group)
	return rows, err
}

// Upsert writes a setting value; used by the admin settings endpoint only.
func (r *SettingsRepository) Upsert(ctx context.Context, key, value string, settingType models.SettingType, group string) (*models.Setting, error) {
	var s models.Setting
	err := r.db.GetContext(ctx, &s, `
		INSERT INTO settings (key, value, type, "group")
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET value = $2, type = $3, updated_at = NOW()
		RETURNING *
	`, key, value, settingType, group)
	if err != nil {
		return nil, fmt.Errorf("settings repository: upsert %s: %w", key, err)
	}
	return &s, nil
}
