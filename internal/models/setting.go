package models

import (
	"time"

	"github.com/google/uuid"
)

// SettingType is the declared value type of a settings row.
type SettingType string

const (
	SettingTypeString  SettingType = "string"
	SettingTypeNumber  SettingType = "number"
	SettingTypeBoolean SettingType = "boolean"
	SettingTypeJSON    SettingType = "json"
)

// Settings keys read by the ledger.
const (
	SettingKeyPlatformFeePercentage = "platform_fee_percentage"
	SettingKeyWithdrawalMinAmount   = "withdrawal_min_amount"
	SettingKeyWithdrawalAdminFee    = "withdrawal_admin_fee"
)

// Setting is a typed key/value configuration row. Rate-sensitive values are
// snapshotted onto transactions and withdrawals at creation time; changing a
// setting never retroactively alters existing records.
type Setting struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	Key       string      `db:"key" json:"key"`
	Value     string      `db:"value" json:"value"`
	Type      SettingType `db:"type" json:"type"`
	Group     string      `db:"group" json:"group"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}
