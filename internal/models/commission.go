package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionType splits a paid transaction into platform and organizer shares.
type CommissionType string

const (
	CommissionTypeEventCommission CommissionType = "event_commission"
	CommissionTypePlatformFee     CommissionType = "platform_fee"
)

// CommissionStatus is the settlement status of a commission row.
type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "pending"
	CommissionStatusPaid    CommissionStatus = "paid"
	CommissionStatusHold    CommissionStatus = "hold"
)

// Commission is one share of a paid transaction. At most one row exists per
// (transaction, type); recomputation upserts instead of inserting duplicates.
// Amount plus BaseAmount of the sibling row reconciles with the transaction's
// gross amount.
type Commission struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	TransactionID uuid.UUID        `db:"transaction_id" json:"transaction_id"`
	RecipientID   uuid.UUID        `db:"recipient_id" json:"recipient_id"`
	Type          CommissionType   `db:"type" json:"type"`
	Amount        decimal.Decimal  `db:"amount" json:"amount"`
	BaseAmount    decimal.Decimal  `db:"base_amount" json:"base_amount"`
	Status        CommissionStatus `db:"status" json:"status"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}
