package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType defines what kind of payment a transaction represents.
type TransactionType string

const (
	TransactionTypeTicketSale   TransactionType = "ticket_sale"
	TransactionTypeSubscription TransactionType = "subscription"
	TransactionTypePayout       TransactionType = "payout"
	TransactionTypeRefund       TransactionType = "refund"
)

// TransactionStatus is the payment lifecycle status.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusPaid      TransactionStatus = "paid"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionTypeTicketSale, TransactionTypeSubscription, TransactionTypePayout, TransactionTypeRefund:
		return true
	}
	return false
}

// Transaction is a single payment event owned by the payment subsystem.
// The ledger only reads transactions once they are paid.
// PlatformFeePercentage is snapshotted at creation and never recomputed
// from live settings, so commission math stays reproducible after rate changes.
type Transaction struct {
	ID                    uuid.UUID         `db:"id" json:"id"`
	TransactionCode       string            `db:"transaction_code" json:"transaction_code"`
	OrganizerID           uuid.UUID         `db:"organizer_id" json:"organizer_id"`
	Type                  TransactionType   `db:"type" json:"type"`
	GrossAmount           decimal.Decimal   `db:"gross_amount" json:"gross_amount"`
	PlatformFee           decimal.Decimal   `db:"platform_fee" json:"platform_fee"`
	NetAmount             decimal.Decimal   `db:"net_amount" json:"net_amount"`
	PlatformFeePercentage decimal.Decimal   `db:"platform_fee_percentage" json:"platform_fee_percentage"`
	Status                TransactionStatus `db:"status" json:"status"`
	PaidAt                *time.Time        `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt             time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time         `db:"updated_at" json:"updated_at"`
}
