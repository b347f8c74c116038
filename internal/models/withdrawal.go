package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawalStatus is the state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusApproved  WithdrawalStatus = "approved"
	WithdrawalStatusProcessed WithdrawalStatus = "processed"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
	WithdrawalStatusCancelled WithdrawalStatus = "cancelled"
)

// withdrawalTransitions is the closed transition table. Happy path is
// pending -> approved -> processed -> completed. Rejection and cancellation
// exit from pending only; processed and completed are irreversible.
var withdrawalTransitions = map[WithdrawalStatus][]WithdrawalStatus{
	WithdrawalStatusPending:   {WithdrawalStatusApproved, WithdrawalStatusRejected, WithdrawalStatusCancelled},
	WithdrawalStatusApproved:  {WithdrawalStatusProcessed},
	WithdrawalStatusProcessed: {WithdrawalStatusCompleted},
}

// CanTransitionTo reports whether moving from s to target is permitted.
func (s WithdrawalStatus) CanTransitionTo(target WithdrawalStatus) bool {
	for _, allowed := range withdrawalTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s admits no further transitions.
func (s WithdrawalStatus) IsTerminal() bool {
	return len(withdrawalTransitions[s]) == 0
}

// ReservesBalance reports whether a withdrawal in this status still counts
// against the organizer's balance. Funds are reserved at submission and
// released only on rejection or cancellation.
func (s WithdrawalStatus) ReservesBalance() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusApproved, WithdrawalStatusProcessed, WithdrawalStatusCompleted:
		return true
	}
	return false
}

// ValidWithdrawalStatus reports whether s is a known status.
func ValidWithdrawalStatus(s WithdrawalStatus) bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusApproved, WithdrawalStatusProcessed,
		WithdrawalStatusCompleted, WithdrawalStatusRejected, WithdrawalStatusCancelled:
		return true
	}
	return false
}

// Withdrawal is an organizer's request to move available balance to a
// verified bank account. AdminFee is snapshotted from settings at request
// time; NetAmount = Amount - AdminFee. Rows are never deleted, history is
// kept through status for audit.
type Withdrawal struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	WithdrawalCode string           `db:"withdrawal_code" json:"withdrawal_code"`
	UserID         uuid.UUID        `db:"user_id" json:"user_id"`
	BankAccountID  uuid.UUID        `db:"bank_account_id" json:"bank_account_id"`
	Amount         decimal.Decimal  `db:"amount" json:"amount"`
	AdminFee       decimal.Decimal  `db:"admin_fee" json:"admin_fee"`
	NetAmount      decimal.Decimal  `db:"net_amount" json:"net_amount"`
	Status         WithdrawalStatus `db:"status" json:"status"`
	Notes          *string          `db:"notes" json:"notes,omitempty"`
	AdminNotes     *string          `db:"admin_notes" json:"admin_notes,omitempty"`
	TransferProof  *string          `db:"transfer_proof" json:"transfer_proof,omitempty"`
	ApprovedBy     *uuid.UUID       `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt     *time.Time       `db:"approved_at" json:"approved_at,omitempty"`
	ProcessedAt    *time.Time       `db:"processed_at" json:"processed_at,omitempty"`
	CompletedAt    *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
	RejectedBy     *uuid.UUID       `db:"rejected_by" json:"rejected_by,omitempty"`
	RejectedAt     *time.Time       `db:"rejected_at" json:"rejected_at,omitempty"`
	CancelledAt    *time.Time       `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// WithdrawalSummary is the organizer-facing balance dashboard payload.
type WithdrawalSummary struct {
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	AvailableBalance   decimal.Decimal `json:"available_balance"`
	TotalWithdrawn     decimal.Decimal `json:"total_withdrawn"`
	PendingWithdrawals int             `json:"pending_withdrawals"`
	MinimumAmount      decimal.Decimal `json:"minimum_amount"`
	AdminFee           decimal.Decimal `json:"admin_fee"`
}
