package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxBankAccountsPerUser is the hard cap of bank accounts an organizer may register.
const MaxBankAccountsPerUser = 3

// BankAccount is a payout destination owned by exactly one user.
// IsVerified is set only through the admin side channel and is monotonic:
// once verified the system never auto-reverts it. Withdrawals may reference
// verified accounts only.
type BankAccount struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        uuid.UUID  `db:"user_id" json:"user_id"`
	BankCode      string     `db:"bank_code" json:"bank_code"`
	BankName      string     `db:"bank_name" json:"bank_name"`
	AccountNumber string     `db:"account_number" json:"account_number"`
	HolderName    string     `db:"holder_name" json:"holder_name"`
	IsPrimary     bool       `db:"is_primary" json:"is_primary"`
	IsVerified    bool       `db:"is_verified" json:"is_verified"`
	VerifiedAt    *time.Time `db:"verified_at" json:"verified_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
