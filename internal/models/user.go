package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User is a platform account. Organizers accrue commission earnings and
// request withdrawals; admins drive the withdrawal state machine and verify
// bank accounts.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
