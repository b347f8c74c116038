package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventra/eventra-backend/internal/db"
	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
)

// testDB connects to the database named by DATABASE_URL and applies the
// migrations. Tests that need it are skipped when the variable is unset, so
// the unit suite stays runnable without infrastructure.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL is not set")
	}

	ctx := context.Background()
	conn, err := db.NewPostgres(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(ctx, conn, "../../migrations"))

	t.Cleanup(func() { conn.Close() })
	return conn
}

func seedUser(t *testing.T, conn *sqlx.DB) uuid.UUID {
	t.Helper()

	suffix := uuid.NewString()[:8]
	var id uuid.UUID
	err := conn.Get(&id, `
		INSERT INTO users (email, username, password_hash, role)
		VALUES ($1, $2, 'x', 'organizer')
		RETURNING id
	`, "org-"+suffix+"@example.com", "org-"+suffix)
	require.NoError(t, err)
	return id
}

func seedVerifiedAccount(t *testing.T, conn *sqlx.DB, userID uuid.UUID) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := conn.Get(&id, `
		INSERT INTO bank_accounts (user_id, bank_code, bank_name, account_number, holder_name, is_verified, verified_at)
		VALUES ($1, 'BCA', 'Bank Central Asia', $2, 'Test Organizer', TRUE, NOW())
		RETURNING id
	`, userID, fmt.Sprintf("%012d", time.Now().UnixNano()%1e12))
	require.NoError(t, err)
	return id
}

func seedPaidTransaction(t *testing.T, conn *sqlx.DB, organizerID uuid.UUID, gross string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := conn.Get(&id, `
		INSERT INTO transactions (transaction_code, organizer_id, type, gross_amount, platform_fee_percentage, status, paid_at)
		VALUES ($1, $2, 'ticket_sale', $3, 5, 'paid', NOW())
		RETURNING id
	`, "TRX-TEST-"+uuid.NewString()[:8], organizerID, gross)
	require.NoError(t, err)
	return id
}

func seedEventCommission(t *testing.T, conn *sqlx.DB, transactionID, recipientID uuid.UUID, amount string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO commissions (transaction_id, recipient_id, type, amount, base_amount, status)
		VALUES ($1, $2, 'event_commission', $3, 0, 'paid')
	`, transactionID, recipientID, amount)
	require.NoError(t, err)
}

func testWithdrawalCode() string {
	return "WD-TEST-" + uuid.NewString()[:8]
}

// Two concurrent submissions that each fit the balance on their own but not
// together must serialize on the organizer row lock: exactly one succeeds
// and the loser observes an insufficient-balance rejection.
func TestWithdrawalRepository_CreateReserving_ConcurrentOverdraw(t *testing.T) {
	conn := testDB(t)
	repo := NewWithdrawalRepository(conn)
	ctx := context.Background()

	organizerID := seedUser(t, conn)
	accountID := seedVerifiedAccount(t, conn, organizerID)
	txID := seedPaidTransaction(t, conn, organizerID, "100000")
	seedEventCommission(t, conn, txID, organizerID, "100000")

	amount := decimal.RequireFromString("60000")
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateReserving(ctx, NewWithdrawal{
				Code:          testWithdrawalCode(),
				UserID:        organizerID,
				BankAccountID: accountID,
				Amount:        amount,
				AdminFee:      decimal.RequireFromString("2500"),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		code, ok := apperror.Code(err)
		require.True(t, ok, "unexpected error: %v", err)
		assert.Equal(t, apperror.ErrCodeInsufficientBalance, code)
		rejected++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	reserved, err := repo.SumReserved(ctx, organizerID)
	require.NoError(t, err)
	assert.True(t, reserved.Equal(amount), "reserved %s, want %s", reserved, amount)
}

func TestWithdrawalRepository_CreateReserving_UnverifiedAccount(t *testing.T) {
	conn := testDB(t)
	repo := NewWithdrawalRepository(conn)
	ctx := context.Background()

	organizerID := seedUser(t, conn)
	txID := seedPaidTransaction(t, conn, organizerID, "100000")
	seedEventCommission(t, conn, txID, organizerID, "100000")

	var accountID uuid.UUID
	err := conn.Get(&accountID, `
		INSERT INTO bank_accounts (user_id, bank_code, bank_name, account_number, holder_name)
		VALUES ($1, 'BCA', 'Bank Central Asia', $2, 'Test Organizer')
		RETURNING id
	`, organizerID, fmt.Sprintf("%012d", time.Now().UnixNano()%1e12))
	require.NoError(t, err)

	_, err = repo.CreateReserving(ctx, NewWithdrawal{
		Code:          testWithdrawalCode(),
		UserID:        organizerID,
		BankAccountID: accountID,
		Amount:        decimal.RequireFromString("60000"),
		AdminFee:      decimal.RequireFromString("2500"),
	})
	assert.ErrorIs(t, err, apperror.ErrUnverifiedAccount)
}

// Rejection stamps the acting admin into rejected_by and leaves approved_by
// untouched; approval stamps approved_by.
func TestWithdrawalRepository_Transition_ActorColumns(t *testing.T) {
	conn := testDB(t)
	repo := NewWithdrawalRepository(conn)
	ctx := context.Background()

	organizerID := seedUser(t, conn)
	adminID := seedUser(t, conn)
	accountID := seedVerifiedAccount(t, conn, organizerID)
	txID := seedPaidTransaction(t, conn, organizerID, "200000")
	seedEventCommission(t, conn, txID, organizerID, "200000")

	first, err := repo.CreateReserving(ctx, NewWithdrawal{
		Code:          testWithdrawalCode(),
		UserID:        organizerID,
		BankAccountID: accountID,
		Amount:        decimal.RequireFromString("60000"),
		AdminFee:      decimal.RequireFromString("2500"),
	})
	require.NoError(t, err)

	reason := "bank account name mismatch"
	rejected, err := repo.Transition(ctx, first.ID, models.WithdrawalStatusPending, models.WithdrawalStatusRejected, &adminID, &reason)
	require.NoError(t, err)
	require.NotNil(t, rejected.RejectedBy)
	assert.Equal(t, adminID, *rejected.RejectedBy)
	assert.Nil(t, rejected.ApprovedBy)
	assert.NotNil(t, rejected.RejectedAt)
	require.NotNil(t, rejected.AdminNotes)
	assert.Equal(t, reason, *rejected.AdminNotes)

	second, err := repo.CreateReserving(ctx, NewWithdrawal{
		Code:          testWithdrawalCode(),
		UserID:        organizerID,
		BankAccountID: accountID,
		Amount:        decimal.RequireFromString("60000"),
		AdminFee:      decimal.RequireFromString("2500"),
	})
	require.NoError(t, err)

	approved, err := repo.Transition(ctx, second.ID, models.WithdrawalStatusPending, models.WithdrawalStatusApproved, &adminID, nil)
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, adminID, *approved.ApprovedBy)
	assert.Nil(t, approved.RejectedBy)
}

// Recomputing a transaction's commissions must update the existing pair in
// place instead of accumulating rows.
func TestCommissionRepository_UpsertPair_Idempotent(t *testing.T) {
	conn := testDB(t)
	repo := NewCommissionRepository(conn)
	ctx := context.Background()

	organizerID := seedUser(t, conn)
	txID := seedPaidTransaction(t, conn, organizerID, "100000")

	pair := []models.Commission{
		{
			TransactionID: txID,
			RecipientID:   organizerID,
			Type:          models.CommissionTypePlatformFee,
			Amount:        decimal.RequireFromString("5000"),
			BaseAmount:    decimal.RequireFromString("95000"),
			Status:        models.CommissionStatusPaid,
		},
		{
			TransactionID: txID,
			RecipientID:   organizerID,
			Type:          models.CommissionTypeEventCommission,
			Amount:        decimal.RequireFromString("95000"),
			BaseAmount:    decimal.RequireFromString("5000"),
			Status:        models.CommissionStatusPaid,
		},
	}

	_, err := repo.UpsertPair(ctx, pair)
	require.NoError(t, err)

	// Second write simulates a duplicate payment callback with a corrected
	// fee split.
	pair[0].Amount = decimal.RequireFromString("10000")
	pair[0].BaseAmount = decimal.RequireFromString("90000")
	pair[1].Amount = decimal.RequireFromString("90000")
	pair[1].BaseAmount = decimal.RequireFromString("10000")

	saved, err := repo.UpsertPair(ctx, pair)
	require.NoError(t, err)
	require.Len(t, saved, 2)

	rows, err := repo.ListByTransaction(ctx, txID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		switch row.Type {
		case models.CommissionTypePlatformFee:
			assert.True(t, row.Amount.Equal(decimal.RequireFromString("10000")))
		case models.CommissionTypeEventCommission:
			assert.True(t, row.Amount.Equal(decimal.RequireFromString("90000")))
		}
	}
}
