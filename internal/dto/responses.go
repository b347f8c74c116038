package dto

import (
	"github.com/shopspring/decimal"

	"github.com/eventra/eventra-backend/internal/models"
)

// BalanceSummaryResponse is the organizer's balance dashboard payload.
type BalanceSummaryResponse struct {
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	AvailableBalance   decimal.Decimal `json:"available_balance"`
	TotalWithdrawn     decimal.Decimal `json:"total_withdrawn"`
	PendingWithdrawals int             `json:"pending_withdrawals"`
	MinimumAmount      decimal.Decimal `json:"minimum_amount"`
	AdminFee           decimal.Decimal `json:"admin_fee"`
}

// NewBalanceSummaryResponse maps the service summary onto the API payload.
func NewBalanceSummaryResponse(s *models.WithdrawalSummary) *BalanceSummaryResponse {
	return &BalanceSummaryResponse{
		CurrentBalance:     s.CurrentBalance,
		AvailableBalance:   s.AvailableBalance,
		TotalWithdrawn:     s.TotalWithdrawn,
		PendingWithdrawals: s.PendingWithdrawals,
		MinimumAmount:      s.MinimumAmount,
		AdminFee:           s.AdminFee,
	}
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
