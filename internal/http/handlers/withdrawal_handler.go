package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eventra/eventra-backend/internal/dto"
	"github.com/eventra/eventra-backend/internal/http/handlers/common"
	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/service"
)

// WithdrawalHandler is the organizer-facing HTTP surface of the withdrawal
// ledger: balance summary, request submission, own history and cancellation.
type WithdrawalHandler struct {
	withdrawals *service.WithdrawalService
	balances    *service.BalanceService
}

func NewWithdrawalHandler(withdrawals *service.WithdrawalService, balances *service.BalanceService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals, balances: balances}
}

// GetSummary handles GET /withdrawals/summary.
func (h *WithdrawalHandler) GetSummary(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	summary, err := h.balances.Summary(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBalanceSummaryResponse(summary))
}

// CreateWithdrawal handles POST /withdrawals.
func (h *WithdrawalHandler) CreateWithdrawal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		BankAccountID string          `json:"bank_account_id" binding:"required,uuid"`
		Amount        decimal.Decimal `json:"amount" binding:"required"`
		Notes         *string         `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	bankAccountID, err := uuid.Parse(req.BankAccountID)
	if err != nil {
		common.RespondBadRequest(c, "bank_account_id must be a valid UUID")
		return
	}

	w, err := h.withdrawals.Create(c.Request.Context(), userID, bankAccountID, req.Amount, req.Notes)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// ListWithdrawals handles GET /withdrawals.
func (h *WithdrawalHandler) ListWithdrawals(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	withdrawals, err := h.withdrawals.ListForUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

// GetWithdrawal handles GET /withdrawals/:id.
func (h *WithdrawalHandler) GetWithdrawal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	role, _ := common.CurrentUserRole(c)
	w, err := h.withdrawals.Get(c.Request.Context(), id, userID, role == models.RoleAdmin)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// CancelWithdrawal handles POST /withdrawals/:id/cancel. Only the owner can
// cancel, and only while the request is still pending.
func (h *WithdrawalHandler) CancelWithdrawal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.withdrawals.Cancel(c.Request.Context(), id, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}
