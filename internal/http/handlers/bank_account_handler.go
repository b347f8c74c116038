package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventra/eventra-backend/internal/http/handlers/common"
	"github.com/eventra/eventra-backend/internal/service"
)

// BankAccountHandler is the HTTP surface of the payout account registry.
type BankAccountHandler struct {
	accounts *service.BankAccountService
}

func NewBankAccountHandler(accounts *service.BankAccountService) *BankAccountHandler {
	return &BankAccountHandler{accounts: accounts}
}

// CreateBankAccount handles POST /bank-accounts.
func (h *BankAccountHandler) CreateBankAccount(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		BankCode      string `json:"bank_code" binding:"required"`
		BankName      string `json:"bank_name" binding:"required"`
		AccountNumber string `json:"account_number" binding:"required"`
		HolderName    string `json:"account_holder_name" binding:"required"`
		IsPrimary     bool   `json:"is_primary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	account, err := h.accounts.Add(c.Request.Context(), userID, req.BankCode, req.BankName, req.AccountNumber, req.HolderName, req.IsPrimary)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// ListBankAccounts handles GET /bank-accounts.
func (h *BankAccountHandler) ListBankAccounts(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	accounts, err := h.accounts.List(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// SetPrimaryBankAccount handles PUT /bank-accounts/:id/primary.
func (h *BankAccountHandler) SetPrimaryBankAccount(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	account, err := h.accounts.SetPrimary(c.Request.Context(), userID, accountID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, account)
}
