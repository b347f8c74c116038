package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/eventra/eventra-backend/internal/http/handlers/common"
	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/service"
)

// PaymentHandler is the HTTP surface of the payment gateway integration:
// recording pending transactions and confirming them as paid.
type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreateTransaction handles POST /payments/transactions.
func (h *PaymentHandler) CreateTransaction(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Type        string          `json:"type" binding:"required"`
		GrossAmount decimal.Decimal `json:"gross_amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	t, err := h.payments.Record(c.Request.Context(), userID, models.TransactionType(req.Type), req.GrossAmount)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// ConfirmTransactionPaid handles POST /payments/transactions/:code/paid.
// This is the gateway confirmation surface; the commission pair is computed
// in the same flow.
func (h *PaymentHandler) ConfirmTransactionPaid(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		common.RespondBadRequest(c, "transaction code is required")
		return
	}

	t, err := h.payments.ConfirmPaid(c.Request.Context(), code)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListTransactions handles GET /payments/transactions.
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	transactions, err := h.payments.ListForOrganizer(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}
