package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventra/eventra-backend/internal/http/handlers/common"
	"github.com/eventra/eventra-backend/internal/service"
)

// CommissionHandler exposes the organizer's commission history.
type CommissionHandler struct {
	commissions *service.CommissionService
	payments    *service.PaymentService
}

func NewCommissionHandler(commissions *service.CommissionService, payments *service.PaymentService) *CommissionHandler {
	return &CommissionHandler{commissions: commissions, payments: payments}
}

// ListMyCommissions handles GET /commissions.
func (h *CommissionHandler) ListMyCommissions(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	commissions, err := h.commissions.ListForRecipient(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, commissions)
}

// ListTransactionCommissions handles GET /payments/transactions/:code/commissions.
func (h *CommissionHandler) ListTransactionCommissions(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		common.RespondBadRequest(c, "transaction code is required")
		return
	}

	t, err := h.payments.GetByCode(c.Request.Context(), code)
	if err != nil {
		_ = c.Error(err)
		return
	}

	commissions, err := h.commissions.ListForTransaction(c.Request.Context(), t.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, commissions)
}
