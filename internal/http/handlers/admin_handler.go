package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventra/eventra-backend/internal/http/handlers/common"
	"github.com/eventra/eventra-backend/internal/models"
	"github.com/eventra/eventra-backend/internal/service"
)

// AdminHandler groups the admin-only surface: withdrawal approval flow,
// bank account verification, settings and the ledger report.
type AdminHandler struct {
	withdrawals *service.WithdrawalService
	accounts    *service.BankAccountService
	settings    *service.SettingsService
	reports     *service.ReportService
}

func NewAdminHandler(withdrawals *service.WithdrawalService, accounts *service.BankAccountService, settings *service.SettingsService, reports *service.ReportService) *AdminHandler {
	return &AdminHandler{
		withdrawals: withdrawals,
		accounts:    accounts,
		settings:    settings,
		reports:     reports,
	}
}

// ListWithdrawals handles GET /admin/withdrawals. Optional ?status= filter.
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	status := models.WithdrawalStatus(c.Query("status"))

	withdrawals, err := h.withdrawals.ListForAdmin(c.Request.Context(), status, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

// ApproveWithdrawal handles POST /admin/withdrawals/:id/approve.
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	adminID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.withdrawals.Approve(c.Request.Context(), id, adminID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// ProcessWithdrawal handles POST /admin/withdrawals/:id/process.
func (h *AdminHandler) ProcessWithdrawal(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.withdrawals.Process(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// CompleteWithdrawal handles POST /admin/withdrawals/:id/complete.
func (h *AdminHandler) CompleteWithdrawal(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.withdrawals.Complete(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// RejectWithdrawal handles POST /admin/withdrawals/:id/reject. A reason is
// required and stored on the record.
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	adminID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.withdrawals.Reject(c.Request.Context(), id, adminID, req.Reason)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// UploadTransferProof handles POST /admin/withdrawals/:id/proof (multipart).
func (h *AdminHandler) UploadTransferProof(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		common.RespondBadRequest(c, "proof file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.RespondBadRequest(c, "could not read uploaded file")
		return
	}
	defer file.Close()

	w, err := h.withdrawals.AttachTransferProof(c.Request.Context(), id, fileHeader.Filename, file)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// VerifyBankAccount handles PUT /admin/bank-accounts/:id/verify.
func (h *AdminHandler) VerifyBankAccount(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	account, err := h.accounts.Verify(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// UpdateSetting handles PUT /admin/settings/:key. Snapshotting on
// transactions and withdrawals keeps the change from acting retroactively.
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")

	var req struct {
		Value string `json:"value" binding:"required"`
		Type  string `json:"type" binding:"required"`
		Group string `json:"group"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if req.Group == "" {
		req.Group = "general"
	}

	setting, err := h.settings.Update(c.Request.Context(), key, req.Value, models.SettingType(req.Type), req.Group)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// DownloadWithdrawalsReport handles GET /admin/reports/withdrawals.xlsx and
// streams the workbook straight into the response.
func (h *AdminHandler) DownloadWithdrawalsReport(c *gin.Context) {
	fileName := fmt.Sprintf("withdrawals-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.reports.WriteWithdrawalsReport(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
		return
	}
}
