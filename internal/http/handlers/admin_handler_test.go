package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/eventra/eventra-backend/internal/http/middleware"
)

func TestAdminHandler_RejectWithdrawal_MissingReason(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AdminHandler{}
	r.POST("/admin/withdrawals/:id/reject", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		handler.RejectWithdrawal(c)
	})

	req, _ := http.NewRequest("POST", "/admin/withdrawals/"+uuid.NewString()+"/reject", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_ApproveWithdrawal_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AdminHandler{}
	r.POST("/admin/withdrawals/:id/approve", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		handler.ApproveWithdrawal(c)
	})

	req, _ := http.NewRequest("POST", "/admin/withdrawals/invalid-uuid/approve", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_UploadTransferProof_MissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AdminHandler{}
	r.POST("/admin/withdrawals/:id/proof", handler.UploadTransferProof)

	req, _ := http.NewRequest("POST", "/admin/withdrawals/"+uuid.NewString()+"/proof", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminOnly_RejectsOrganizer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", func(c *gin.Context) {
		c.Set(middleware.ContextRoleKey, "organizer")
		middleware.AdminOnly()(c)
		if !c.IsAborted() {
			c.Status(http.StatusOK)
		}
	})

	req, _ := http.NewRequest("GET", "/admin/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
