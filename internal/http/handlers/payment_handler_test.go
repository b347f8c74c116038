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

func TestPaymentHandler_CreateTransaction_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{payments: nil}
	r.POST("/payments/transactions", handler.CreateTransaction)

	req, _ := http.NewRequest("POST", "/payments/transactions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandler_CreateTransaction_BadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{payments: nil}
	r.POST("/payments/transactions", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		handler.CreateTransaction(c)
	})

	req, _ := http.NewRequest("POST", "/payments/transactions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_ListTransactions_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{payments: nil}
	r.GET("/payments/transactions", handler.ListTransactions)

	req, _ := http.NewRequest("GET", "/payments/transactions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBankAccountHandler_CreateBankAccount_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BankAccountHandler{}
	r.POST("/bank-accounts", handler.CreateBankAccount)

	req, _ := http.NewRequest("POST", "/bank-accounts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBankAccountHandler_SetPrimary_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BankAccountHandler{}
	r.PUT("/bank-accounts/:id/primary", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		handler.SetPrimaryBankAccount(c)
	})

	req, _ := http.NewRequest("PUT", "/bank-accounts/invalid-uuid/primary", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
