package router

import (
	"github.com/gin-gonic/gin"

	"github.com/eventra/eventra-backend/internal/config"
	"github.com/eventra/eventra-backend/internal/http/handlers"
	"github.com/eventra/eventra-backend/internal/http/middleware"
	"github.com/eventra/eventra-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	withdrawalHandler *handlers.WithdrawalHandler,
	bankAccountHandler *handlers.BankAccountHandler,
	paymentHandler *handlers.PaymentHandler,
	commissionHandler *handlers.CommissionHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		// Balance and withdrawals
		protected.GET("/withdrawals/summary", withdrawalHandler.GetSummary)
		protected.POST("/withdrawals", withdrawalHandler.CreateWithdrawal)
		protected.GET("/withdrawals", withdrawalHandler.ListWithdrawals)
		protected.GET("/withdrawals/:id", middleware.UUIDValidator("id"), withdrawalHandler.GetWithdrawal)
		protected.POST("/withdrawals/:id/cancel", middleware.UUIDValidator("id"), withdrawalHandler.CancelWithdrawal)

		// Payout accounts
		protected.POST("/bank-accounts", bankAccountHandler.CreateBankAccount)
		protected.GET("/bank-accounts", bankAccountHandler.ListBankAccounts)
		protected.PUT("/bank-accounts/:id/primary", middleware.UUIDValidator("id"), bankAccountHandler.SetPrimaryBankAccount)

		// Gateway surface and transaction history
		protected.POST("/payments/transactions", paymentHandler.CreateTransaction)
		protected.POST("/payments/transactions/:code/paid", paymentHandler.ConfirmTransactionPaid)
		protected.GET("/payments/transactions", paymentHandler.ListTransactions)
		protected.GET("/payments/transactions/:code/commissions", commissionHandler.ListTransactionCommissions)

		// Commission history
		protected.GET("/commissions", commissionHandler.ListMyCommissions)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.AdminOnly())
	{
		admin.GET("/withdrawals", adminHandler.ListWithdrawals)
		admin.POST("/withdrawals/:id/approve", middleware.UUIDValidator("id"), adminHandler.ApproveWithdrawal)
		admin.POST("/withdrawals/:id/process", middleware.UUIDValidator("id"), adminHandler.ProcessWithdrawal)
		admin.POST("/withdrawals/:id/complete", middleware.UUIDValidator("id"), adminHandler.CompleteWithdrawal)
		admin.POST("/withdrawals/:id/reject", middleware.UUIDValidator("id"), adminHandler.RejectWithdrawal)
		admin.POST("/withdrawals/:id/proof", middleware.UUIDValidator("id"), adminHandler.UploadTransferProof)
		admin.PUT("/bank-accounts/:id/verify", middleware.UUIDValidator("id"), adminHandler.VerifyBankAccount)
		admin.PUT("/settings/:key", adminHandler.UpdateSetting)
		admin.GET("/reports/withdrawals.xlsx", adminHandler.DownloadWithdrawalsReport)
	}

	return r
}
