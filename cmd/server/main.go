package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eventra/eventra-backend/internal/config"
	"github.com/eventra/eventra-backend/internal/db"
	httpHandlers "github.com/eventra/eventra-backend/internal/http/handlers"
	httpRouter "github.com/eventra/eventra-backend/internal/http/router"
	"github.com/eventra/eventra-backend/internal/logger"
	"github.com/eventra/eventra-backend/internal/repository"
	"github.com/eventra/eventra-backend/internal/service"
	"github.com/eventra/eventra-backend/internal/storage"
)

func main() {
	// Context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: cannot load configuration: %v", err)
	}

	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Database connection and migrations.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: cannot connect to database: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: migrations failed: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	proofStorage, err := storage.NewProofStorage(cfg.ProofStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: cannot prepare proof storage: %v", err)
	}

	// Repositories.
	userRepo := repository.NewUserRepository(dbConn)
	settingsRepo := repository.NewSettingsRepository(dbConn)
	transactionRepo := repository.NewTransactionRepository(dbConn)
	commissionRepo := repository.NewCommissionRepository(dbConn)
	bankAccountRepo := repository.NewBankAccountRepository(dbConn)
	withdrawalRepo := repository.NewWithdrawalRepository(dbConn)

	// Services.
	cache := service.NewCacheService()
	authService := service.NewAuthService(userRepo, tokenManager)
	settingsService := service.NewSettingsService(settingsRepo, cache)
	commissionService := service.NewCommissionService(commissionRepo)
	balanceService := service.NewBalanceService(commissionRepo, withdrawalRepo, settingsService, cache)
	withdrawalService := service.NewWithdrawalService(withdrawalRepo, settingsService, proofStorage, cache)
	bankAccountService := service.NewBankAccountService(bankAccountRepo)
	paymentService := service.NewPaymentService(transactionRepo, settingsService, commissionService)
	reportService := service.NewReportService(withdrawalRepo)

	// HTTP handlers.
	authHandler := httpHandlers.NewAuthHandler(authService)
	withdrawalHandler := httpHandlers.NewWithdrawalHandler(withdrawalService, balanceService)
	bankAccountHandler := httpHandlers.NewBankAccountHandler(bankAccountService)
	paymentHandler := httpHandlers.NewPaymentHandler(paymentService)
	commissionHandler := httpHandlers.NewCommissionHandler(commissionService, paymentService)
	adminHandler := httpHandlers.NewAdminHandler(withdrawalService, bankAccountService, settingsService, reportService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		withdrawalHandler,
		bankAccountHandler,
		paymentHandler,
		commissionHandler,
		adminHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Shut the server down on signal.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: http server shutdown error: %v", err)
		}
	}()

	log.Printf("main: HTTP server listening on port %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: server exited with error: %v", err)
	}
}

// safeClose closes the database connection.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: error closing database: %v", err)
	}
}
