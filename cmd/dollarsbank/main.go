package main

import (
	"log/slog"
	"os"

	"github.com/dollarsbank/ledger/internal/adapters/memory"
	"github.com/dollarsbank/ledger/internal/core/services"
	"github.com/dollarsbank/ledger/internal/handlers"
	"github.com/dollarsbank/ledger/internal/middleware"
	"github.com/dollarsbank/ledger/internal/utils"
	"github.com/dollarsbank/ledger/pkg/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The whole ledger lives in process memory; state is gone on restart.
	accountRepo := memory.NewAccountRepository()
	pinHasher := utils.NewPINHasher(cfg.PINHashing)

	authService := services.NewAuthService(accountRepo, pinHasher, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
	bankService := services.NewBankService(accountRepo, pinHasher)

	handlers.RegisterRoutes(r, cfg, authService, bankService)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
