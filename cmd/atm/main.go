package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/dollarsbank/ledger/internal/adapters/memory"
	"github.com/dollarsbank/ledger/internal/core/services"
	"github.com/dollarsbank/ledger/internal/prompt"
	"github.com/dollarsbank/ledger/internal/utils"
	"github.com/dollarsbank/ledger/pkg/config"
)

func main() {
	// Service logs go to stderr so the teller console stays clean.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	accountRepo := memory.NewAccountRepository()
	pinHasher := utils.NewPINHasher(cfg.PINHashing)

	authService := services.NewAuthService(accountRepo, pinHasher, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
	bankService := services.NewBankService(accountRepo, pinHasher)

	cli := prompt.New(os.Stdin, os.Stdout, authService, bankService)
	if err := cli.Run(context.Background()); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("Session ended with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
