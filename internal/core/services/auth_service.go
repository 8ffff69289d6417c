package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dollarsbank/ledger/internal/apperrors"
	"github.com/dollarsbank/ledger/internal/core/domain"
	portsrepo "github.com/dollarsbank/ledger/internal/core/ports/repositories"
	"github.com/dollarsbank/ledger/internal/dto"
	"github.com/dollarsbank/ledger/internal/middleware"
	"github.com/dollarsbank/ledger/internal/platform/metrics"
	"github.com/dollarsbank/ledger/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuthService handles account registration and session establishment. Login
// returns an explicit session token; no service-side session pointer exists,
// so concurrent sessions are representable.
type AuthService struct {
	accountRepo portsrepo.AccountRepository
	pinHasher   utils.PINHasher
	jwtSecret   string
	jwtExpiry   time.Duration
	jwtIssuer   string
}

// NewAuthService wires the auth service with its repository, PIN seam and
// token signing parameters.
func NewAuthService(repo portsrepo.AccountRepository, pinHasher utils.PINHasher, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) *AuthService {
	return &AuthService{
		accountRepo: repo,
		pinHasher:   pinHasher,
		jwtSecret:   jwtSecret,
		jwtExpiry:   jwtExpiry,
		jwtIssuer:   jwtIssuer,
	}
}

// Register opens a new account. The account is constructed together with its
// initial-balance transaction, so it enters the directory fully formed or not
// at all. A duplicate email rejects the whole operation.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	initialBalance, err := decimal.NewFromString(req.InitialBalance)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid initial balance %q", apperrors.ErrValidation, req.InitialBalance)
	}

	storedPIN, err := s.pinHasher.Hash(req.PIN)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare PIN for storage: %w", err)
	}

	account, err := domain.NewAccount(uuid.NewString(), req.Email, req.Name, storedPIN, initialBalance)
	if err != nil {
		metrics.OperationsRejected.WithLabelValues("invalid_amount").Inc()
		return nil, err
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			metrics.OperationsRejected.WithLabelValues("duplicate_email").Inc()
			logger.Warn("Registration rejected, email already in use", slog.String("email", req.Email))
		} else {
			logger.Error("Failed to save account in repository", slog.String("error", err.Error()))
		}
		return nil, err
	}

	metrics.TransactionsCommitted.WithLabelValues("initial_balance").Inc()
	logger.Info("Account registered",
		slog.String("account_id", account.AccountID),
		slog.String("account_number", account.AccountNumber),
	)
	return account, nil
}

// Login authenticates an email/PIN pair and issues a session token. A miss on
// either credential yields the same ErrAuthFailed, leaving no session behind.
func (s *AuthService) Login(ctx context.Context, email, pin string) (string, *domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.OperationsRejected.WithLabelValues("auth_failed").Inc()
			return "", nil, fmt.Errorf("%w: unknown email or wrong PIN", apperrors.ErrAuthFailed)
		}
		logger.Error("Failed to look up account for login", slog.String("error", err.Error()))
		return "", nil, err
	}

	if !s.pinHasher.Verify(pin, account.PIN) {
		metrics.OperationsRejected.WithLabelValues("auth_failed").Inc()
		logger.Warn("Login rejected, PIN mismatch", slog.String("account_id", account.AccountID))
		return "", nil, fmt.Errorf("%w: unknown email or wrong PIN", apperrors.ErrAuthFailed)
	}

	token, err := utils.GenerateJWT(account.AccountID, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		logger.Error("Failed to sign session token", slog.String("error", err.Error()))
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	logger.Info("Session established", slog.String("account_id", account.AccountID))
	return token, account, nil
}
