package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dollarsbank/ledger/internal/apperrors"
	"github.com/dollarsbank/ledger/internal/core/domain"
	portsrepo "github.com/dollarsbank/ledger/internal/core/ports/repositories"
	"github.com/dollarsbank/ledger/internal/middleware"
	"github.com/dollarsbank/ledger/internal/platform/metrics"
	"github.com/dollarsbank/ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// BankService implements every session-scoped ledger operation. The session
// is an explicit parameter (the account ID resolved from the caller's token)
// rather than shared service state.
type BankService struct {
	accountRepo portsrepo.AccountRepository
	pinHasher   utils.PINHasher
}

// NewBankService wires the bank service with its repository and PIN seam.
func NewBankService(repo portsrepo.AccountRepository, pinHasher utils.PINHasher) *BankService {
	return &BankService{accountRepo: repo, pinHasher: pinHasher}
}

// requireSession resolves the session's account, translating a missing or
// stale session into ErrNoSession.
func (s *BankService) requireSession(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, apperrors.ErrNoSession
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s no longer resolves", apperrors.ErrNoSession, accountID)
		}
		return nil, err
	}
	return account, nil
}

// Balance returns the authenticated account's current balance.
func (s *BankService) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.requireSession(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// AccountInfo returns the PIN-free summary of the authenticated account.
func (s *BankService) AccountInfo(ctx context.Context, accountID string) (*domain.AccountSummary, error) {
	account, err := s.requireSession(ctx, accountID)
	if err != nil {
		return nil, err
	}
	summary := account.Summary()
	return &summary, nil
}

// RecentTransactions returns the last five transactions, most recent first.
// The zero-transaction case cannot arise for accounts built by Register and
// is reported as ErrNotFound defensively.
func (s *BankService) RecentTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	account, err := s.requireSession(ctx, accountID)
	if err != nil {
		return nil, err
	}
	recent := account.RecentTransactions(domain.DefaultRecentTransactions)
	if recent == nil {
		return nil, fmt.Errorf("%w: account has no transactions", apperrors.ErrNotFound)
	}
	return recent, nil
}

// LastTransaction returns the most recently committed transaction, used to
// report the committed leg of a transfer back to the caller.
func (s *BankService) LastTransaction(ctx context.Context, accountID string) (*domain.Transaction, error) {
	account, err := s.requireSession(ctx, accountID)
	if err != nil {
		return nil, err
	}
	last := account.LastTransaction()
	if last == nil {
		return nil, fmt.Errorf("%w: account has no transactions", apperrors.ErrNotFound)
	}
	return last, nil
}

// ListOtherAccounts returns summaries of every account except the
// authenticated one, in the directory's natural order.
func (s *BankService) ListOtherAccounts(ctx context.Context, accountID string) ([]domain.AccountSummary, error) {
	if _, err := s.requireSession(ctx, accountID); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	summaries := make([]domain.AccountSummary, 0, len(accounts))
	for i := range accounts {
		if accounts[i].AccountID == accountID {
			continue
		}
		summaries = append(summaries, accounts[i].Summary())
	}
	return summaries, nil
}

// Deposit credits the authenticated account. The amount must be strictly
// positive; zero and negative amounts are rejected here before the ledger's
// own sign handling is reached.
func (s *BankService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if accountID == "" {
		return nil, apperrors.ErrNoSession
	}
	if !amount.IsPositive() {
		metrics.OperationsRejected.WithLabelValues("invalid_amount").Inc()
		return nil, fmt.Errorf("%w: deposit amount must be positive", apperrors.ErrValidation)
	}

	message := fmt.Sprintf("Deposit of $%s", amount.StringFixed(2))
	var tx *domain.Transaction
	err := s.accountRepo.UpdateAccount(ctx, accountID, func(a *domain.Account) error {
		applied, err := a.Apply(amount, message)
		tx = applied
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s no longer resolves", apperrors.ErrNoSession, accountID)
		}
		return nil, err
	}

	metrics.TransactionsCommitted.WithLabelValues("deposit").Inc()
	logger.Info("Deposit committed", slog.String("account_id", accountID), slog.String("amount", amount.StringFixed(2)))
	return tx, nil
}

// Withdraw debits the authenticated account. The recorded amount is negative
// and the message carries the same signed value, so log text and ledger agree.
func (s *BankService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if accountID == "" {
		return nil, apperrors.ErrNoSession
	}
	if !amount.IsPositive() {
		metrics.OperationsRejected.WithLabelValues("invalid_amount").Inc()
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", apperrors.ErrValidation)
	}

	debit := amount.Neg()
	message := fmt.Sprintf("Withdrawal of $%s", debit.StringFixed(2))
	var tx *domain.Transaction
	err := s.accountRepo.UpdateAccount(ctx, accountID, func(a *domain.Account) error {
		applied, err := a.Apply(debit, message)
		tx = applied
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s no longer resolves", apperrors.ErrNoSession, accountID)
		}
		if errors.Is(err, apperrors.ErrOverdraft) {
			metrics.OperationsRejected.WithLabelValues("overdraft").Inc()
			logger.Warn("Withdrawal rejected, overdraft", slog.String("account_id", accountID), slog.String("amount", amount.StringFixed(2)))
		}
		return nil, err
	}

	metrics.TransactionsCommitted.WithLabelValues("withdrawal").Inc()
	logger.Info("Withdrawal committed", slog.String("account_id", accountID), slog.String("amount", amount.StringFixed(2)))
	return tx, nil
}

// Transfer moves amount from the authenticated account to the account with
// the given customer-facing number. Both legs run in one critical section and
// commit together or not at all; the returned transaction is the source leg.
//
// Policy notes carried over from the ledger's history: the availability check
// is strictly greater-than (a transfer of the exact balance is rejected), and
// a zero amount is rejected like any other non-positive amount rather than
// recording a null-effect pair.
func (s *BankService) Transfer(ctx context.Context, accountID, targetNumber string, amount decimal.Decimal) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if _, err := s.requireSession(ctx, accountID); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		metrics.OperationsRejected.WithLabelValues("invalid_amount").Inc()
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}

	var sourceTx *domain.Transaction
	err := s.accountRepo.UpdateAccountPair(ctx, accountID, targetNumber, func(source, target *domain.Account) error {
		if !source.Balance.GreaterThan(amount) {
			return fmt.Errorf("%w: insufficient funds for transfer of %s", apperrors.ErrOverdraft, amount.StringFixed(2))
		}
		debit, err := source.Apply(amount.Neg(), "Transfer to "+target.Email)
		if err != nil {
			return err
		}
		if _, err := target.Apply(amount, "Transfer from "+source.Email); err != nil {
			// Unreachable for a positive credit; the repository discards the
			// staged debit if it ever fires.
			return err
		}
		sourceTx = debit
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrOverdraft):
			metrics.OperationsRejected.WithLabelValues("overdraft").Inc()
			logger.Warn("Transfer rejected, insufficient funds", slog.String("account_id", accountID), slog.String("amount", amount.StringFixed(2)))
		case errors.Is(err, apperrors.ErrNotFound):
			metrics.OperationsRejected.WithLabelValues("not_found").Inc()
			logger.Warn("Transfer rejected, unknown target", slog.String("target_account_number", targetNumber))
		}
		return nil, err
	}

	metrics.TransactionsCommitted.WithLabelValues("transfer_debit").Inc()
	metrics.TransactionsCommitted.WithLabelValues("transfer_credit").Inc()
	logger.Info("Transfer committed",
		slog.String("account_id", accountID),
		slog.String("target_account_number", targetNumber),
		slog.String("amount", amount.StringFixed(2)),
	)
	return sourceTx, nil
}

// UpdatePIN replaces the stored PIN after verifying the old one in place.
// Format validation of the new PIN is the caller's responsibility.
func (s *BankService) UpdatePIN(ctx context.Context, accountID, oldPIN, newPIN string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if accountID == "" {
		return apperrors.ErrNoSession
	}

	err := s.accountRepo.UpdateAccount(ctx, accountID, func(a *domain.Account) error {
		if !s.pinHasher.Verify(oldPIN, a.PIN) {
			return fmt.Errorf("%w: old PIN incorrect", apperrors.ErrAuthFailed)
		}
		stored, err := s.pinHasher.Hash(newPIN)
		if err != nil {
			return fmt.Errorf("failed to prepare PIN for storage: %w", err)
		}
		a.PIN = stored
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: account %s no longer resolves", apperrors.ErrNoSession, accountID)
		}
		if errors.Is(err, apperrors.ErrAuthFailed) {
			metrics.OperationsRejected.WithLabelValues("auth_failed").Inc()
		}
		return err
	}

	logger.Info("PIN updated", slog.String("account_id", accountID))
	return nil
}
