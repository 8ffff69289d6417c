package services

import (
	"context"

	"github.com/dollarsbank/ledger/internal/core/domain"
	"github.com/dollarsbank/ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// AuthSvc covers the operations available without a session.
type AuthSvc interface {
	// Register creates a new account with its initial-balance transaction.
	// Returns apperrors.ErrDuplicate if the email is already in use.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error)

	// Login authenticates an email/PIN pair and returns a signed session
	// token plus the authenticated account. A failed match returns
	// apperrors.ErrAuthFailed without establishing a session.
	Login(ctx context.Context, email, pin string) (string, *domain.Account, error)
}

// BankReaderSvc covers session-scoped read operations. Every method fails with
// apperrors.ErrNoSession when accountID does not resolve to a live session.
type BankReaderSvc interface {
	// Balance returns the current balance of the authenticated account.
	Balance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// AccountInfo returns the PIN-free summary of the authenticated account.
	AccountInfo(ctx context.Context, accountID string) (*domain.AccountSummary, error)

	// RecentTransactions returns the last five transactions, most recent first.
	RecentTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// LastTransaction returns the most recently committed transaction.
	LastTransaction(ctx context.Context, accountID string) (*domain.Transaction, error)

	// ListOtherAccounts returns summaries of every account except the
	// authenticated one, as transfer destinations.
	ListOtherAccounts(ctx context.Context, accountID string) ([]domain.AccountSummary, error)
}

// BankWriterSvc covers session-scoped mutations.
type BankWriterSvc interface {
	// Deposit credits the authenticated account. Non-positive amounts are
	// rejected with apperrors.ErrValidation before reaching the ledger.
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error)

	// Withdraw debits the authenticated account. Non-positive amounts are
	// rejected; an amount exceeding the balance returns apperrors.ErrOverdraft.
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error)

	// Transfer moves amount from the authenticated account to the account
	// with the given customer-facing number. Both legs commit atomically;
	// the returned transaction is the committed source leg.
	Transfer(ctx context.Context, accountID, targetNumber string, amount decimal.Decimal) (*domain.Transaction, error)

	// UpdatePIN replaces the PIN after verifying the old one, which fails
	// with apperrors.ErrAuthFailed on mismatch.
	UpdatePIN(ctx context.Context, accountID, oldPIN, newPIN string) error
}

// BankSvcFacade combines all session-scoped ledger operations.
type BankSvcFacade interface {
	BankReaderSvc
	BankWriterSvc
}
