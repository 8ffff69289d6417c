package repositories

import (
	"context"

	"github.com/dollarsbank/ledger/internal/core/domain"
)

// AccountReader defines read operations over the account directory. Reads
// return copies; callers never observe a half-applied mutation.
type AccountReader interface {
	// FindAccountByID retrieves an account by its primary identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its customer-facing number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// FindAccountByEmail retrieves an account by its email (case-sensitive exact match).
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// ListAccounts returns every account in the directory's natural order.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount stores a newly constructed account, assigning its unique
	// customer-facing number. Returns apperrors.ErrDuplicate if the email is
	// already taken.
	SaveAccount(ctx context.Context, account *domain.Account) error
}

// AccountMutator supports atomic balance mutation. Each callback runs inside
// the store's critical section; if it returns an error, no change it made
// becomes visible. The two-account form exists so a transfer's debit and
// credit legs commit together or not at all.
type AccountMutator interface {
	// UpdateAccount applies fn to the account identified by accountID.
	UpdateAccount(ctx context.Context, accountID string, fn func(*domain.Account) error) error

	// UpdateAccountPair resolves the source account by ID and the target by
	// customer-facing number, then applies fn to both atomically.
	UpdateAccountPair(ctx context.Context, sourceID, targetNumber string, fn func(source, target *domain.Account) error) error
}

// AccountRepository combines all account directory operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
	AccountMutator
}
