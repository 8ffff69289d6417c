package domain

import (
	"fmt"
	"time"

	"github.com/dollarsbank/ledger/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InitialBalanceMessage tags the seed transaction created at account construction.
const InitialBalanceMessage = "Initial balance."

// DefaultRecentTransactions is how many transactions a recent-history query
// returns unless told otherwise.
const DefaultRecentTransactions = 5

// Account is the ledger primitive: one customer's balance together with the
// append-only transaction log that produced it. Balance always equals the
// NewBalance of the last transaction and never goes negative.
//
// Account itself carries no synchronization; callers mutate it only through
// the repository, which serializes access.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary key (UUID)
	AccountNumber string          `json:"accountNumber"` // Customer-facing 8-digit identifier
	Email         string          `json:"email"`         // Globally unique
	Name          string          `json:"name"`
	PIN           string          `json:"-"` // Stored credential; never serialized
	Balance       decimal.Decimal `json:"balance"`
	Transactions  []Transaction   `json:"-"` // Append-only, insertion order = chronological
	CreatedAt     time.Time       `json:"createdAt"`
}

// AccountSummary is the PIN-free view of an account handed to other sessions.
type AccountSummary struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	AccountNumber string `json:"accountNumber"`
}

// NewAccount constructs an account and synthesizes its seed transaction in one
// step, so a zero-transaction account is never visible to callers. The stored
// PIN is whatever credential form the service hands in (plaintext or hashed).
// A negative initial balance fails construction with ErrValidation.
func NewAccount(accountID, email, name, pin string, initialBalance decimal.Decimal) (*Account, error) {
	if initialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", apperrors.ErrValidation)
	}
	a := &Account{
		AccountID: accountID,
		Email:     email,
		Name:      name,
		PIN:       pin,
		Balance:   decimal.Zero,
		CreatedAt: time.Now(),
	}
	// The seed record is written unconditionally, even for a zero initial
	// balance, so the balance-equals-last-NewBalance invariant holds from birth.
	a.record(decimal.Zero, initialBalance, InitialBalanceMessage)
	return a, nil
}

// Apply is the only operation that mutates the balance.
//
//   - amount > 0 credits the account and always succeeds.
//   - amount < 0 debits the account; if the result would be negative the
//     operation is rejected with ErrOverdraft and nothing changes.
//   - amount == 0 is a no-op success: (nil, nil), no record appended. Callers
//     must not treat the nil transaction as a rejection.
func (a *Account) Apply(amount decimal.Decimal, message string) (*Transaction, error) {
	if amount.IsZero() {
		return nil, nil
	}
	if a.Balance.Add(amount).IsNegative() {
		return nil, fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrOverdraft, a.Balance.StringFixed(2), amount.StringFixed(2))
	}
	return a.record(a.Balance, amount, message), nil
}

// record appends a transaction reflecting an already-validated balance change.
func (a *Account) record(previous, amount decimal.Decimal, message string) *Transaction {
	a.Balance = previous.Add(amount)
	tx := Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       a.AccountID,
		PreviousBalance: previous,
		Amount:          amount,
		NewBalance:      a.Balance,
		Timestamp:       time.Now(),
		Message:         message,
	}
	a.Transactions = append(a.Transactions, tx)
	return &tx
}

// RecentTransactions returns the last n transactions most-recent-first, or all
// of them if fewer exist. An account with no transactions returns nil; that
// cannot happen for accounts built through NewAccount and is handled only
// defensively.
func (a *Account) RecentTransactions(n int) []Transaction {
	if len(a.Transactions) == 0 {
		return nil
	}
	if n > len(a.Transactions) {
		n = len(a.Transactions)
	}
	out := make([]Transaction, 0, n)
	for i := len(a.Transactions) - 1; i >= len(a.Transactions)-n; i-- {
		out = append(out, a.Transactions[i])
	}
	return out
}

// LastTransaction returns the most recently appended transaction, or nil for
// the defensive empty-log case.
func (a *Account) LastTransaction() *Transaction {
	if len(a.Transactions) == 0 {
		return nil
	}
	tx := a.Transactions[len(a.Transactions)-1]
	return &tx
}

// Summary returns the account's name, email and customer-facing number. The
// PIN is deliberately excluded and must never be exposed through this view.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		Name:          a.Name,
		Email:         a.Email,
		AccountNumber: a.AccountNumber,
	}
}

// Clone returns a deep copy safe to hand outside the repository lock.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Transactions = make([]Transaction, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return &cp
}
