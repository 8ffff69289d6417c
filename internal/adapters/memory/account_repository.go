// Package memory implements the account repository ports over process-local
// state. It is the only storage backend: durable persistence is out of scope
// for this service, so the directory lives and dies with the process.
package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/dollarsbank/ledger/internal/apperrors"
	"github.com/dollarsbank/ledger/internal/core/domain"
)

// accountNumberSpace bounds the customer-facing identifier range (8 digits).
// The space is far larger than any expected account count, so the
// draw-and-check loop below terminates quickly in practice.
const (
	accountNumberMin  = 10_000_000
	accountNumberSpan = 90_000_000
)

// AccountRepository is an in-memory account directory guarded by a single
// mutex. All mutations, including both legs of a transfer, run inside one
// critical section, so no reader can observe a half-applied operation.
type AccountRepository struct {
	mu       sync.RWMutex
	byID     map[string]*domain.Account
	byNumber map[string]string // account number -> account ID
	byEmail  map[string]string // email -> account ID
	order    []string          // insertion order of account IDs
}

// NewAccountRepository returns an empty in-memory account directory.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:     make(map[string]*domain.Account),
		byNumber: make(map[string]string),
		byEmail:  make(map[string]string),
	}
}

// SaveAccount stores a new account, enforcing email uniqueness and assigning
// a fresh customer-facing number. Number generation draws uniformly from the
// 8-digit space and redraws on collision; insertion happens under the same
// lock, so two concurrent saves cannot race the uniqueness checks.
func (r *AccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.Email]; exists {
		return fmt.Errorf("%w: email %s already registered", apperrors.ErrDuplicate, account.Email)
	}
	if _, exists := r.byID[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s already stored", apperrors.ErrDuplicate, account.AccountID)
	}

	number := r.nextAccountNumberLocked()
	account.AccountNumber = number

	stored := account.Clone()
	r.byID[stored.AccountID] = stored
	r.byNumber[number] = stored.AccountID
	r.byEmail[stored.Email] = stored.AccountID
	r.order = append(r.order, stored.AccountID)
	return nil
}

func (r *AccountRepository) nextAccountNumberLocked() string {
	for {
		candidate := fmt.Sprintf("%08d", accountNumberMin+rand.Intn(accountNumberSpan))
		if _, taken := r.byNumber[candidate]; !taken {
			return candidate
		}
	}
}

// FindAccountByID retrieves a copy of the account with the given primary ID.
func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return a.Clone(), nil
}

// FindAccountByNumber retrieves a copy by customer-facing number.
func (r *AccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byNumber[accountNumber]
	if !ok {
		return nil, fmt.Errorf("%w: account number %s", apperrors.ErrNotFound, accountNumber)
	}
	return r.byID[id].Clone(), nil
}

// FindAccountByEmail retrieves a copy by exact email match.
func (r *AccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("%w: email %s", apperrors.ErrNotFound, email)
	}
	return r.byID[id].Clone(), nil
}

// ListAccounts returns copies of every account in insertion order.
func (r *AccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Account, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id].Clone())
	}
	return out, nil
}

// UpdateAccount applies fn to a working copy of the account under the write
// lock and swaps the copy in only when fn succeeds, so a rejected mutation
// leaves no trace.
func (r *AccountRepository) UpdateAccount(ctx context.Context, accountID string, fn func(*domain.Account) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return err
	}
	r.byID[accountID] = working
	return nil
}

// UpdateAccountPair applies fn to working copies of the source (by ID) and
// target (by number) accounts and commits both together, or neither. This is
// the atomicity guarantee behind transfers: an error from fn, no matter after
// which leg, discards all staged changes.
func (r *AccountRepository) UpdateAccountPair(ctx context.Context, sourceID, targetNumber string, fn func(source, target *domain.Account) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	source, ok := r.byID[sourceID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, sourceID)
	}
	targetID, ok := r.byNumber[targetNumber]
	if !ok {
		return fmt.Errorf("%w: account number %s", apperrors.ErrNotFound, targetNumber)
	}
	if targetID == sourceID {
		return fmt.Errorf("%w: source and target are the same account", apperrors.ErrValidation)
	}
	target := r.byID[targetID]

	workingSource := source.Clone()
	workingTarget := target.Clone()
	if err := fn(workingSource, workingTarget); err != nil {
		return err
	}
	r.byID[sourceID] = workingSource
	r.byID[targetID] = workingTarget
	return nil
}
