package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dollarsbank/ledger/internal/adapters/memory"
	"github.com/dollarsbank/ledger/internal/apperrors"
	"github.com/dollarsbank/ledger/internal/core/domain"
	portsrepo "github.com/dollarsbank/ledger/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ portsrepo.AccountRepository = (*memory.AccountRepository)(nil)

func newAccount(t *testing.T, email string, balance string) *domain.Account {
	t.Helper()
	a, err := domain.NewAccount(uuid.NewString(), email, "Test User", "1234", decimal.RequireFromString(balance))
	require.NoError(t, err)
	return a
}

func TestSaveAccount_AssignsUniqueNumber(t *testing.T) {
	repo := memory.NewAccountRepository()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		a := newAccount(t, fmt.Sprintf("user%d@b.com", i), "10.00")
		require.NoError(t, repo.SaveAccount(ctx, a))
		require.Len(t, a.AccountNumber, 8)
		assert.False(t, seen[a.AccountNumber], "account numbers must be unique")
		seen[a.AccountNumber] = true
	}
}

func TestSaveAccount_DuplicateEmail(t *testing.T) {
	repo := memory.NewAccountRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveAccount(ctx, newAccount(t, "a@b.com", "10.00")))

	err := repo.SaveAccount(ctx, newAccount(t, "a@b.com", "20.00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	accounts, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestFindAccount_Lookups(t *testing.T) {
	repo := memory.NewAccountRepository()
	ctx := context.Background()
	a := newAccount(t, "a@b.com", "10.00")
	require.NoError(t, repo.SaveAccount(ctx, a))

	byID, err := repo.FindAccountByID(ctx, a.AccountID)
	require.NoError(t, err)
	assert.Equal(t, a.Email, byID.Email)

	byNumber, err := repo.FindAccountByNumber(ctx, a.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, a.AccountID, byNumber.AccountID)

	byEmail, err := repo.FindAccountByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, a.AccountID, byEmail.AccountID)

	_, err = repo.FindAccountByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.FindAccountByEmail(ctx, "A@B.COM")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "email matching is case-sensitive")
}

func TestFindAccount_ReturnsCopies(t *testing.T) {
	repo := memory.NewAccountRepository()
	ctx := context.Background()
	a := newAccount(t, "a@b.com", "10.00")
	require.NoError(t, repo.SaveAccount(ctx, a))

	got, err := repo.FindAccountByID(ctx, a.AccountID)
	require.NoError(t, err)
	got.Balance = decimal.NewFromInt(999)
	got.Transactions = append(got.Transactions, domain.Transaction{})

	fresh, err := repo.FindAccountByID(ctx, a.AccountID)
	require.NoError(t, err)
	assert.True(t, fresh.Balance.Equal(decimal.RequireFromString("10.00")))
	assert.Len(t, fresh.Transactions, 1)
}

func TestListAccounts_InsertionOrder(t *testing.T) {
	repo := memory.NewAccountRepository()
	ctx := context.Background()

	for _, email := range []string{"a@b.com", "b@b.com", "c@b.com"} {
		require.NoError(t, repo.SaveAccount(ctx, newAccount(t, email, "10.00")))
	}

	accounts, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "a@b.com", accounts[0].Email)
	assert.Equal(t, "b@b.com", accounts[1].Email)
	assert.Equal(t, "c@b.com", accounts[2].Email)
}

func TestUpdateAccount_DiscardsOnError(t *testing.T) {
	repo := memory.NewAccountRepository()
	ctx := context.Background()
	a := newAccount(t, "a@b.com", "10.00")
	require.NoError(t, repo.SaveAccount(ctx, a))

	err := repo.UpdateAccount(ctx, a.AccountID, func(acc *domain.Account) error {
		if _, applyErr := acc.Apply(decimal.NewFromInt(5), "staged"); applyErr != nil {
			return applyErr
		}
		return fmt.Errorf("callback failed after mutation")
	})
	require.Error(t, err)

	fresh, err := repo.FindAccountByID(ctx, a.AccountID)
	require.NoError(t, err)
	assert.True(t, fresh.Balance.Equal(decimal.RequireFromString("10.00")), "failed callback must leave no trace")
	assert.Len(t, fresh.Transactions, 1)
}

func TestUpdateAccountPair_CommitsBothOrNeither(t *testing.T) {
	repo := memory.NewAccountRepository()
	ctx := context.Background()
	src := newAccount(t, "a@b.com", "100.00")
	dst := newAccount(t, "b@b.com", "10.00")
	require.NoError(t, repo.SaveAccount(ctx, src))
	require.NoError(t, repo.SaveAccount(ctx, dst))

	// Error after the first leg: nothing commits.
	err := repo.UpdateAccountPair(ctx, src.AccountID, dst.AccountNumber, func(source, target *domain.Account) error {
		if _, applyErr := source.Apply(decimal.NewFromInt(-30), "debit leg"); applyErr != nil {
			return applyErr
		}
		return fmt.Errorf("credit leg failed")
	})
	require.Error(t, err)

	freshSrc, err := repo.FindAccountByID(ctx, src.AccountID)
	require.NoError(t, err)
	freshDst, err := repo.FindAccountByID(ctx, dst.AccountID)
	require.NoError(t, err)
	assert.True(t, freshSrc.Balance.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, freshDst.Balance.Equal(decimal.RequireFromString("10.00")))

	// Success: both commit.
	err = repo.UpdateAccountPair(ctx, src.AccountID, dst.AccountNumber, func(source, target *domain.Account) error {
		if _, applyErr := source.Apply(decimal.NewFromInt(-30), "debit leg"); applyErr != nil {
			return applyErr
		}
		_, applyErr := target.Apply(decimal.NewFromInt(30), "credit leg")
		return applyErr
	})
	require.NoError(t, err)

	freshSrc, err = repo.FindAccountByID(ctx, src.AccountID)
	require.NoError(t, err)
	freshDst, err = repo.FindAccountByID(ctx, dst.AccountID)
	require.NoError(t, err)
	assert.True(t, freshSrc.Balance.Equal(decimal.RequireFromString("70.00")))
	assert.True(t, freshDst.Balance.Equal(decimal.RequireFromString("40.00")))
}

func TestUpdateAccountPair_SelfTransferRejected(t *testing.T) {
	repo := memory.NewAccountRepository()
	ctx := context.Background()
	a := newAccount(t, "a@b.com", "100.00")
	require.NoError(t, repo.SaveAccount(ctx, a))

	err := repo.UpdateAccountPair(ctx, a.AccountID, a.AccountNumber, func(source, target *domain.Account) error {
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateAccount_ConcurrentMutationsSerialize(t *testing.T) {
	repo := memory.NewAccountRepository()
	ctx := context.Background()
	a := newAccount(t, "a@b.com", "0.00")
	require.NoError(t, repo.SaveAccount(ctx, a))

	const workers = 8
	const depositsEach = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < depositsEach; i++ {
				_ = repo.UpdateAccount(ctx, a.AccountID, func(acc *domain.Account) error {
					_, err := acc.Apply(decimal.NewFromInt(1), "concurrent deposit")
					return err
				})
			}
		}()
	}
	wg.Wait()

	fresh, err := repo.FindAccountByID(ctx, a.AccountID)
	require.NoError(t, err)
	assert.True(t, fresh.Balance.Equal(decimal.NewFromInt(workers*depositsEach)))
	assert.Len(t, fresh.Transactions, workers*depositsEach+1)
}
