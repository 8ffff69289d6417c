package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/dollarsbank/ledger/internal/adapters/memory"
	"github.com/dollarsbank/ledger/internal/apperrors"
	"github.com/dollarsbank/ledger/internal/core/domain"
	portssvc "github.com/dollarsbank/ledger/internal/core/ports/services"
	"github.com/dollarsbank/ledger/internal/core/services"
	"github.com/dollarsbank/ledger/internal/dto"
	"github.com/dollarsbank/ledger/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// Ensure the concrete services satisfy their ports.
var (
	_ portssvc.AuthSvc       = (*services.AuthService)(nil)
	_ portssvc.BankSvcFacade = (*services.BankService)(nil)
)

type BankServiceTestSuite struct {
	suite.Suite
	ctx  context.Context
	repo *memory.AccountRepository
	auth *services.AuthService
	bank *services.BankService
}

func (s *BankServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = memory.NewAccountRepository()
	hasher := utils.PlaintextPINHasher{}
	s.auth = services.NewAuthService(s.repo, hasher, "test-secret", time.Hour, "dollarsbank-test")
	s.bank = services.NewBankService(s.repo, hasher)
}

func (s *BankServiceTestSuite) register(email, name, pin, initial string) *domain.Account {
	s.T().Helper()
	account, err := s.auth.Register(s.ctx, dto.RegisterRequest{
		Email:          email,
		Name:           name,
		PIN:            pin,
		InitialBalance: initial,
	})
	s.Require().NoError(err)
	s.Require().NotNil(account)
	return account
}

func (s *BankServiceTestSuite) balanceOf(accountID string) decimal.Decimal {
	s.T().Helper()
	balance, err := s.bank.Balance(s.ctx, accountID)
	s.Require().NoError(err)
	return balance
}

func (s *BankServiceTestSuite) TestDeposit_Success() {
	a := s.register("a@b.com", "Alice", "1234", "100.00")

	tx, err := s.bank.Deposit(s.ctx, a.AccountID, decimal.RequireFromString("25.50"))

	s.Require().NoError(err)
	s.Require().NotNil(tx)
	s.Equal("Deposit of $25.50", tx.Message)
	s.True(tx.PreviousBalance.Equal(decimal.RequireFromString("100.00")))
	s.True(tx.NewBalance.Equal(decimal.RequireFromString("125.50")))
	s.True(s.balanceOf(a.AccountID).Equal(tx.NewBalance))
}

func (s *BankServiceTestSuite) TestDeposit_NonPositiveAmountRejected() {
	a := s.register("a@b.com", "Alice", "1234", "100.00")

	for _, amount := range []string{"0", "-5.00"} {
		tx, err := s.bank.Deposit(s.ctx, a.AccountID, decimal.RequireFromString(amount))
		s.Require().Error(err)
		s.ErrorIs(err, apperrors.ErrValidation)
		s.Nil(tx)
	}

	recent, err := s.bank.RecentTransactions(s.ctx, a.AccountID)
	s.Require().NoError(err)
	s.Len(recent, 1, "rejected deposits must not create transactions")
	s.True(s.balanceOf(a.AccountID).Equal(decimal.RequireFromString("100.00")))
}

func (s *BankServiceTestSuite) TestWithdraw_RecordsSignedAmount() {
	a := s.register("a@b.com", "Alice", "1234", "100.00")

	tx, err := s.bank.Withdraw(s.ctx, a.AccountID, decimal.RequireFromString("30.00"))

	s.Require().NoError(err)
	s.Require().NotNil(tx)
	s.Equal("Withdrawal of $-30.00", tx.Message)
	s.True(tx.Amount.Equal(decimal.RequireFromString("-30.00")))
	s.True(s.balanceOf(a.AccountID).Equal(decimal.RequireFromString("70.00")))
}

func (s *BankServiceTestSuite) TestWithdraw_OverdraftLeavesStateUnchanged() {
	a := s.register("a@b.com", "Alice", "1234", "100.00")

	tx, err := s.bank.Withdraw(s.ctx, a.AccountID, decimal.RequireFromString("100.01"))

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrOverdraft)
	s.Nil(tx)
	s.True(s.balanceOf(a.AccountID).Equal(decimal.RequireFromString("100.00")))

	recent, err := s.bank.RecentTransactions(s.ctx, a.AccountID)
	s.Require().NoError(err)
	s.Len(recent, 1)
}

func (s *BankServiceTestSuite) TestBalanceTracksEveryStep() {
	a := s.register("a@b.com", "Alice", "1234", "50.00")

	_, err := s.bank.Deposit(s.ctx, a.AccountID, decimal.RequireFromString("10.00"))
	s.Require().NoError(err)
	_, err = s.bank.Withdraw(s.ctx, a.AccountID, decimal.RequireFromString("60.00"))
	s.Require().NoError(err)

	last, err := s.bank.LastTransaction(s.ctx, a.AccountID)
	s.Require().NoError(err)
	s.True(last.NewBalance.IsZero())
	s.True(s.balanceOf(a.AccountID).Equal(last.NewBalance))
}

func (s *BankServiceTestSuite) TestTransfer_Success() {
	a := s.register("a@b.com", "Alice", "1234", "100.00")
	b := s.register("b@b.com", "Bob", "5678", "10.00")

	tx, err := s.bank.Transfer(s.ctx, a.AccountID, b.AccountNumber, decimal.RequireFromString("30.00"))

	s.Require().NoError(err)
	s.Require().NotNil(tx)
	s.True(s.balanceOf(a.AccountID).Equal(decimal.RequireFromString("70.00")))
	s.True(s.balanceOf(b.AccountID).Equal(decimal.RequireFromString("40.00")))

	sourceLast, err := s.bank.LastTransaction(s.ctx, a.AccountID)
	s.Require().NoError(err)
	targetLast, err := s.bank.LastTransaction(s.ctx, b.AccountID)
	s.Require().NoError(err)

	s.Equal("Transfer to b@b.com", sourceLast.Message)
	s.Equal("Transfer from a@b.com", targetLast.Message)
	s.True(sourceLast.Amount.Equal(targetLast.Amount.Neg()), "leg amounts must have opposite signs")
	s.Equal(tx.TransactionID, sourceLast.TransactionID, "returned transaction is the committed source leg")

	// Each side gains exactly one record.
	aRecent, err := s.bank.RecentTransactions(s.ctx, a.AccountID)
	s.Require().NoError(err)
	s.Len(aRecent, 2)
	bRecent, err := s.bank.RecentTransactions(s.ctx, b.AccountID)
	s.Require().NoError(err)
	s.Len(bRecent, 2)
}

func (s *BankServiceTestSuite) TestTransfer_InsufficientFundsIsAtomic() {
	a := s.register("a@b.com", "Alice", "1234", "100.00")
	b := s.register("b@b.com", "Bob", "5678", "10.00")

	tx, err := s.bank.Transfer(s.ctx, a.AccountID, b.AccountNumber, decimal.RequireFromString("200.00"))

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrOverdraft)
	s.Nil(tx)
	s.True(s.balanceOf(a.AccountID).Equal(decimal.RequireFromString("100.00")))
	s.True(s.balanceOf(b.AccountID).Equal(decimal.RequireFromString("10.00")))

	aRecent, err := s.bank.RecentTransactions(s.ctx, a.AccountID)
	s.Require().NoError(err)
	s.Len(aRecent, 1, "no partial leg may be recorded")
	bRecent, err := s.bank.RecentTransactions(s.ctx, b.AccountID)
	s.Require().NoError(err)
	s.Len(bRecent, 1)
}

func (s *BankServiceTestSuite) TestTransfer_ExactBalanceRejected() {
	// Availability check is strictly greater-than, so transferring the whole
	// balance fails even though the debit alone would be allowed.
	a := s.register("a@b.com", "Alice", "1234", "100.00")
	b := s.register("b@b.com", "Bob", "5678", "10.00")

	_, err := s.bank.Transfer(s.ctx, a.AccountID, b.AccountNumber, decimal.RequireFromString("100.00"))

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrOverdraft)
}

func (s *BankServiceTestSuite) TestTransfer_ZeroAmountRejected() {
	a := s.register("a@b.com", "Alice", "1234", "100.00")
	b := s.register("b@b.com", "Bob", "5678", "10.00")

	_, err := s.bank.Transfer(s.ctx, a.AccountID, b.AccountNumber, decimal.Zero)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BankServiceTestSuite) TestTransfer_UnknownTarget() {
	a := s.register("a@b.com", "Alice", "1234", "100.00")

	_, err := s.bank.Transfer(s.ctx, a.AccountID, "00000000", decimal.RequireFromString("10.00"))

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.True(s.balanceOf(a.AccountID).Equal(decimal.RequireFromString("100.00")))
}

func (s *BankServiceTestSuite) TestRecentTransactions_LastFiveMostRecentFirst() {
	a := s.register("a@b.com", "Alice", "1234", "100.00")
	// Seed + 6 deposits = 7 records.
	for i := 1; i <= 6; i++ {
		_, err := s.bank.Deposit(s.ctx, a.AccountID, decimal.NewFromInt(int64(i)))
		s.Require().NoError(err)
	}

	recent, err := s.bank.RecentTransactions(s.ctx, a.AccountID)

	s.Require().NoError(err)
	s.Require().Len(recent, 5)
	s.Equal("Deposit of $6.00", recent[0].Message)
	s.Equal("Deposit of $2.00", recent[4].Message)
}

func (s *BankServiceTestSuite) TestUpdatePIN() {
	a := s.register("a@b.com", "Alice", "1234", "100.00")

	err := s.bank.UpdatePIN(s.ctx, a.AccountID, "0000", "4321")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAuthFailed)

	// Old PIN still works after the failed attempt.
	_, _, err = s.auth.Login(s.ctx, "a@b.com", "1234")
	s.Require().NoError(err)

	err = s.bank.UpdatePIN(s.ctx, a.AccountID, "1234", "4321")
	s.Require().NoError(err)

	_, _, err = s.auth.Login(s.ctx, "a@b.com", "1234")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAuthFailed)
	_, _, err = s.auth.Login(s.ctx, "a@b.com", "4321")
	s.Require().NoError(err)
}

func (s *BankServiceTestSuite) TestListOtherAccounts_ExcludesSelf() {
	a := s.register("a@b.com", "Alice", "1234", "100.00")
	b := s.register("b@b.com", "Bob", "5678", "10.00")
	c := s.register("c@b.com", "Cara", "9012", "5.00")

	others, err := s.bank.ListOtherAccounts(s.ctx, a.AccountID)

	s.Require().NoError(err)
	s.Require().Len(others, 2)
	s.Equal(b.AccountNumber, others[0].AccountNumber)
	s.Equal(c.AccountNumber, others[1].AccountNumber)
}

func (s *BankServiceTestSuite) TestAccountInfo_ExcludesPIN() {
	a := s.register("a@b.com", "Alice", "1234", "100.00")

	info, err := s.bank.AccountInfo(s.ctx, a.AccountID)

	s.Require().NoError(err)
	s.Equal("Alice", info.Name)
	s.Equal("a@b.com", info.Email)
	s.Equal(a.AccountNumber, info.AccountNumber)
}

func (s *BankServiceTestSuite) TestNoSession() {
	_, err := s.bank.Balance(s.ctx, "")
	s.ErrorIs(err, apperrors.ErrNoSession)
	_, err = s.bank.Deposit(s.ctx, "", decimal.NewFromInt(1))
	s.ErrorIs(err, apperrors.ErrNoSession)
	_, err = s.bank.Withdraw(s.ctx, "", decimal.NewFromInt(1))
	s.ErrorIs(err, apperrors.ErrNoSession)
	_, err = s.bank.Transfer(s.ctx, "", "12345678", decimal.NewFromInt(1))
	s.ErrorIs(err, apperrors.ErrNoSession)
	err = s.bank.UpdatePIN(s.ctx, "", "1234", "4321")
	s.ErrorIs(err, apperrors.ErrNoSession)
	_, err = s.bank.RecentTransactions(s.ctx, "")
	s.ErrorIs(err, apperrors.ErrNoSession)
	_, err = s.bank.AccountInfo(s.ctx, "")
	s.ErrorIs(err, apperrors.ErrNoSession)
	_, err = s.bank.ListOtherAccounts(s.ctx, "")
	s.ErrorIs(err, apperrors.ErrNoSession)
}

func TestBankServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BankServiceTestSuite))
}
