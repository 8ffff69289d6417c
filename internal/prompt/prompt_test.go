package prompt_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dollarsbank/ledger/internal/adapters/memory"
	"github.com/dollarsbank/ledger/internal/core/services"
	"github.com/dollarsbank/ledger/internal/dto"
	"github.com/dollarsbank/ledger/internal/prompt"
	"github.com/dollarsbank/ledger/internal/utils"
	"github.com/fatih/color"
	"github.com/stretchr/testify/suite"
)

type PromptTestSuite struct {
	suite.Suite
	authService *services.AuthService
	bankService *services.BankService
}

func (suite *PromptTestSuite) SetupTest() {
	color.NoColor = true
	repo := memory.NewAccountRepository()
	hasher := utils.PlaintextPINHasher{}
	suite.authService = services.NewAuthService(repo, hasher, "test-secret-key-that-is-long-enough", time.Hour, "dollarsbank-test")
	suite.bankService = services.NewBankService(repo, hasher)
}

func registerReq(name, email, initialBalance string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:          email,
		Name:           name,
		PIN:            "0000",
		InitialBalance: initialBalance,
	}
}

// run feeds the scripted lines to the CLI and returns everything it printed.
func (suite *PromptTestSuite) run(lines ...string) string {
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	cli := prompt.New(in, &out, suite.authService, suite.bankService)
	suite.NoError(cli.Run(context.Background()))
	return out.String()
}

func (suite *PromptTestSuite) TestRegisterLoginDepositWithdraw() {
	out := suite.run(
		"1", // register
		"Dave", "dave@example.com", "1234", "1234", "100.00",
		"2", // login
		"dave@example.com", "1234",
		"1",          // balance
		"2", "25.50", // deposit
		"3", "30.00", // withdraw
		"5", // recent transactions
		"8", // sign out
		"3", // exit
	)

	suite.Contains(out, "Account created!")
	suite.Contains(out, "Welcome back, Dave!")
	suite.Contains(out, "Current balance: $100.00")
	suite.Contains(out, "Deposit of $25.50 New balance: $125.50")
	suite.Contains(out, "Withdrawal of $-30.00 New balance: $95.50")
	suite.Contains(out, "Initial balance.")
	suite.Contains(out, "Signed out.")
	suite.Contains(out, "Goodbye!")
}

func (suite *PromptTestSuite) TestWithdrawRejectedOnInsufficientFunds() {
	out := suite.run(
		"1",
		"Dave", "dave@example.com", "1234", "1234", "20.00",
		"2",
		"dave@example.com", "1234",
		"3", "50.00", // withdraw more than the balance
		"1", // balance unchanged
		"8",
		"3",
	)

	suite.Contains(out, "Insufficient funds for this withdrawal.")
	suite.Contains(out, "Current balance: $20.00")
}

func (suite *PromptTestSuite) TestTransferBetweenAccounts() {
	// Seed the destination account directly through the service.
	target, err := suite.authService.Register(context.Background(), registerReq("Carol", "carol@example.com", "10.00"))
	suite.Require().NoError(err)

	out := suite.run(
		"1",
		"Dave", "dave@example.com", "1234", "1234", "100.00",
		"2",
		"dave@example.com", "1234",
		"4", target.AccountNumber, "30.00",
		"1",
		"8",
		"3",
	)

	suite.Contains(out, "carol@example.com")
	suite.Contains(out, "Transfer to carol@example.com New balance: $70.00")
	suite.Contains(out, "Current balance: $70.00")

	balance, err := suite.bankService.Balance(context.Background(), target.AccountID)
	suite.NoError(err)
	suite.Equal("40.00", balance.StringFixed(2))
}

func (suite *PromptTestSuite) TestLoginLockedOutAfterThreeAttempts() {
	out := suite.run(
		"1",
		"Dave", "dave@example.com", "1234", "1234", "20.00",
		"2",
		"dave@example.com", "9999",
		"dave@example.com", "8888",
		"dave@example.com", "7777",
		"3",
	)

	suite.Contains(out, "Invalid email or PIN (3 of 3 attempts).")
	suite.Contains(out, "Too many failed attempts, returning to the main menu.")
	suite.NotContains(out, "Welcome back")
}

func (suite *PromptTestSuite) TestRegisterRejectsMismatchedPINs() {
	out := suite.run(
		"1",
		"Dave", "dave@example.com", "1234", "4321",
		"3",
	)

	suite.Contains(out, "PINs do not match.")
	suite.NotContains(out, "Account created!")
}

func (suite *PromptTestSuite) TestChangePINThenLoginWithNewPIN() {
	out := suite.run(
		"1",
		"Dave", "dave@example.com", "1234", "1234", "20.00",
		"2",
		"dave@example.com", "1234",
		"7", "1234", "5678", "5678",
		"8",
		"2",
		"dave@example.com", "5678",
		"8",
		"3",
	)

	suite.Contains(out, "PIN changed.")
	suite.Equal(2, strings.Count(out, "Welcome back, Dave!"))
}

func TestPrompt(t *testing.T) {
	suite.Run(t, new(PromptTestSuite))
}
