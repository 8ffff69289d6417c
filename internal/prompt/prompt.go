package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dollarsbank/ledger/internal/apperrors"
	"github.com/dollarsbank/ledger/internal/core/domain"
	portssvc "github.com/dollarsbank/ledger/internal/core/ports/services"
	"github.com/dollarsbank/ledger/internal/dto"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

var (
	pinPattern    = regexp.MustCompile(`^[0-9]{4}$`)
	amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)
	numberPattern = regexp.MustCompile(`^[0-9]{8}$`)
)

const maxLoginAttempts = 3

// CLI drives the interactive teller session over the in-process services.
type CLI struct {
	in          *bufio.Reader
	out         io.Writer
	authService portssvc.AuthSvc
	bankService portssvc.BankSvcFacade

	banner  *color.Color
	menu    *color.Color
	success *color.Color
	failure *color.Color
}

// New builds a CLI reading commands from in and writing to out.
func New(in io.Reader, out io.Writer, authService portssvc.AuthSvc, bankService portssvc.BankSvcFacade) *CLI {
	return &CLI{
		in:          bufio.NewReader(in),
		out:         out,
		authService: authService,
		bankService: bankService,
		banner:      color.New(color.FgCyan, color.Bold),
		menu:        color.New(color.FgYellow),
		success:     color.New(color.FgGreen),
		failure:     color.New(color.FgRed),
	}
}

// Run loops on the welcome menu until the customer exits or input ends.
func (c *CLI) Run(ctx context.Context) error {
	c.banner.Fprintln(c.out, "+------------------------------------+")
	c.banner.Fprintln(c.out, "|     WELCOME TO DOLLARSBANK ATM     |")
	c.banner.Fprintln(c.out, "+------------------------------------+")

	for {
		c.menu.Fprintln(c.out, "\n1. Register")
		c.menu.Fprintln(c.out, "2. Login")
		c.menu.Fprintln(c.out, "3. Exit")

		choice, err := c.readLine("Enter your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			if err := c.register(ctx); err != nil {
				return err
			}
		case "2":
			if err := c.login(ctx); err != nil {
				return err
			}
		case "3":
			c.banner.Fprintln(c.out, "Thank you for banking with DollarsBank. Goodbye!")
			return nil
		default:
			c.failure.Fprintln(c.out, "Invalid choice, please try again.")
		}
	}
}

func (c *CLI) readLine(promptText string) (string, error) {
	fmt.Fprint(c.out, promptText)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPIN keeps asking until the input is a 4-digit PIN.
func (c *CLI) readPIN(promptText string) (string, error) {
	for {
		pin, err := c.readLine(promptText)
		if err != nil {
			return "", err
		}
		if pinPattern.MatchString(pin) {
			return pin, nil
		}
		c.failure.Fprintln(c.out, "PIN must be exactly 4 digits.")
	}
}

// readAmount keeps asking until the input is a positive dollar amount.
func (c *CLI) readAmount(promptText string) (decimal.Decimal, error) {
	for {
		raw, err := c.readLine(promptText)
		if err != nil {
			return decimal.Zero, err
		}
		if !amountPattern.MatchString(raw) {
			c.failure.Fprintln(c.out, "Amount must be a positive number with at most two decimal places.")
			continue
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil || !amount.IsPositive() {
			c.failure.Fprintln(c.out, "Amount must be greater than zero.")
			continue
		}
		return amount, nil
	}
}

func (c *CLI) register(ctx context.Context) error {
	name, err := c.readLine("Enter your name: ")
	if err != nil {
		return err
	}
	email, err := c.readLine("Enter your email: ")
	if err != nil {
		return err
	}
	pin, err := c.readPIN("Choose a 4-digit PIN: ")
	if err != nil {
		return err
	}
	confirm, err := c.readPIN("Confirm your PIN: ")
	if err != nil {
		return err
	}
	if pin != confirm {
		c.failure.Fprintln(c.out, "PINs do not match.")
		return nil
	}

	initial, err := c.readLine("Enter initial deposit amount: ")
	if err != nil {
		return err
	}
	if !amountPattern.MatchString(initial) {
		c.failure.Fprintln(c.out, "Amount must be a non-negative number with at most two decimal places.")
		return nil
	}

	account, err := c.authService.Register(ctx, dto.RegisterRequest{
		Email:          email,
		Name:           name,
		PIN:            pin,
		InitialBalance: initial,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			c.failure.Fprintln(c.out, "An account with this email already exists.")
		case errors.Is(err, apperrors.ErrValidation):
			c.failure.Fprintln(c.out, "Could not open account:", err)
		default:
			c.failure.Fprintln(c.out, "Could not open account, please try again later.")
		}
		return nil
	}

	c.success.Fprintf(c.out, "Account created! Your account number is %s.\n", account.AccountNumber)
	return nil
}

func (c *CLI) login(ctx context.Context) error {
	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		email, err := c.readLine("Enter your email: ")
		if err != nil {
			return err
		}
		pin, err := c.readPIN("Enter your PIN: ")
		if err != nil {
			return err
		}

		_, account, err := c.authService.Login(ctx, email, pin)
		if err == nil {
			c.success.Fprintf(c.out, "Welcome back, %s!\n", account.Name)
			return c.sessionMenu(ctx, account)
		}

		if errors.Is(err, apperrors.ErrAuthFailed) {
			c.failure.Fprintf(c.out, "Invalid email or PIN (%d of %d attempts).\n", attempt, maxLoginAttempts)
			continue
		}
		c.failure.Fprintln(c.out, "Login failed, please try again later.")
		return nil
	}

	c.failure.Fprintln(c.out, "Too many failed attempts, returning to the main menu.")
	return nil
}

// sessionMenu loops on the authenticated menu until the customer signs out.
func (c *CLI) sessionMenu(ctx context.Context, account *domain.Account) error {
	accountID := account.AccountID

	for {
		c.menu.Fprintln(c.out, "\n1. Check balance")
		c.menu.Fprintln(c.out, "2. Deposit")
		c.menu.Fprintln(c.out, "3. Withdraw")
		c.menu.Fprintln(c.out, "4. Transfer funds")
		c.menu.Fprintln(c.out, "5. Recent transactions")
		c.menu.Fprintln(c.out, "6. Account information")
		c.menu.Fprintln(c.out, "7. Change PIN")
		c.menu.Fprintln(c.out, "8. Sign out")

		choice, err := c.readLine("Enter your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			c.showBalance(ctx, accountID)
		case "2":
			if err := c.deposit(ctx, accountID); err != nil {
				return err
			}
		case "3":
			if err := c.withdraw(ctx, accountID); err != nil {
				return err
			}
		case "4":
			if err := c.transfer(ctx, accountID); err != nil {
				return err
			}
		case "5":
			c.showRecentTransactions(ctx, accountID)
		case "6":
			c.showAccountInfo(ctx, accountID)
		case "7":
			if err := c.changePIN(ctx, accountID); err != nil {
				return err
			}
		case "8":
			c.success.Fprintln(c.out, "Signed out.")
			return nil
		default:
			c.failure.Fprintln(c.out, "Invalid choice, please try again.")
		}
	}
}

func (c *CLI) showBalance(ctx context.Context, accountID string) {
	balance, err := c.bankService.Balance(ctx, accountID)
	if err != nil {
		c.failure.Fprintln(c.out, "Could not retrieve balance.")
		return
	}
	c.success.Fprintf(c.out, "Current balance: $%s\n", balance.StringFixed(2))
}

func (c *CLI) deposit(ctx context.Context, accountID string) error {
	amount, err := c.readAmount("Enter deposit amount: ")
	if err != nil {
		return err
	}
	tx, err := c.bankService.Deposit(ctx, accountID, amount)
	if err != nil {
		c.failure.Fprintln(c.out, "Deposit failed.")
		return nil
	}
	c.success.Fprintf(c.out, "%s New balance: $%s\n", tx.Message, tx.NewBalance.StringFixed(2))
	return nil
}

func (c *CLI) withdraw(ctx context.Context, accountID string) error {
	amount, err := c.readAmount("Enter withdrawal amount: ")
	if err != nil {
		return err
	}
	tx, err := c.bankService.Withdraw(ctx, accountID, amount)
	if err != nil {
		if errors.Is(err, apperrors.ErrOverdraft) {
			c.failure.Fprintln(c.out, "Insufficient funds for this withdrawal.")
		} else {
			c.failure.Fprintln(c.out, "Withdrawal failed.")
		}
		return nil
	}
	c.success.Fprintf(c.out, "%s New balance: $%s\n", tx.Message, tx.NewBalance.StringFixed(2))
	return nil
}

func (c *CLI) transfer(ctx context.Context, accountID string) error {
	destinations, err := c.bankService.ListOtherAccounts(ctx, accountID)
	if err != nil {
		c.failure.Fprintln(c.out, "Could not list accounts.")
		return nil
	}
	if len(destinations) == 0 {
		c.failure.Fprintln(c.out, "No other accounts to transfer to.")
		return nil
	}

	c.menu.Fprintln(c.out, "Accounts you can transfer to:")
	for _, dest := range destinations {
		fmt.Fprintf(c.out, "  %s  %s (%s)\n", dest.AccountNumber, dest.Name, dest.Email)
	}

	target, err := c.readLine("Enter target account number: ")
	if err != nil {
		return err
	}
	if !numberPattern.MatchString(target) {
		c.failure.Fprintln(c.out, "Account numbers are 8 digits.")
		return nil
	}

	amount, err := c.readAmount("Enter transfer amount: ")
	if err != nil {
		return err
	}

	tx, err := c.bankService.Transfer(ctx, accountID, target, amount)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrOverdraft):
			c.failure.Fprintln(c.out, "Insufficient funds for this transfer.")
		case errors.Is(err, apperrors.ErrNotFound):
			c.failure.Fprintln(c.out, "No account with that number.")
		case errors.Is(err, apperrors.ErrValidation):
			c.failure.Fprintln(c.out, "Invalid transfer:", err)
		default:
			c.failure.Fprintln(c.out, "Transfer failed.")
		}
		return nil
	}
	c.success.Fprintf(c.out, "%s New balance: $%s\n", tx.Message, tx.NewBalance.StringFixed(2))
	return nil
}

func (c *CLI) showRecentTransactions(ctx context.Context, accountID string) {
	recent, err := c.bankService.RecentTransactions(ctx, accountID)
	if err != nil {
		c.failure.Fprintln(c.out, "Could not retrieve transactions.")
		return
	}
	if len(recent) == 0 {
		c.menu.Fprintln(c.out, "No transactions yet.")
		return
	}

	c.menu.Fprintln(c.out, "Most recent transactions:")
	for _, tx := range recent {
		fmt.Fprintf(c.out, "  %s  %-32s balance $%s\n",
			tx.Timestamp.Format("2006-01-02 15:04:05"), tx.Message, tx.NewBalance.StringFixed(2))
	}
}

func (c *CLI) showAccountInfo(ctx context.Context, accountID string) {
	info, err := c.bankService.AccountInfo(ctx, accountID)
	if err != nil {
		c.failure.Fprintln(c.out, "Could not retrieve account information.")
		return
	}
	fmt.Fprintf(c.out, "Account number: %s\n", info.AccountNumber)
	fmt.Fprintf(c.out, "Name:           %s\n", info.Name)
	fmt.Fprintf(c.out, "Email:          %s\n", info.Email)
}

func (c *CLI) changePIN(ctx context.Context, accountID string) error {
	oldPIN, err := c.readPIN("Enter your current PIN: ")
	if err != nil {
		return err
	}
	newPIN, err := c.readPIN("Choose a new 4-digit PIN: ")
	if err != nil {
		return err
	}
	confirm, err := c.readPIN("Confirm your new PIN: ")
	if err != nil {
		return err
	}
	if newPIN != confirm {
		c.failure.Fprintln(c.out, "PINs do not match.")
		return nil
	}

	if err := c.bankService.UpdatePIN(ctx, accountID, oldPIN, newPIN); err != nil {
		if errors.Is(err, apperrors.ErrAuthFailed) {
			c.failure.Fprintln(c.out, "Current PIN is incorrect.")
		} else {
			c.failure.Fprintln(c.out, "Could not change PIN.")
		}
		return nil
	}
	c.success.Fprintln(c.out, "PIN changed.")
	return nil
}
