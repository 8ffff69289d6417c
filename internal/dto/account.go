package dto

import (
	"time"

	"github.com/dollarsbank/ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse is the external view of an account. It mirrors
// domain.AccountSummary plus balance and never carries the PIN.
type AccountResponse struct {
	AccountNumber string          `json:"accountNumber"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// AccountSummaryResponse is the view of someone else's account exposed as a
// transfer destination.
type AccountSummaryResponse struct {
	AccountNumber string `json:"accountNumber"`
	Name          string `json:"name"`
	Email         string `json:"email"`
}

// BalanceResponse reports the authenticated account's current balance.
type BalanceResponse struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
}

// ListAccountsResponse wraps the transfer-destination summaries.
type ListAccountsResponse struct {
	Accounts []AccountSummaryResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to its external view.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountNumber: acc.AccountNumber,
		Name:          acc.Name,
		Email:         acc.Email,
		Balance:       acc.Balance,
		CreatedAt:     acc.CreatedAt,
	}
}

// ToAccountSummaryResponse converts a domain summary to its external view.
func ToAccountSummaryResponse(s domain.AccountSummary) AccountSummaryResponse {
	return AccountSummaryResponse{
		AccountNumber: s.AccountNumber,
		Name:          s.Name,
		Email:         s.Email,
	}
}

// ToListAccountsResponse converts a slice of domain summaries.
func ToListAccountsResponse(summaries []domain.AccountSummary) ListAccountsResponse {
	out := make([]AccountSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = ToAccountSummaryResponse(s)
	}
	return ListAccountsResponse{Accounts: out}
}
