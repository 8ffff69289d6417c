package dto

import (
	"github.com/dollarsbank/ledger/internal/core/domain"
)

// RegisterRequest defines the data needed to open a new account. The custom
// "pin" and "amount" validators enforce the formats the interactive layer
// promises the core: a 4-digit numeric PIN and a non-negative dollar amount
// with at most two decimal places.
type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Name           string `json:"name" binding:"required"`
	PIN            string `json:"pin" binding:"required,pin"`
	InitialBalance string `json:"initialBalance" binding:"required,amount"`
}

// LoginRequest carries the credentials for session establishment.
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	PIN   string `json:"pin" binding:"required,pin"`
}

// LoginResponse returns the session token and the authenticated account's summary.
type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

// UpdatePINRequest carries a PIN change. The old PIN is re-verified server-side.
type UpdatePINRequest struct {
	OldPIN string `json:"oldPin" binding:"required,pin"`
	NewPIN string `json:"newPin" binding:"required,pin"`
}

// ToLoginResponse builds the login payload from the issued token and account.
func ToLoginResponse(token string, account *domain.Account) LoginResponse {
	return LoginResponse{
		Token:   token,
		Account: ToAccountResponse(account),
	}
}
