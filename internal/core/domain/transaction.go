package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable record of one balance change on an account.
// Amount is signed: positive for credits, negative for debits. For every
// record, NewBalance equals PreviousBalance plus Amount.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	Amount          decimal.Decimal `json:"amount"`
	NewBalance      decimal.Decimal `json:"newBalance"`
	Timestamp       time.Time       `json:"timestamp"`
	Message         string          `json:"message"`
}
