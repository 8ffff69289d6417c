package dto

import (
	"time"

	"github.com/dollarsbank/ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountRequest carries a deposit or withdrawal amount. Amounts arrive as
// strings so the "amount" validator can check the dollar format before any
// decimal parsing happens.
type AmountRequest struct {
	Amount string `json:"amount" binding:"required,amount"`
}

// TransferRequest carries a transfer to another account by its
// customer-facing number.
type TransferRequest struct {
	TargetAccountNumber string `json:"targetAccountNumber" binding:"required,len=8,numeric"`
	Amount              string `json:"amount" binding:"required,amount"`
}

// TransactionResponse is the external view of one ledger record.
type TransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	Amount          decimal.Decimal `json:"amount"`
	NewBalance      decimal.Decimal `json:"newBalance"`
	Timestamp       time.Time       `json:"timestamp"`
	Message         string          `json:"message"`
}

// ListTransactionsResponse wraps a recent-history query, most recent first.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ToTransactionResponse converts a domain.Transaction to its external view.
func ToTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   tx.TransactionID,
		PreviousBalance: tx.PreviousBalance,
		Amount:          tx.Amount,
		NewBalance:      tx.NewBalance,
		Timestamp:       tx.Timestamp,
		Message:         tx.Message,
	}
}

// ToListTransactionsResponse converts a slice of domain transactions.
func ToListTransactionsResponse(txs []domain.Transaction) ListTransactionsResponse {
	out := make([]TransactionResponse, len(txs))
	for i := range txs {
		out[i] = ToTransactionResponse(&txs[i])
	}
	return ListTransactionsResponse{Transactions: out}
}
