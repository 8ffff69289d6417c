package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dollarsbank/ledger/internal/apperrors"
	portssvc "github.com/dollarsbank/ledger/internal/core/ports/services"
	"github.com/dollarsbank/ledger/internal/dto"
	"github.com/dollarsbank/ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// transactionHandler serves deposits, withdrawals, transfers and the
// transaction history of the authenticated account.
type transactionHandler struct {
	bankService portssvc.BankSvcFacade
}

func newTransactionHandler(bs portssvc.BankSvcFacade) *transactionHandler {
	return &transactionHandler{bankService: bs}
}

// registerTransactionRoutes registers the session-scoped ledger routes.
func registerTransactionRoutes(rg *gin.RouterGroup, bankService portssvc.BankSvcFacade) {
	h := newTransactionHandler(bankService)

	rg.POST("/account/deposit", h.deposit)
	rg.POST("/account/withdraw", h.withdraw)
	rg.POST("/transfers", h.transfer)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.recentTransactions)
		transactions.GET("/last", h.lastTransaction)
	}
}

// bindAmount parses the pre-validated dollar string into a decimal.
func bindAmount(c *gin.Context, raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount: " + raw})
		return decimal.Zero, false
	}
	return amount, true
}

// respondLedgerError translates core failures into HTTP statuses shared by
// the mutation handlers.
func respondLedgerError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrOverdraft):
		logger.Warn("Operation rejected, insufficient funds")
		c.JSON(http.StatusConflict, gin.H{"error": "Insufficient funds"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Operation rejected, invalid amount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Operation rejected, account not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, apperrors.ErrNoSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session is no longer valid"})
	default:
		logger.Error("Ledger operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}

func (h *transactionHandler) deposit(c *gin.Context) {
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	amount, ok := bindAmount(c, req.Amount)
	if !ok {
		return
	}

	tx, err := h.bankService.Deposit(c.Request.Context(), accountID, amount)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(tx))
}

func (h *transactionHandler) withdraw(c *gin.Context) {
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	amount, ok := bindAmount(c, req.Amount)
	if !ok {
		return
	}

	tx, err := h.bankService.Withdraw(c.Request.Context(), accountID, amount)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(tx))
}

func (h *transactionHandler) transfer(c *gin.Context) {
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	amount, ok := bindAmount(c, req.Amount)
	if !ok {
		return
	}

	tx, err := h.bankService.Transfer(c.Request.Context(), accountID, req.TargetAccountNumber, amount)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	// The response carries the committed source leg.
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(tx))
}

func (h *transactionHandler) recentTransactions(c *gin.Context) {
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}

	recent, err := h.bankService.RecentTransactions(c.Request.Context(), accountID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(recent))
}

func (h *transactionHandler) lastTransaction(c *gin.Context) {
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}

	last, err := h.bankService.LastTransaction(c.Request.Context(), accountID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(last))
}
