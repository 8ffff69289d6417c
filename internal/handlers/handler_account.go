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
)

// accountHandler serves the authenticated account's own views: info, balance,
// PIN changes, and the directory of transfer destinations.
type accountHandler struct {
	bankService portssvc.BankSvcFacade
}

func newAccountHandler(bs portssvc.BankSvcFacade) *accountHandler {
	return &accountHandler{bankService: bs}
}

// registerAccountRoutes registers the session-scoped account routes.
func registerAccountRoutes(rg *gin.RouterGroup, bankService portssvc.BankSvcFacade) {
	h := newAccountHandler(bankService)

	account := rg.Group("/account")
	{
		account.GET("", h.getAccountInfo)
		account.GET("/balance", h.getBalance)
		account.PUT("/pin", h.updatePIN)
	}
	rg.GET("/accounts", h.listOtherAccounts)
}

// sessionAccountID pulls the authenticated account ID set by the auth
// middleware; a missing value means no session and aborts with 401.
func sessionAccountID(c *gin.Context) (string, bool) {
	accountID, ok := middleware.GetAccountIDFromCtx(c.Request.Context())
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return accountID, true
}

func (h *accountHandler) getAccountInfo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}

	info, err := h.bankService.AccountInfo(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session is no longer valid"})
		} else {
			logger.Error("Failed to get account info", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountSummaryResponse(*info))
}

func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}

	balance, err := h.bankService.Balance(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session is no longer valid"})
		} else {
			logger.Error("Failed to get balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		}
		return
	}

	info, err := h.bankService.AccountInfo(c.Request.Context(), accountID)
	if err != nil {
		logger.Error("Failed to get account info for balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{AccountNumber: info.AccountNumber, Balance: balance})
}

func (h *accountHandler) updatePIN(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}

	var req dto.UpdatePINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PIN update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.bankService.UpdatePIN(c.Request.Context(), accountID, req.OldPIN, req.NewPIN); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAuthFailed):
			logger.Warn("PIN update rejected, old PIN incorrect")
			c.JSON(http.StatusForbidden, gin.H{"error": "Old PIN is incorrect"})
		case errors.Is(err, apperrors.ErrNoSession):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session is no longer valid"})
		default:
			logger.Error("Failed to update PIN", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update PIN"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *accountHandler) listOtherAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := sessionAccountID(c)
	if !ok {
		return
	}

	summaries, err := h.bankService.ListOtherAccounts(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session is no longer valid"})
		} else {
			logger.Error("Failed to list accounts", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountsResponse(summaries))
}
