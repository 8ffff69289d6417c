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

// authHandler handles registration and session establishment.
type authHandler struct {
	authService portssvc.AuthSvc
}

func newAuthHandler(as portssvc.AuthSvc) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvc) {
	h := newAuthHandler(authService)

	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
}

// register opens a new account with its initial balance.
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for register", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Registration rejected, duplicate email")
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Registration rejected, invalid input", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to register account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		}
		return
	}

	logger.Info("Account registered", slog.String("account_number", account.AccountNumber))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// login authenticates an email/PIN pair and returns the session token.
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	token, account, err := h.authService.Login(c.Request.Context(), req.Email, req.PIN)
	if err != nil {
		if errors.Is(err, apperrors.ErrAuthFailed) {
			logger.Warn("Login failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or PIN"})
		} else {
			logger.Error("Failed to process login", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLoginResponse(token, account))
}
