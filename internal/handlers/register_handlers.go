package handlers

import (
	"log"
	"net/http"

	portssvc "github.com/dollarsbank/ledger/internal/core/ports/services"
	"github.com/dollarsbank/ledger/internal/middleware"
	"github.com/dollarsbank/ledger/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service ports.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, authService portssvc.AuthSvc, bankService portssvc.BankSvcFacade) {
	RegisterValidators()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public auth routes, rate limited per client IP to slow PIN guessing.
	auth := r.Group("/auth", middleware.RateLimit(newAuthLimiter(cfg)))
	registerAuthRoutes(auth, authService)

	// Session-scoped routes behind the bearer-token middleware.
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	registerAccountRoutes(v1, bankService)
	registerTransactionRoutes(v1, bankService)
}

func newAuthLimiter(cfg *config.Config) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(cfg.AuthRateLimit)
	if err != nil {
		log.Printf("Warning: Invalid AUTH_RATE_LIMIT (%q), defaulting to 10-M.\n", cfg.AuthRateLimit)
		rate, _ = limiter.NewRateFromFormatted("10-M")
	}
	return limiter.New(limitermem.NewStore(), rate)
}
