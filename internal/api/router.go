package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medadvance/loan-ledger/internal/api/handler"
	"github.com/medadvance/loan-ledger/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	loanHandler *handler.LoanHandler,
	eligibilityHandler *handler.EligibilityHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/eligibility", eligibilityHandler.Evaluate)

		loans := v1.Group("/loans")
		{
			loans.POST("", loanHandler.Create)
			loans.GET("", loanHandler.GetAll)
			loans.GET("/stats", loanHandler.GetStats)
			loans.GET("/:id", loanHandler.GetByID)
			loans.POST("/:id/payments/:index/pay", loanHandler.PayInstallment)
			loans.DELETE("/:id", loanHandler.Delete)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
