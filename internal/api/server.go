// Package api assembles the HTTP surface of the loan ledger service.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medadvance/loan-ledger/internal/api/handler"
	"github.com/medadvance/loan-ledger/internal/api/service"
	"github.com/medadvance/loan-ledger/internal/config"
)

// Server handles HTTP requests and manages the listener's lifecycle.
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
}

// NewServer wires the handlers and returns a configured HTTP server.
func NewServer(log *slog.Logger, cfg *config.Config, loanService service.LoanService) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	loanHandler := handler.NewLoanHandler(log, loanService)
	eligibilityHandler := handler.NewEligibilityHandler(log)

	setupRouter(log, router, loanHandler, eligibilityHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
