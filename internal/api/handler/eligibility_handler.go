package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/medadvance/loan-ledger/internal/domain/eligibility"
)

// EligibilityHandler exposes the credit scoring engine over HTTP.
type EligibilityHandler struct {
	logger *slog.Logger
}

// NewEligibilityHandler creates a new eligibility handler
func NewEligibilityHandler(logger *slog.Logger) *EligibilityHandler {
	return &EligibilityHandler{logger: logger}
}

// Evaluate scores a borrower profile. The engine is pure, so a well-formed
// request always produces a decision; only malformed bodies fail.
func (h *EligibilityHandler) Evaluate(c *gin.Context) {
	var req EvaluateEligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result := eligibility.Evaluate(eligibility.Profile{
		MonthlySalary:  req.MonthlySalary,
		TenureMonths:   req.TenureMonths,
		AvgBalance3M:   req.AvgBalance3M,
		OverdraftCount: req.OverdraftCount,
		ExistingLoans:  req.ExistingLoans,
	})

	h.logger.Info("Eligibility evaluated",
		"approved", result.Approved,
		"score", result.CreditScore,
		"decline_reason", string(result.DeclineReason),
	)

	RespondOK(c, EligibilityResponse{
		Approved:      result.Approved,
		CreditScore:   result.CreditScore,
		CreditLimit:   result.CreditLimit,
		InterestRate:  result.InterestRate,
		DeclineReason: string(result.DeclineReason),
	})
}
