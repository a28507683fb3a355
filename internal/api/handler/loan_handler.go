package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medadvance/loan-ledger/internal/api/service"
	"github.com/medadvance/loan-ledger/internal/domain/loan"
)

// LoanHandler handles HTTP requests for ledger operations
type LoanHandler struct {
	loanService service.LoanService
	logger      *slog.Logger
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(logger *slog.Logger, loanService service.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		logger:      logger,
	}
}

// Create opens a new loan. A borrower with an active loan gets a 409 with a
// code the client uses to route to the existing loan instead.
func (h *LoanHandler) Create(c *gin.Context) {
	var req CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	l, err := h.loanService.CreateLoan(c.Request.Context(),
		req.Amount, req.Interest, req.Total, req.MonthlyPayment,
		loan.Pharmacy{
			ID:        req.Pharmacy.ID,
			Name:      req.Pharmacy.Name,
			Address:   req.Pharmacy.Address,
			City:      req.Pharmacy.City,
			Distance:  req.Pharmacy.Distance,
			Rating:    req.Pharmacy.Rating,
			Certified: req.Pharmacy.Certified,
		})
	if err != nil {
		var activeErr loan.ErrActiveLoanExists
		if errors.As(err, &activeErr) {
			h.logger.Warn("Loan creation blocked by active loan", "active_loan_id", activeErr.LoanID)
			RespondConflict(c, "ACTIVE_LOAN_EXISTS",
				"An active loan already exists; view loan "+activeErr.LoanID+" to continue repaying it")
			return
		}
		if errors.Is(err, loan.ErrInvalidAmount) || errors.Is(err, loan.ErrInvalidMonthlyPayment) || errors.Is(err, loan.ErrEmptyPharmacyName) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create loan", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapLoanToResponse(l))
}

// GetAll returns the full ledger.
func (h *LoanHandler) GetAll(c *gin.Context) {
	loans, err := h.loanService.GetAllLoans(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list loans", "error", err)
		RespondInternalError(c)
		return
	}

	response := LoanListResponse{Loans: make([]LoanResponse, 0, len(loans))}
	for _, l := range loans {
		response.Loans = append(response.Loans, mapLoanToResponse(l))
	}
	RespondOK(c, response)
}

// GetByID returns a single loan, 404 when the id is unknown.
func (h *LoanHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	l, err := h.loanService.GetLoanByID(c.Request.Context(), id)
	if err != nil {
		var notFound loan.ErrLoanNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Loan not found")
			return
		}
		h.logger.Error("Failed to get loan", "loan_id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapLoanToResponse(l))
}

// PayInstallment settles the installment at the zero-based index in the URL.
func (h *LoanHandler) PayInstallment(c *gin.Context) {
	id := c.Param("id")
	indexParam := c.Param("index")

	index, err := strconv.Atoi(indexParam)
	if err != nil {
		RespondBadRequest(c, "Installment index must be an integer")
		return
	}

	l, err := h.loanService.MarkPaymentAsPaid(c.Request.Context(), id, index)
	if err != nil {
		var notFound loan.ErrLoanNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Loan not found")
			return
		}
		var invalidInstallment loan.ErrInvalidInstallment
		if errors.As(err, &invalidInstallment) {
			RespondBadRequest(c, invalidInstallment.Error())
			return
		}
		h.logger.Error("Failed to pay installment", "loan_id", id, "index", index, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapLoanToResponse(l))
}

// Delete removes a loan from the ledger. Unknown ids are not an error.
func (h *LoanHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if _, err := h.loanService.DeleteLoan(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete loan", "loan_id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// GetStats returns the dashboard summary. When the ledger cannot be read the
// stats are absent and the client shows its "no stats available" state.
func (h *LoanHandler) GetStats(c *gin.Context) {
	stats, err := h.loanService.GetLoanStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute loan stats", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, stats)
}
