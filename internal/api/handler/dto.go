package handler

import (
	"time"

	"github.com/medadvance/loan-ledger/internal/domain/loan"
)

// EvaluateEligibilityRequest carries the borrower attributes the scorer
// needs. Amounts are in currency units.
type EvaluateEligibilityRequest struct {
	MonthlySalary  int64   `json:"monthly_salary" binding:"required,gt=0"`
	TenureMonths   int     `json:"tenure_months" binding:"min=0"`
	AvgBalance3M   float64 `json:"avg_balance_3m"`
	OverdraftCount int     `json:"overdraft_count" binding:"min=0"`
	ExistingLoans  int     `json:"existing_loans" binding:"min=0"`
}

// EligibilityResponse represents a scoring decision in API responses.
// Score, limit and rate are omitted on declines; the reason is omitted on
// approvals.
type EligibilityResponse struct {
	Approved      bool    `json:"approved"`
	CreditScore   int     `json:"credit_score,omitempty"`
	CreditLimit   int64   `json:"credit_limit,omitempty"`
	InterestRate  float64 `json:"interest_rate,omitempty"`
	DeclineReason string  `json:"decline_reason,omitempty"`
}

// PharmacyPayload is the embedded pharmacy snapshot in loan requests and
// responses. Field names match the persisted document layout.
type PharmacyPayload struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name" binding:"required"`
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
	Distance  string  `json:"distance,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Certified bool    `json:"certified,omitempty"`
}

// CreateLoanRequest represents a request to open a new loan. The financial
// terms are computed by the client from the eligibility decision; the ledger
// records them as given.
type CreateLoanRequest struct {
	Amount         int64           `json:"amount" binding:"required,gt=0"`
	Interest       int64           `json:"interest" binding:"min=0"`
	Total          int64           `json:"total" binding:"required,gt=0"`
	MonthlyPayment int64           `json:"monthlyPayment" binding:"required,gt=0"`
	Pharmacy       PharmacyPayload `json:"pharmacy" binding:"required"`
}

// PaymentResponse represents one installment in API responses.
type PaymentResponse struct {
	Month    int    `json:"month"`
	DueDate  string `json:"dueDate"`
	Amount   int64  `json:"amount"`
	Paid     bool   `json:"paid"`
	PaidDate string `json:"paidDate,omitempty"`
}

// LoanResponse represents a loan in API responses. Keys match the persisted
// document layout so the mobile client reads one shape everywhere.
type LoanResponse struct {
	ID             string            `json:"id"`
	Amount         int64             `json:"amount"`
	Interest       int64             `json:"interest"`
	Total          int64             `json:"total"`
	MonthlyPayment int64             `json:"monthlyPayment"`
	Pharmacy       PharmacyPayload   `json:"pharmacy"`
	CreatedDate    string            `json:"createdDate"`
	Payments       []PaymentResponse `json:"payments"`
	Status         string            `json:"status"`
}

// LoanListResponse represents the full ledger in API responses.
type LoanListResponse struct {
	Loans []LoanResponse `json:"loans"`
}

// mapLoanToResponse maps a loan entity to its response DTO
func mapLoanToResponse(l *loan.Loan) LoanResponse {
	payments := make([]PaymentResponse, 0, len(l.Payments))
	for _, p := range l.Payments {
		pr := PaymentResponse{
			Month:   p.Month,
			DueDate: p.DueDate.Format(time.RFC3339),
			Amount:  p.Amount,
			Paid:    p.Paid,
		}
		if p.PaidDate != nil {
			pr.PaidDate = p.PaidDate.Format(time.RFC3339)
		}
		payments = append(payments, pr)
	}

	return LoanResponse{
		ID:             l.ID,
		Amount:         l.Amount,
		Interest:       l.Interest,
		Total:          l.Total,
		MonthlyPayment: l.MonthlyPayment,
		Pharmacy: PharmacyPayload{
			ID:        l.Pharmacy.ID,
			Name:      l.Pharmacy.Name,
			Address:   l.Pharmacy.Address,
			City:      l.Pharmacy.City,
			Distance:  l.Pharmacy.Distance,
			Rating:    l.Pharmacy.Rating,
			Certified: l.Pharmacy.Certified,
		},
		CreatedDate: l.CreatedDate.Format(time.RFC3339),
		Payments:    payments,
		Status:      string(l.Status),
	}
}
