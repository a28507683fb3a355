package loan

// Stats summarizes the ledger for the borrower dashboard. A zero-valued
// Stats is the correct answer for an empty but readable ledger.
type Stats struct {
	TotalLoans       int   `json:"totalLoans"`
	ActiveLoans      int   `json:"activeLoans"`
	CompletedLoans   int   `json:"completedLoans"`
	TotalBorrowed    int64 `json:"totalBorrowed"`
	TotalOutstanding int64 `json:"totalOutstanding"`
}

// ComputeStats reduces a ledger snapshot to its summary metrics. Outstanding
// exposure only counts active loans: each unpaid installment contributes the
// loan's monthly payment.
func ComputeStats(loans []*Loan) Stats {
	var s Stats
	s.TotalLoans = len(loans)
	for _, l := range loans {
		s.TotalBorrowed += l.Amount
		switch l.Status {
		case StatusActive:
			s.ActiveLoans++
			s.TotalOutstanding += int64(l.UnpaidInstallments()) * l.MonthlyPayment
		case StatusCompleted:
			s.CompletedLoans++
		}
	}
	return s
}
