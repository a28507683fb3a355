package service

import (
	"context"

	"github.com/medadvance/loan-ledger/internal/domain/loan"
)

// LoanService defines the ledger operations exposed to the API layer.
type LoanService interface {
	// CreateLoan opens a new loan with a 3-installment schedule and disburses
	// the principal. Returns loan.ErrActiveLoanExists if a loan is still
	// being repaid; the persisted ledger is left untouched in that case.
	CreateLoan(ctx context.Context, amount, interest, total, monthlyPayment int64, pharmacy loan.Pharmacy) (*loan.Loan, error)

	// GetAllLoans returns the ledger snapshot. A failed read degrades to an
	// empty collection rather than an error.
	GetAllLoans(ctx context.Context) ([]*loan.Loan, error)

	// GetLoanByID returns the loan with the given id.
	// Returns loan.ErrLoanNotFound if the id is unknown.
	GetLoanByID(ctx context.Context, id string) (*loan.Loan, error)

	// MarkPaymentAsPaid settles the installment at the zero-based index,
	// collecting it from the borrower's wallet. Marking an installment that
	// is already paid is a no-op. Returns loan.ErrInvalidInstallment for an
	// index outside the schedule and loan.ErrLoanNotFound for an unknown id.
	MarkPaymentAsPaid(ctx context.Context, loanID string, monthIndex int) (*loan.Loan, error)

	// DeleteLoan removes the loan from the ledger. Deleting an unknown id
	// still succeeds.
	DeleteLoan(ctx context.Context, id string) (bool, error)

	// GetLoanStats reduces the ledger to its dashboard summary. Returns a
	// zero-valued Stats for an empty ledger and nil when the ledger could
	// not be read at all.
	GetLoanStats(ctx context.Context) (*loan.Stats, error)
}
