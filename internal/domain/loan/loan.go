package loan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InstallmentCount is the fixed number of monthly installments per loan.
const InstallmentCount = 3

// Common errors
var (
	ErrInvalidAmount         = errors.New("loan amount must be positive")
	ErrInvalidMonthlyPayment = errors.New("monthly payment must be positive")
	ErrEmptyPharmacyName     = errors.New("pharmacy name cannot be empty")
)

// Status represents the repayment state of a loan.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	// StatusDefaulted is a declared state with no automatic transition;
	// nothing in the current lifecycle ever sets it.
	StatusDefaulted Status = "defaulted"
)

// Pharmacy is a point-in-time snapshot of the partner pharmacy where the
// medical expense was incurred. It is embedded by value; there is no
// pharmacy registry to look it up in later.
type Pharmacy struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
	Distance  string  `json:"distance,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Certified bool    `json:"certified,omitempty"`
}

// Payment is a single scheduled installment, owned exclusively by its loan.
// Every installment carries the loan's rounded monthly payment, so the three
// amounts may drift from the loan total by a few currency units. The drift
// is part of the persisted format and is not reconciled here.
type Payment struct {
	Month    int        `json:"month"` // 1..InstallmentCount
	DueDate  time.Time  `json:"dueDate"`
	Amount   int64      `json:"amount"`
	Paid     bool       `json:"paid"`
	PaidDate *time.Time `json:"paidDate"`
}

// Loan is the root entity of the ledger. Financial terms are immutable after
// creation; only payment flags and the derived status change. The JSON tags
// define the persisted document layout and must stay stable for import
// compatibility with previously written ledgers.
type Loan struct {
	ID             string    `json:"id"`
	Amount         int64     `json:"amount"`
	Interest       int64     `json:"interest"`
	Total          int64     `json:"total"`
	MonthlyPayment int64     `json:"monthlyPayment"`
	Pharmacy       Pharmacy  `json:"pharmacy"`
	CreatedDate    time.Time `json:"createdDate"`
	Payments       []Payment `json:"payments"`
	Status         Status    `json:"status"`
}

// New builds an active loan with a fresh id and a full installment schedule.
// The ledger trusts the financial terms it is given: total and monthlyPayment
// are the caller's computation and are not re-derived or cross-checked here
// beyond basic sanity.
func New(amount, interest, total, monthlyPayment int64, pharmacy Pharmacy) (*Loan, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if monthlyPayment <= 0 {
		return nil, ErrInvalidMonthlyPayment
	}
	if pharmacy.Name == "" {
		return nil, ErrEmptyPharmacyName
	}

	now := time.Now().UTC()
	l := &Loan{
		ID:             newLoanID(now),
		Amount:         amount,
		Interest:       interest,
		Total:          total,
		MonthlyPayment: monthlyPayment,
		Pharmacy:       pharmacy,
		CreatedDate:    now,
		Payments:       buildSchedule(now, monthlyPayment),
		Status:         StatusActive,
	}
	return l, nil
}

// newLoanID generates an id in the historical "loan_<millis>_<suffix>" shape
// so ledgers imported from older installations stay homogeneous.
func newLoanID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("loan_%d_%s", now.UnixMilli(), suffix)
}

// buildSchedule lays out one installment per calendar month after creation.
func buildSchedule(created time.Time, monthlyPayment int64) []Payment {
	payments := make([]Payment, 0, InstallmentCount)
	for month := 1; month <= InstallmentCount; month++ {
		payments = append(payments, Payment{
			Month:   month,
			DueDate: created.AddDate(0, month, 0),
			Amount:  monthlyPayment,
			Paid:    false,
		})
	}
	return payments
}

// MarkInstallmentPaid flags the installment at the given zero-based index as
// paid and recomputes the loan status. Marking an already paid installment is
// a no-op: the original paid date is kept. Returns ErrInvalidInstallment for
// an index outside the schedule.
func (l *Loan) MarkInstallmentPaid(index int, paidAt time.Time) error {
	if index < 0 || index >= len(l.Payments) {
		return ErrInvalidInstallment{LoanID: l.ID, Index: index}
	}

	p := &l.Payments[index]
	if !p.Paid {
		p.Paid = true
		t := paidAt
		p.PaidDate = &t
	}

	if l.allPaid() {
		l.Status = StatusCompleted
	}
	return nil
}

func (l *Loan) allPaid() bool {
	for _, p := range l.Payments {
		if !p.Paid {
			return false
		}
	}
	return true
}

// UnpaidInstallments returns how many installments are still outstanding.
func (l *Loan) UnpaidInstallments() int {
	n := 0
	for _, p := range l.Payments {
		if !p.Paid {
			n++
		}
	}
	return n
}

// IsActive reports whether the loan still blocks new borrowing.
func (l *Loan) IsActive() bool {
	return l.Status == StatusActive
}

// ErrActiveLoanExists signals the single-active-loan business rule. It
// carries the id of the blocking loan so callers can point the user at it.
type ErrActiveLoanExists struct {
	LoanID string
}

func (e ErrActiveLoanExists) Error() string {
	return "an active loan already exists: " + e.LoanID
}

// Is matches any ErrActiveLoanExists when the target carries no loan id.
func (e ErrActiveLoanExists) Is(target error) bool {
	t, ok := target.(ErrActiveLoanExists)
	if !ok {
		return false
	}
	return t.LoanID == "" || t.LoanID == e.LoanID
}

// ErrLoanNotFound indicates the requested loan id is absent from the ledger.
type ErrLoanNotFound struct {
	LoanID string
}

func (e ErrLoanNotFound) Error() string {
	return "loan not found: " + e.LoanID
}

// Is matches any ErrLoanNotFound when the target carries no loan id.
func (e ErrLoanNotFound) Is(target error) bool {
	t, ok := target.(ErrLoanNotFound)
	if !ok {
		return false
	}
	return t.LoanID == "" || t.LoanID == e.LoanID
}

// ErrInvalidInstallment indicates an installment index outside the schedule.
type ErrInvalidInstallment struct {
	LoanID string
	Index  int
}

func (e ErrInvalidInstallment) Error() string {
	return fmt.Sprintf("invalid installment index %d for loan %s", e.Index, e.LoanID)
}
