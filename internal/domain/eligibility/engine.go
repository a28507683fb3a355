// Package eligibility implements the credit scoring policy that gates the
// salary advance product. Evaluate is a pure function: the same profile
// always yields the same decision, and nothing here touches storage.
//
// The thresholds and weights below are the underwriting policy itself.
// They are compatibility-tested against historical decisions, so any change
// is a product decision, not a refactor.
package eligibility

// DeclineReason enumerates why a profile was rejected.
type DeclineReason string

const (
	DeclineSalaryTooLow   DeclineReason = "SALARY_TOO_LOW"
	DeclineTenureTooShort DeclineReason = "TENURE_TOO_SHORT"
	DeclineScoreTooLow    DeclineReason = "SCORE_TOO_LOW"
)

// Credit limit bounds in currency units.
const (
	MinCreditLimit = 500
	MaxCreditLimit = 3000
)

// Offered interest rates. Profiles scoring 70 or above get the lower rate.
const (
	PreferredRate = 0.04
	StandardRate  = 0.05
)

// Profile carries the borrower attributes the scorer looks at. Salary and
// balance are in currency units, tenure in months.
type Profile struct {
	MonthlySalary  int64
	TenureMonths   int
	AvgBalance3M   float64
	OverdraftCount int
	ExistingLoans  int
}

// Result is the scoring outcome. Score, limit and rate are only meaningful
// when Approved is true; DeclineReason is only set when it is false.
type Result struct {
	Approved      bool
	CreditScore   int
	CreditLimit   int64
	InterestRate  float64
	DeclineReason DeclineReason
}

// Evaluate scores a borrower profile and derives the credit limit and rate.
// Scoring is sequential: the salary and tenure gates decline immediately
// without scoring the remaining stages.
func Evaluate(p Profile) Result {
	score := 0

	// Salary gate.
	switch {
	case p.MonthlySalary >= 8000:
		score += 40
	case p.MonthlySalary >= 6000:
		score += 30
	case p.MonthlySalary >= 4000:
		score += 20
	default:
		return declined(DeclineSalaryTooLow)
	}

	// Employment tenure gate.
	switch {
	case p.TenureMonths >= 24:
		score += 20
	case p.TenureMonths >= 12:
		score += 15
	case p.TenureMonths >= 6:
		score += 10
	default:
		return declined(DeclineTenureTooShort)
	}

	// Balance-to-salary ratio never declines; a thin balance just scores low.
	ratio := p.AvgBalance3M / float64(p.MonthlySalary)
	switch {
	case ratio >= 0.30:
		score += 25
	case ratio >= 0.20:
		score += 18
	case ratio >= 0.10:
		score += 10
	default:
		score += 5
	}

	// Overdraft history. Three or more is the only penalty in the model.
	switch {
	case p.OverdraftCount == 0:
		score += 10
	case p.OverdraftCount <= 2:
		score += 5
	default:
		score -= 5
	}

	// Existing loan burden.
	switch {
	case p.ExistingLoans == 0:
		score += 5
	case p.ExistingLoans == 1:
		score += 2
	}

	var limit int64
	switch {
	case score >= 80:
		limit = p.MonthlySalary * 40 / 100
	case score >= 60:
		limit = p.MonthlySalary * 30 / 100
	case score >= 40:
		limit = p.MonthlySalary * 25 / 100
	default:
		return declined(DeclineScoreTooLow)
	}

	if limit > MaxCreditLimit {
		limit = MaxCreditLimit
	}
	if limit < MinCreditLimit {
		limit = MinCreditLimit
	}

	rate := StandardRate
	if score >= 70 {
		rate = PreferredRate
	}

	return Result{
		Approved:     true,
		CreditScore:  score,
		CreditLimit:  limit,
		InterestRate: rate,
	}
}

func declined(reason DeclineReason) Result {
	return Result{Approved: false, DeclineReason: reason}
}
