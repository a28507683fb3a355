package loan

import "time"

// EventType labels ledger lifecycle events published for downstream
// consumers (analytics, collections tooling).
type EventType string

const (
	EventLoanCreated     EventType = "LOAN_CREATED"
	EventPaymentRecorded EventType = "PAYMENT_RECORDED"
	EventLoanCompleted   EventType = "LOAN_COMPLETED"
	EventLoanDeleted     EventType = "LOAN_DELETED"
)

// Event is the message body published to the loan events topic.
type Event struct {
	Type        EventType `json:"type"`
	LoanID      string    `json:"loan_id"`
	Amount      int64     `json:"amount,omitempty"`
	Installment int       `json:"installment,omitempty"` // 1-based month, for payment events
	OccurredAt  time.Time `json:"occurred_at"`
}
