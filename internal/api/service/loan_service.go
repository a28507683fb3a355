package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/medadvance/loan-ledger/internal/domain/loan"
	"github.com/medadvance/loan-ledger/internal/platform/messaging/producers"
	"github.com/medadvance/loan-ledger/internal/wallet"
)

// LoanServiceImpl implements the LoanService interface. Every operation
// loads the whole ledger document, mutates it in memory and rewrites it; the
// mutex serializes the read-check-write sequences so the single-active-loan
// check cannot race a concurrent create within this process.
type LoanServiceImpl struct {
	repo   loan.Repository
	wallet wallet.Client
	events producers.MessagePublisher
	logger *slog.Logger

	mu sync.Mutex // guards the write paths (create, mark-paid, delete)
}

// NewLoanService creates a new loan service
func NewLoanService(logger *slog.Logger, repo loan.Repository, walletClient wallet.Client, events producers.MessagePublisher) LoanService {
	return &LoanServiceImpl{
		repo:   repo,
		wallet: walletClient,
		events: events,
		logger: logger,
	}
}

// CreateLoan opens a new loan after enforcing the single-active-loan rule,
// then disburses the principal and persists the grown ledger.
func (s *LoanServiceImpl) CreateLoan(ctx context.Context, amount, interest, total, monthlyPayment int64, pharmacy loan.Pharmacy) (*loan.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loans, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger before create: %w", err)
	}

	for _, existing := range loans {
		if existing.IsActive() {
			return nil, loan.ErrActiveLoanExists{LoanID: existing.ID}
		}
	}

	newLoan, err := loan.New(amount, interest, total, monthlyPayment, pharmacy)
	if err != nil {
		return nil, err
	}

	disbursement, err := s.wallet.Disburse(ctx, newLoan.ID, newLoan.Amount)
	if err != nil {
		s.logger.Error("Wallet disbursement failed",
			"loan_id", newLoan.ID,
			"amount", newLoan.Amount,
			"error", err)
		return nil, fmt.Errorf("failed to disburse loan %s: %w", newLoan.ID, err)
	}

	loans = append(loans, newLoan)
	if err := s.repo.Save(ctx, loans); err != nil {
		return nil, err
	}

	s.logger.Info("Loan created",
		"loan_id", newLoan.ID,
		"amount", newLoan.Amount,
		"total", newLoan.Total,
		"disbursement_reference", disbursement.Reference,
		"contract_id", disbursement.ContractID,
	)

	s.publishEvent(ctx, loan.Event{
		Type:       loan.EventLoanCreated,
		LoanID:     newLoan.ID,
		Amount:     newLoan.Amount,
		OccurredAt: newLoan.CreatedDate,
	})

	return newLoan, nil
}

// GetAllLoans returns the ledger snapshot, degrading to an empty collection
// when the underlying read fails.
func (s *LoanServiceImpl) GetAllLoans(ctx context.Context) ([]*loan.Loan, error) {
	loans, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to read ledger, returning empty collection", "error", err)
		return []*loan.Loan{}, nil
	}
	return loans, nil
}

// GetLoanByID scans the ledger for the given id.
func (s *LoanServiceImpl) GetLoanByID(ctx context.Context, id string) (*loan.Loan, error) {
	loans, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to read ledger", "loan_id", id, "error", err)
		return nil, loan.ErrLoanNotFound{LoanID: id}
	}

	for _, l := range loans {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, loan.ErrLoanNotFound{LoanID: id}
}

// MarkPaymentAsPaid settles one installment: collects it from the wallet,
// flags it paid and persists the updated ledger. The loan flips to completed
// exactly when its last unpaid installment is settled.
func (s *LoanServiceImpl) MarkPaymentAsPaid(ctx context.Context, loanID string, monthIndex int) (*loan.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loans, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger before payment: %w", err)
	}

	var target *loan.Loan
	for _, l := range loans {
		if l.ID == loanID {
			target = l
			break
		}
	}
	if target == nil {
		return nil, loan.ErrLoanNotFound{LoanID: loanID}
	}

	if monthIndex < 0 || monthIndex >= len(target.Payments) {
		return nil, loan.ErrInvalidInstallment{LoanID: loanID, Index: monthIndex}
	}

	installment := target.Payments[monthIndex]
	if installment.Paid {
		// Already settled; keep the original paid date and skip the wallet.
		return target, nil
	}

	if _, err := s.wallet.CollectInstallment(ctx, loanID, installment.Month, installment.Amount); err != nil {
		s.logger.Error("Wallet collection failed",
			"loan_id", loanID,
			"month", installment.Month,
			"error", err)
		return nil, fmt.Errorf("failed to collect installment %d of loan %s: %w", installment.Month, loanID, err)
	}

	paidAt := time.Now().UTC()
	if err := target.MarkInstallmentPaid(monthIndex, paidAt); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, loans); err != nil {
		return nil, err
	}

	s.logger.Info("Installment paid",
		"loan_id", loanID,
		"month", installment.Month,
		"status", string(target.Status),
	)

	s.publishEvent(ctx, loan.Event{
		Type:        loan.EventPaymentRecorded,
		LoanID:      loanID,
		Amount:      installment.Amount,
		Installment: installment.Month,
		OccurredAt:  paidAt,
	})
	if target.Status == loan.StatusCompleted {
		s.publishEvent(ctx, loan.Event{
			Type:       loan.EventLoanCompleted,
			LoanID:     loanID,
			OccurredAt: paidAt,
		})
	}

	return target, nil
}

// DeleteLoan removes the loan and rewrites the ledger. An unknown id is not
// an error; the delete simply has nothing to do.
func (s *LoanServiceImpl) DeleteLoan(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loans, err := s.repo.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read ledger before delete: %w", err)
	}

	remaining := make([]*loan.Loan, 0, len(loans))
	removed := false
	for _, l := range loans {
		if l.ID == id {
			removed = true
			continue
		}
		remaining = append(remaining, l)
	}

	if err := s.repo.Save(ctx, remaining); err != nil {
		return false, err
	}

	if removed {
		s.logger.Info("Loan deleted", "loan_id", id)
		s.publishEvent(ctx, loan.Event{
			Type:       loan.EventLoanDeleted,
			LoanID:     id,
			OccurredAt: time.Now().UTC(),
		})
	}

	return true, nil
}

// GetLoanStats reduces the ledger snapshot to its summary. An unreadable
// ledger yields nil; an empty one yields zero values.
func (s *LoanServiceImpl) GetLoanStats(ctx context.Context) (*loan.Stats, error) {
	loans, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to read ledger for stats", "error", err)
		return nil, nil
	}

	stats := loan.ComputeStats(loans)
	return &stats, nil
}

// publishEvent emits a lifecycle event best-effort. The event stream is
// advisory, so failures are logged and never fail the ledger operation.
func (s *LoanServiceImpl) publishEvent(ctx context.Context, ev loan.Event) {
	if err := s.events.Publish(ctx, ev.LoanID, ev); err != nil {
		s.logger.Warn("Failed to publish loan event",
			"type", string(ev.Type),
			"loan_id", ev.LoanID,
			"error", err)
	}
}
