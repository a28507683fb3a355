// Package reminder periodically scans the ledger for installments that are
// coming due and dispatches reminders to the borrower. Dispatch happens on a
// bounded worker pool so a slow notification channel cannot stall the scan
// loop.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medadvance/loan-ledger/internal/api/service"
	"github.com/medadvance/loan-ledger/internal/config"
	"github.com/medadvance/loan-ledger/internal/domain/loan"
	"github.com/panjf2000/ants/v2"
)

// Notifier delivers a single upcoming-payment reminder.
type Notifier interface {
	NotifyUpcomingPayment(ctx context.Context, l *loan.Loan, p loan.Payment) error
}

// LogNotifier writes reminders to the service log. It stands in for a push
// or SMS channel in the demo deployment.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier backed by the service log.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyUpcomingPayment(ctx context.Context, l *loan.Loan, p loan.Payment) error {
	n.logger.Info("Payment reminder",
		"loan_id", l.ID,
		"month", p.Month,
		"amount", p.Amount,
		"due_date", p.DueDate,
	)
	return nil
}

// Scheduler runs the periodic due-payment scan.
type Scheduler struct {
	loans        service.LoanService
	notifier     Notifier
	pool         *ants.Pool
	logger       *slog.Logger
	scanInterval time.Duration
	dueWindow    time.Duration
}

// NewScheduler creates a scheduler with its own worker pool.
func NewScheduler(cfg *config.ReminderConfig, loans service.LoanService, notifier Notifier, logger *slog.Logger) (*Scheduler, error) {
	pool, err := ants.NewPool(cfg.WorkerPoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder worker pool: %w", err)
	}

	return &Scheduler{
		loans:        loans,
		notifier:     notifier,
		pool:         pool,
		logger:       logger,
		scanInterval: cfg.ScanInterval,
		dueWindow:    cfg.DueWindow,
	}, nil
}

// Start scans on every tick until the context is canceled.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting payment reminder scheduler",
		"scan_interval", s.scanInterval.String(),
		"due_window", s.dueWindow.String(),
	)
	ticker := time.NewTicker(s.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Payment reminder scheduler stopping")
			return
		case <-ticker.C:
			if err := s.Scan(ctx); err != nil {
				s.logger.Error("Reminder scan failed", "error", err)
			}
		}
	}
}

// Scan walks the ledger once and dispatches a reminder for every unpaid
// installment of an active loan that falls due within the window. Overdue
// installments are included: the borrower should keep hearing about them.
func (s *Scheduler) Scan(ctx context.Context) error {
	loans, err := s.loans.GetAllLoans(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger for reminder scan: %w", err)
	}

	horizon := time.Now().Add(s.dueWindow)
	dispatched := 0
	for _, l := range loans {
		if !l.IsActive() {
			continue
		}
		for _, p := range l.Payments {
			if p.Paid || p.DueDate.After(horizon) {
				continue
			}

			l, p := l, p
			if err := s.pool.Submit(func() {
				if err := s.notifier.NotifyUpcomingPayment(ctx, l, p); err != nil {
					s.logger.Error("Failed to deliver payment reminder",
						"loan_id", l.ID,
						"month", p.Month,
						"error", err)
				}
			}); err != nil {
				s.logger.Error("Failed to submit reminder to worker pool",
					"loan_id", l.ID,
					"month", p.Month,
					"error", err)
				continue
			}
			dispatched++
		}
	}

	if dispatched > 0 {
		s.logger.Info("Dispatched payment reminders", "count", dispatched)
	}
	return nil
}

// Shutdown releases the worker pool.
func (s *Scheduler) Shutdown() {
	s.logger.Info("Shutting down reminder worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}
