// Package wallet provides the gateway to the partner bank's wallet
// platform, which disburses loan principal to the borrower's wallet and
// collects installments from it. The demo environment ships a simulated
// client that mimics the partner API's reference and contract formats
// without any network calls.
package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medadvance/loan-ledger/internal/config"
)

// Disbursement is the wallet platform's receipt for a principal transfer.
type Disbursement struct {
	Reference  string    // Transaction reference assigned by the platform
	ContractID string    // Credit contract identifier ("LAN...")
	Amount     int64     // Currency units transferred
	ExecutedAt time.Time
}

// Collection is the wallet platform's receipt for an installment debit.
type Collection struct {
	Reference  string
	Amount     int64
	ExecutedAt time.Time
}

// Client is the ledger's view of the wallet platform. Implementations must
// treat calls as one-shot: the ledger performs no retries.
type Client interface {
	// Disburse transfers the loan principal into the borrower's wallet.
	Disburse(ctx context.Context, loanID string, amount int64) (*Disbursement, error)

	// CollectInstallment debits one installment from the borrower's wallet.
	CollectInstallment(ctx context.Context, loanID string, month int, amount int64) (*Collection, error)
}

// SimulatedClient fakes the partner wallet API in-process. References and
// contract ids follow the partner's observable formats so downstream
// reconciliation tooling behaves the same against the simulation.
type SimulatedClient struct {
	logger        *slog.Logger
	institutionID string
	agencyID      string
	distributorID string
}

// NewSimulatedClient builds a simulated wallet client.
func NewSimulatedClient(logger *slog.Logger, cfg *config.WalletConfig) *SimulatedClient {
	return &SimulatedClient{
		logger:        logger,
		institutionID: cfg.InstitutionID,
		agencyID:      cfg.AgencyID,
		distributorID: cfg.DistributorID,
	}
}

// Disburse simulates a principal transfer. It always succeeds.
func (c *SimulatedClient) Disburse(ctx context.Context, loanID string, amount int64) (*Disbursement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d := &Disbursement{
		Reference:  newReference(),
		ContractID: newContractID(now),
		Amount:     amount,
		ExecutedAt: now,
	}

	c.logger.Info("Wallet disbursement executed",
		"loan_id", loanID,
		"amount", amount,
		"reference", d.Reference,
		"contract_id", d.ContractID,
		"institution_id", c.institutionID,
		"agency_id", c.agencyID,
	)
	return d, nil
}

// CollectInstallment simulates an installment debit. It always succeeds.
func (c *SimulatedClient) CollectInstallment(ctx context.Context, loanID string, month int, amount int64) (*Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	col := &Collection{
		Reference:  newReference(),
		Amount:     amount,
		ExecutedAt: now,
	}

	c.logger.Info("Wallet installment collected",
		"loan_id", loanID,
		"month", month,
		"amount", amount,
		"reference", col.Reference,
	)
	return col, nil
}

// newReference produces a 10-character uppercase transaction reference.
func newReference() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}

// newContractID produces a credit contract id in the partner's "LAN" format.
func newContractID(now time.Time) string {
	return fmt.Sprintf("LAN%d", now.UnixMilli()%100000000)
}
