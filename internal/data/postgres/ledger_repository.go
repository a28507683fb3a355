// Package postgres provides the PostgreSQL implementation of the ledger
// repository. The whole loan collection is stored as one JSON document in a
// keyed document table, so reads and writes always cover the full ledger.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/medadvance/loan-ledger/internal/domain/loan"
	"github.com/medadvance/loan-ledger/internal/platform/persistence"
)

// LedgerRepository implements loan.Repository on a PostgreSQL document table
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) loan.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Load reads and decodes the ledger document. A missing row means the ledger
// has never been written and yields an empty collection, not an error.
func (r *LedgerRepository) Load(ctx context.Context) ([]*loan.Loan, error) {
	query := `SELECT payload FROM ledger_documents WHERE doc_key = $1`

	var payload []byte
	err := r.querier.QueryRow(ctx, query, loan.DocumentKey).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*loan.Loan{}, nil
		}
		r.logger.Error("Failed to load ledger document",
			"doc_key", loan.DocumentKey,
			"error", err)
		return nil, fmt.Errorf("failed to load ledger document: %w", err)
	}

	var loans []*loan.Loan
	if err := json.Unmarshal(payload, &loans); err != nil {
		r.logger.Error("Failed to decode ledger document",
			"doc_key", loan.DocumentKey,
			"error", err)
		return nil, fmt.Errorf("failed to decode ledger document: %w", err)
	}

	return loans, nil
}

// Save encodes the full collection and upserts it under the ledger key.
func (r *LedgerRepository) Save(ctx context.Context, loans []*loan.Loan) error {
	payload, err := json.Marshal(loans)
	if err != nil {
		return fmt.Errorf("failed to encode ledger document: %w", err)
	}

	query := `
		INSERT INTO ledger_documents (doc_key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (doc_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`

	if _, err := r.querier.Exec(ctx, query, loan.DocumentKey, payload); err != nil {
		r.logger.Error("Failed to save ledger document",
			"doc_key", loan.DocumentKey,
			"loans", len(loans),
			"error", err)
		return fmt.Errorf("failed to save ledger document: %w", err)
	}

	return nil
}
