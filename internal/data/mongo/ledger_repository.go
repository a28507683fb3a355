// Package mongo provides the MongoDB implementation of the ledger
// repository. The collection holds one document per ledger key with the JSON
// payload embedded as text, mirroring the layout the product has always
// persisted.
package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medadvance/loan-ledger/internal/domain/loan"
)

// LedgerCollectionName is the name of the ledger document collection
const LedgerCollectionName = "ledger_documents"

type ledgerDocument struct {
	Key       string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// LedgerRepository implements loan.Repository on a MongoDB collection
type LedgerRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewLedgerRepository creates a new MongoDB ledger repository
func NewLedgerRepository(logger *slog.Logger, db *mongo.Database) loan.Repository {
	return &LedgerRepository{
		db:     db,
		logger: logger,
	}
}

// Load reads and decodes the ledger document. A missing document means the
// ledger has never been written and yields an empty collection.
func (r *LedgerRepository) Load(ctx context.Context) ([]*loan.Loan, error) {
	collection := r.db.Collection(LedgerCollectionName)

	var doc ledgerDocument
	err := collection.FindOne(ctx, bson.M{"_id": loan.DocumentKey}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []*loan.Loan{}, nil
		}
		r.logger.Error("Failed to load ledger document",
			"doc_key", loan.DocumentKey,
			"error", err)
		return nil, fmt.Errorf("failed to load ledger document: %w", err)
	}

	var loans []*loan.Loan
	if err := json.Unmarshal([]byte(doc.Payload), &loans); err != nil {
		r.logger.Error("Failed to decode ledger document",
			"doc_key", loan.DocumentKey,
			"error", err)
		return nil, fmt.Errorf("failed to decode ledger document: %w", err)
	}

	return loans, nil
}

// Save encodes the full collection and replaces the ledger document,
// creating it on first write.
func (r *LedgerRepository) Save(ctx context.Context, loans []*loan.Loan) error {
	payload, err := json.Marshal(loans)
	if err != nil {
		return fmt.Errorf("failed to encode ledger document: %w", err)
	}

	collection := r.db.Collection(LedgerCollectionName)
	doc := ledgerDocument{
		Key:       loan.DocumentKey,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": loan.DocumentKey}, doc, opts); err != nil {
		r.logger.Error("Failed to save ledger document",
			"doc_key", loan.DocumentKey,
			"loans", len(loans),
			"error", err)
		return fmt.Errorf("failed to save ledger document: %w", err)
	}

	return nil
}
