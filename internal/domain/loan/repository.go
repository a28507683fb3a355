package loan

import "context"

// DocumentKey is the storage key under which the whole ledger is persisted.
// The value is the JSON array of loans exactly as defined by the struct tags
// in this package; older installations wrote the same document under the same
// key, so both must stay stable.
const DocumentKey = "@medadvance_loans"

// Repository persists the ledger as a single whole document. Load returns an
// empty slice when nothing has been written yet; an error means the read
// itself failed. Save rewrites the complete collection.
//
// The whole-document contract keeps the ledger logic independent of the
// backing store: swapping JSON-blob storage for row-oriented storage only
// requires a new implementation of this interface.
type Repository interface {
	Load(ctx context.Context) ([]*Loan, error)
	Save(ctx context.Context, loans []*Loan) error
}
