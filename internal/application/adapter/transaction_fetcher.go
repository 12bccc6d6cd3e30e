package adapter

import (
	"context"

	"github.com/finance-tracker/txcache/internal/domain/entity"
)

// TransactionFilter restricts a transaction listing to a range of days (inclusive).
type TransactionFilter struct {
	From string // YYYY-MM-DD
	To   string // YYYY-MM-DD
}

// TransactionFetcher lists transactions from the remote service.
type TransactionFetcher interface {
	// List retrieves the raw transactions whose date falls inside the filter.
	// Category names are not resolved.
	List(ctx context.Context, filter TransactionFilter) ([]entity.Transaction, error)
}

// TransactionCreator creates transactions on the remote service.
type TransactionCreator interface {
	// Create submits a new transaction and returns the server-assigned record.
	Create(ctx context.Context, input entity.NewTransaction) (*entity.Transaction, error)
}

// TransactionUpdater edits transactions on the remote service.
type TransactionUpdater interface {
	// Update applies changes to the transaction and returns the stored record.
	Update(ctx context.Context, id entity.ID, changes entity.TransactionChanges) (*entity.Transaction, error)
}

// TransactionRemover deletes transactions on the remote service.
type TransactionRemover interface {
	Delete(ctx context.Context, id entity.ID) error
}
