package interfaces

import (
	"context"

	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

// TransactionRepository is the source of transfer transactions served by the dashboard API
type TransactionRepository interface {
	// PutTransaction stores a transaction, replacing one with the same ID
	PutTransaction(ctx context.Context, tx *model.Transaction) error

	// ListTransactions returns matching transactions, newest ingress first
	ListTransactions(ctx context.Context, query model.TransactionQuery) ([]*model.Transaction, error)

	// ListUsernames returns distinct usernames in ascending order
	ListUsernames(ctx context.Context) ([]string, error)

	// CountTransactions returns the number of stored transactions
	CountTransactions(ctx context.Context) (int, error)

	// ClearTransactions removes every transaction and returns how many were deleted
	ClearTransactions(ctx context.Context) (int, error)

	// Backend names the storage backend, e.g. "memory" or "firestore"
	Backend() string

	// Collection names the table or collection holding the transactions
	Collection() string

	// Close closes the repository connection
	Close() error
}
