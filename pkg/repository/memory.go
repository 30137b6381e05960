package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
)

// Memory implements TransactionRepository with in-memory storage
type Memory struct {
	mu           sync.RWMutex
	transactions map[types.TransactionID]*model.Transaction
}

// NewMemory creates a new memory repository
func NewMemory() *Memory {
	return &Memory{
		transactions: make(map[types.TransactionID]*model.Transaction),
	}
}

// PutTransaction saves a transaction to memory
func (m *Memory) PutTransaction(ctx context.Context, tx *model.Transaction) error {
	if tx == nil {
		return goerr.New("transaction is nil")
	}
	if err := tx.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid transaction")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Store a copy to prevent external modification
	m.transactions[tx.ID] = copyTransaction(tx)
	return nil
}

// ListTransactions returns transactions matching query, newest ingress first
func (m *Memory) ListTransactions(ctx context.Context, query model.TransactionQuery) ([]*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Transaction
	for _, tx := range m.transactions {
		if query.Match(tx) {
			result = append(result, copyTransaction(tx))
		}
	}

	sortNewestFirst(result)

	if query.Limit > 0 && len(result) > query.Limit {
		result = result[:query.Limit]
	}
	return result, nil
}

// ListUsernames returns distinct usernames in ascending order
func (m *Memory) ListUsernames(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, tx := range m.transactions {
		seen[tx.Username] = struct{}{}
	}
	return sortedKeys(seen), nil
}

// CountTransactions returns the number of stored transactions
func (m *Memory) CountTransactions(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transactions), nil
}

// ClearTransactions removes every transaction
func (m *Memory) ClearTransactions(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.transactions)
	m.transactions = make(map[types.TransactionID]*model.Transaction)
	return n, nil
}

// Backend returns "memory"
func (m *Memory) Backend() string {
	return "memory"
}

// Collection returns DefaultCollection
func (m *Memory) Collection() string {
	return DefaultCollection
}

// Close is a no-op for memory repository
func (m *Memory) Close() error {
	return nil
}

func copyTransaction(tx *model.Transaction) *model.Transaction {
	c := *tx
	if tx.EgressTime != nil {
		egress := *tx.EgressTime
		c.EgressTime = &egress
	}
	return &c
}

// sortNewestFirst orders by ingress time descending, ties broken by ID
func sortNewestFirst(txs []*model.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].IngressTime.Equal(txs[j].IngressTime) {
			return txs[i].ID > txs[j].ID
		}
		return txs[i].IngressTime.After(txs[j].IngressTime)
	})
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

var _ interfaces.TransactionRepository = (*Memory)(nil) // Compile-time interface check
