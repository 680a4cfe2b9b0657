// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"greenledger/internal/domain"
)

// TransactionRepository defines the interface for the append-only ledger.
// There are deliberately no update or delete operations: a transaction is
// immutable once appended.
type TransactionRepository interface {
	// AppendTransaction inserts a new ledger record using the provided DBExecutor.
	AppendTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByUserID retrieves a user's ledger history, newest
	// first, with the total record count for pagination.
	GetTransactionsByUserID(ctx context.Context, q DBExecutor, userID string, limit, offset int) ([]domain.Transaction, int64, error)
}
