// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"greenledger/internal/domain"
	"greenledger/internal/repository"

	"github.com/jmoiron/sqlx"
)

// TransactionRepository implements repository.TransactionRepository for
// PostgreSQL. The transactions table is append-only; no UPDATE or DELETE
// statements exist here.
type TransactionRepository struct {
	// Methods receive a DBExecutor directly instead of holding *sqlx.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// AppendTransaction inserts a new ledger record using the provided DBExecutor.
func (r *TransactionRepository) AppendTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (id, user_id, type, amount, user_credited, nature_fund,
	              user_share, nature_share, trees_planted, animals_fed, co2_offset_kg,
	              description, reference_type, reference_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := q.ExecContext(ctx, query,
		transaction.ID,
		transaction.UserID,
		transaction.Type,
		transaction.Amount,
		transaction.UserCredited,
		transaction.NatureFund,
		transaction.UserShare,
		transaction.NatureShare,
		transaction.TreesPlanted,
		transaction.AnimalsFed,
		transaction.CO2OffsetKg,
		transaction.Description,
		transaction.ReferenceType,
		transaction.ReferenceID,
		transaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// GetTransactionsByUserID retrieves a paginated list of a user's ledger
// records, newest first. It performs two queries: one for the page and one
// for the total count.
func (r *TransactionRepository) GetTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID string, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}

	query := `
		SELECT id, user_id, type, amount, user_credited, nature_fund, user_share, nature_share,
		       trees_planted, animals_fed, co2_offset_kg, description, reference_type, reference_id, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &transactions, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for user %s: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE user_id = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total transaction count for user %s: %w", userID, err)
	}

	return transactions, totalCount, nil
}
