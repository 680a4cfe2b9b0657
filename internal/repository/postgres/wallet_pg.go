// internal/repository/postgres/wallet_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"greenledger/internal/domain"
	"greenledger/internal/repository"
	"greenledger/internal/util"

	"github.com/jmoiron/sqlx"
)

// WalletRepository implements repository.WalletRepository for PostgreSQL.
type WalletRepository struct {
	// Methods receive a DBExecutor directly instead of holding *sqlx.DB
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db *sqlx.DB) repository.WalletRepository {
	return &WalletRepository{}
}

const walletColumns = `user_id, balance, total_donated, animals_saved, trees_planted,
	animals_fed, co2_offset_kg, items_recycled, sale_user_share, created_at, updated_at`

// GetWallet retrieves a wallet by user ID using the provided DBExecutor.
// An absent row is reported as util.ErrNotFound; callers treat that as the
// implicit zero-valued wallet.
func (r *WalletRepository) GetWallet(ctx context.Context, q repository.DBExecutor, userID string) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	err := q.GetContext(ctx, &wallet, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wallet for user %s: %w", userID, err)
	}
	return &wallet, nil
}

// GetOrCreateForUpdate materializes the zero wallet row if the user has
// none yet, then returns it locked for the surrounding transaction.
func (r *WalletRepository) GetOrCreateForUpdate(ctx context.Context, q repository.DBExecutor, userID string) (*domain.Wallet, error) {
	seed := domain.NewWallet(userID)
	insert := `INSERT INTO wallets (user_id, balance, total_donated, animals_saved, trees_planted,
	               animals_fed, co2_offset_kg, items_recycled, created_at, updated_at)
	           VALUES ($1, $2, $3, 0, 0, 0, $4, 0, $5, $6)
	           ON CONFLICT (user_id) DO NOTHING`
	if _, err := q.ExecContext(ctx, insert, seed.UserID, seed.Balance, seed.TotalDonated, seed.CO2OffsetKg, seed.CreatedAt, seed.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to seed wallet for user %s: %w", userID, err)
	}

	var wallet domain.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 FOR UPDATE`
	if err := q.GetContext(ctx, &wallet, query, userID); err != nil {
		return nil, fmt.Errorf("failed to lock wallet for user %s: %w", userID, err)
	}
	return &wallet, nil
}

// SetWalletFields overwrites the wallet's mutable fields with the absolute
// values in wallet, using the provided DBExecutor.
func (r *WalletRepository) SetWalletFields(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	query := `UPDATE wallets
	          SET balance = $1, total_donated = $2, animals_saved = $3, trees_planted = $4,
	              animals_fed = $5, co2_offset_kg = $6, items_recycled = $7, sale_user_share = $8,
	              updated_at = $9
	          WHERE user_id = $10`
	result, err := q.ExecContext(ctx, query,
		wallet.Balance,
		wallet.TotalDonated,
		wallet.AnimalsSaved,
		wallet.TreesPlanted,
		wallet.AnimalsFed,
		wallet.CO2OffsetKg,
		wallet.ItemsRecycled,
		wallet.SaleUserShare,
		time.Now().UTC(),
		wallet.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet for user %s: %w", wallet.UserID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating wallet for user %s: %w", wallet.UserID, err)
	}
	if rowsAffected == 0 {
		return util.ErrWalletNotFound
	}
	return nil
}
