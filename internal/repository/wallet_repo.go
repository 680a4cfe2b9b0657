// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"greenledger/internal/domain"
)

// WalletRepository defines the interface for wallet persistence.
//
// Wallets are created implicitly: GetWallet returns util.ErrNotFound for an
// absent row and callers treat that as the zero-valued default state.
type WalletRepository interface {
	// GetWallet retrieves the wallet for a user using the provided DBExecutor.
	GetWallet(ctx context.Context, q DBExecutor, userID string) (*domain.Wallet, error)
	// GetOrCreateForUpdate materializes the zero-valued wallet row if absent
	// and returns it locked for the duration of the surrounding transaction,
	// so the read-modify-write of balance and counters is serialized.
	GetOrCreateForUpdate(ctx context.Context, q DBExecutor, userID string) (*domain.Wallet, error)
	// SetWalletFields overwrites the wallet's mutable fields with the
	// absolute values carried by wallet. Callers compute the new values
	// before calling; this is not an increment.
	SetWalletFields(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
}
