// internal/domain/wallet.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Wallet represents a user's spendable balance and cumulative impact counters.
// A wallet is created implicitly on first use: absence in the store is
// equivalent to the zero-valued wallet returned by NewWallet. Wallets are
// never deleted.
type Wallet struct {
	UserID        string          `db:"user_id" json:"user_id"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`             // Spendable balance, NUMERIC(20, 2) in DB, floored at 0
	TotalDonated  decimal.Decimal `db:"total_donated" json:"total_donated"` // Cumulative donations, never decremented
	AnimalsSaved  int64           `db:"animals_saved" json:"animals_saved"` // Incremented once per sponsorship created
	TreesPlanted  int64           `db:"trees_planted" json:"trees_planted"`
	AnimalsFed    int64           `db:"animals_fed" json:"animals_fed"`
	CO2OffsetKg   decimal.Decimal `db:"co2_offset_kg" json:"co2_offset_kg"`
	ItemsRecycled int64           `db:"items_recycled" json:"items_recycled"`
	// SaleUserShare overrides the default 70/30 sale split for this user.
	// Nil means "use the default ratio"; out-of-range values are clamped at
	// split time rather than rejected here.
	SaleUserShare *decimal.Decimal `db:"sale_user_share" json:"sale_user_share,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// NewWallet returns the default zero-valued wallet for a user.
func NewWallet(userID string) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		UserID:       userID,
		Balance:      decimal.Zero,
		TotalDonated: decimal.Zero,
		CO2OffsetKg:  decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
