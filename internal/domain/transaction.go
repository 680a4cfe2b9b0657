// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionType defines the kind of a ledger transaction.
type TransactionType string

const (
	TransactionTypeSale        TransactionType = "SALE"
	TransactionTypeEventReward TransactionType = "EVENT_REWARD"
	TransactionTypeDonation    TransactionType = "DONATION"
)

// ReferenceType identifies the entity a transaction originated from.
type ReferenceType string

const (
	ReferenceTypeItem     ReferenceType = "item"
	ReferenceTypeEvent    ReferenceType = "event"
	ReferenceTypeCampaign ReferenceType = "campaign"
)

// Transaction is an immutable ledger record. Once appended it is never
// updated or deleted, and it carries every input of the split and impact
// conversion that produced it so the record can be audited on its own.
type Transaction struct {
	ID            string          `db:"id" json:"id"` // UUID generated on append
	UserID        string          `db:"user_id" json:"user_id"`
	Type          TransactionType `db:"type" json:"type"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`               // Gross amount of the originating operation
	UserCredited  decimal.Decimal `db:"user_credited" json:"user_credited"` // Signed: positive for sale/reward, negative for donation
	NatureFund    decimal.Decimal `db:"nature_fund" json:"nature_fund"`     // Portion routed to impact conversion, >= 0
	UserShare     decimal.Decimal `db:"user_share" json:"user_share"`       // Ratio applied; UserShare + NatureShare == 1
	NatureShare   decimal.Decimal `db:"nature_share" json:"nature_share"`
	TreesPlanted  int64           `db:"trees_planted" json:"trees_planted"`
	AnimalsFed    int64           `db:"animals_fed" json:"animals_fed"`
	CO2OffsetKg   decimal.Decimal `db:"co2_offset_kg" json:"co2_offset_kg"`
	Description   string          `db:"description" json:"description"`
	ReferenceType ReferenceType   `db:"reference_type" json:"reference_type"` // Polymorphic link to the originating entity
	ReferenceID   string          `db:"reference_id" json:"reference_id"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// NewTransaction creates a new ledger record with a generated ID.
func NewTransaction(
	userID string,
	txType TransactionType,
	amount decimal.Decimal,
	userCredited decimal.Decimal,
	natureFund decimal.Decimal,
	refType ReferenceType,
	refID string,
	description string,
) *Transaction {
	return &Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		UserCredited:  userCredited,
		NatureFund:    natureFund,
		UserShare:     decimal.Zero,
		NatureShare:   decimal.Zero,
		CO2OffsetKg:   decimal.Zero,
		Description:   description,
		ReferenceType: refType,
		ReferenceID:   refID,
		CreatedAt:     time.Now().UTC(),
	}
}
