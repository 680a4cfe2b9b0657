// internal/service/processor.go
package service

import (
	"context"
	"fmt"

	"greenledger/internal/domain"
	"greenledger/internal/finance"
	"greenledger/internal/repository"
	"greenledger/internal/util"
	"greenledger/pkg/db"

	"github.com/shopspring/decimal"
)

// TransactionProcessor defines the interface for the financial split and
// impact ledger operations. Each processing call either fully completes
// (wallet mutated, ledger record appended, summary returned) or fails with
// no visible partial state: the whole operation runs inside one database
// transaction.
type TransactionProcessor interface {
	ProcessItemSale(ctx context.Context, itemID, userID string, grossAmount decimal.Decimal, description string) (*SaleResult, error)
	ProcessEventReward(ctx context.Context, eventID, userID string, rewardAmount decimal.Decimal, eventTitle string) (*RewardResult, error)
	ProcessCampaignDonation(ctx context.Context, campaignID, userID string, amount decimal.Decimal, campaignTitle string) (*DonationResult, error)
	GetWallet(ctx context.Context, userID string) (*domain.Wallet, error)
	GetTransactionHistory(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int64, error)
}

// SaleResult summarizes a processed item sale for the caller to present.
type SaleResult struct {
	TotalAmount  decimal.Decimal      `json:"total_amount"`
	UserCredited decimal.Decimal      `json:"user_credited"`
	NatureFund   decimal.Decimal      `json:"nature_fund"`
	Impact       finance.ImpactResult `json:"impact"`
	NewBalance   decimal.Decimal      `json:"new_balance"`
	Transaction  *domain.Transaction  `json:"transaction"`
}

// RewardResult summarizes a processed event reward. Rewards carry no
// nature-fund split and no impact metrics.
type RewardResult struct {
	Amount      decimal.Decimal     `json:"amount"`
	NewBalance  decimal.Decimal     `json:"new_balance"`
	Transaction *domain.Transaction `json:"transaction"`
}

// DonationResult summarizes a processed campaign donation.
type DonationResult struct {
	Amount      decimal.Decimal      `json:"amount"`
	Impact      finance.ImpactResult `json:"impact"`
	NewBalance  decimal.Decimal      `json:"new_balance"`
	Transaction *domain.Transaction  `json:"transaction"`
}

// transactionProcessor implements the TransactionProcessor interface.
type transactionProcessor struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
	converter       finance.Converter
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewTransactionProcessor creates a new TransactionProcessor.
func NewTransactionProcessor(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	converter finance.Converter,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) TransactionProcessor {
	return &transactionProcessor{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		converter:       converter,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// ProcessItemSale splits the sale amount between the seller and the nature
// fund, credits the seller's share, folds the fund's impact into the
// wallet's cumulative counters, and appends a SALE ledger record.
func (p *transactionProcessor) ProcessItemSale(ctx context.Context, itemID, userID string, grossAmount decimal.Decimal, description string) (*SaleResult, error) {
	if grossAmount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}

	txController, err := p.beginTx(ctx, p.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("item sale: failed to begin transaction: %w", err)
	}
	defer p.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("item sale: transaction controller does not implement DBExecutor")
	}

	wallet, err := p.walletRepo.GetOrCreateForUpdate(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("item sale: failed to get wallet for user %s: %w", userID, err)
	}

	// The split honors the wallet's per-user share override; the impact is
	// derived from the fund portion only.
	split := finance.Split(grossAmount, wallet.SaleUserShare)
	impact := p.converter.ToImpact(split.NatureFund)

	wallet.Balance = wallet.Balance.Add(split.UserCredited).Round(2)
	applyImpact(wallet, impact)
	wallet.ItemsRecycled++

	if err := p.walletRepo.SetWalletFields(ctx, txExecutor, wallet); err != nil {
		return nil, fmt.Errorf("item sale: failed to update wallet: %w", err)
	}

	transaction := domain.NewTransaction(userID, domain.TransactionTypeSale, grossAmount.Round(2),
		split.UserCredited, split.NatureFund, domain.ReferenceTypeItem, itemID, description)
	transaction.UserShare = split.UserShare
	transaction.NatureShare = split.NatureShare
	transaction.TreesPlanted = impact.Trees
	transaction.AnimalsFed = impact.AnimalsFed
	transaction.CO2OffsetKg = impact.CO2OffsetKg
	if err := p.transactionRepo.AppendTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("item sale: failed to append transaction: %w", err)
	}

	if err := p.commitTx(txController); err != nil {
		return nil, fmt.Errorf("item sale: failed to commit transaction: %w", err)
	}

	return &SaleResult{
		TotalAmount:  grossAmount.Round(2),
		UserCredited: split.UserCredited,
		NatureFund:   split.NatureFund,
		Impact:       impact,
		NewBalance:   wallet.Balance,
		Transaction:  transaction,
	}, nil
}

// ProcessEventReward credits the full reward amount to the user. There is
// no nature-fund cut on this path and no impact metrics are recorded;
// rewards are not treated as donations.
func (p *transactionProcessor) ProcessEventReward(ctx context.Context, eventID, userID string, rewardAmount decimal.Decimal, eventTitle string) (*RewardResult, error) {
	if rewardAmount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}

	txController, err := p.beginTx(ctx, p.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("event reward: failed to begin transaction: %w", err)
	}
	defer p.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("event reward: transaction controller does not implement DBExecutor")
	}

	wallet, err := p.walletRepo.GetOrCreateForUpdate(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("event reward: failed to get wallet for user %s: %w", userID, err)
	}

	amount := rewardAmount.Round(2)
	wallet.Balance = wallet.Balance.Add(amount).Round(2)

	if err := p.walletRepo.SetWalletFields(ctx, txExecutor, wallet); err != nil {
		return nil, fmt.Errorf("event reward: failed to update wallet: %w", err)
	}

	transaction := domain.NewTransaction(userID, domain.TransactionTypeEventReward, amount,
		amount, decimal.Zero, domain.ReferenceTypeEvent, eventID,
		fmt.Sprintf("Reward for attending: %s", eventTitle))
	transaction.UserShare = decimal.NewFromInt(1)
	if err := p.transactionRepo.AppendTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("event reward: failed to append transaction: %w", err)
	}

	if err := p.commitTx(txController); err != nil {
		return nil, fmt.Errorf("event reward: failed to commit transaction: %w", err)
	}

	return &RewardResult{
		Amount:      amount,
		NewBalance:  wallet.Balance,
		Transaction: transaction,
	}, nil
}

// ProcessCampaignDonation debits the donation from the wallet (floored at
// zero), converts the full amount to impact, and appends a DONATION ledger
// record with a negative user-credited amount.
func (p *transactionProcessor) ProcessCampaignDonation(ctx context.Context, campaignID, userID string, amount decimal.Decimal, campaignTitle string) (*DonationResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}

	txController, err := p.beginTx(ctx, p.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("campaign donation: failed to begin transaction: %w", err)
	}
	defer p.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("campaign donation: transaction controller does not implement DBExecutor")
	}

	wallet, err := p.walletRepo.GetOrCreateForUpdate(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("campaign donation: failed to get wallet for user %s: %w", userID, err)
	}

	donation := amount.Round(2)
	// The full donation is routed to the nature fund on this path.
	impact := p.converter.ToImpact(donation)

	wallet.Balance = debitFloored(wallet.Balance, donation)
	wallet.TotalDonated = wallet.TotalDonated.Add(donation).Round(2)
	applyImpact(wallet, impact)

	if err := p.walletRepo.SetWalletFields(ctx, txExecutor, wallet); err != nil {
		return nil, fmt.Errorf("campaign donation: failed to update wallet: %w", err)
	}

	transaction := domain.NewTransaction(userID, domain.TransactionTypeDonation, donation,
		donation.Neg(), donation, domain.ReferenceTypeCampaign, campaignID,
		fmt.Sprintf("Donation to: %s", campaignTitle))
	transaction.NatureShare = decimal.NewFromInt(1)
	transaction.TreesPlanted = impact.Trees
	transaction.AnimalsFed = impact.AnimalsFed
	transaction.CO2OffsetKg = impact.CO2OffsetKg
	if err := p.transactionRepo.AppendTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("campaign donation: failed to append transaction: %w", err)
	}

	if err := p.commitTx(txController); err != nil {
		return nil, fmt.Errorf("campaign donation: failed to commit transaction: %w", err)
	}

	return &DonationResult{
		Amount:      donation,
		Impact:      impact,
		NewBalance:  wallet.Balance,
		Transaction: transaction,
	}, nil
}

// GetWallet returns the user's wallet state. An absent wallet is not an
// error: the zero-valued default is returned, matching the implicit
// creation semantics of the store.
func (p *transactionProcessor) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	wallet, err := p.walletRepo.GetWallet(ctx, p.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return domain.NewWallet(userID), nil
		}
		return nil, fmt.Errorf("get wallet: failed to get wallet for user %s: %w", userID, err)
	}
	return wallet, nil
}

// GetTransactionHistory retrieves a paginated list of the user's ledger
// records, newest first.
func (p *transactionProcessor) GetTransactionHistory(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions, totalCount, err := p.transactionRepo.GetTransactionsByUserID(ctx, p.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve transaction history: %w", err)
	}
	return transactions, totalCount, nil
}

// applyImpact folds an impact result into the wallet's cumulative counters.
func applyImpact(wallet *domain.Wallet, impact finance.ImpactResult) {
	wallet.TreesPlanted += impact.Trees
	wallet.AnimalsFed += impact.AnimalsFed
	wallet.CO2OffsetKg = wallet.CO2OffsetKg.Add(impact.CO2OffsetKg)
}

// debitFloored subtracts amount from balance, clamping at zero. The
// persisted balance never goes negative even when the debit nominally
// exceeds it.
func debitFloored(balance, amount decimal.Decimal) decimal.Decimal {
	next := balance.Sub(amount).Round(2)
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}
