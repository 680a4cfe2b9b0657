// internal/service/adoption.go
package service

import (
	"context"
	"fmt"
	"time"

	"greenledger/internal/domain"
	"greenledger/internal/finance"
	"greenledger/internal/repository"
	"greenledger/internal/util"
	"greenledger/pkg/db"

	"github.com/shopspring/decimal"
)

// AdoptionService defines the interface for animal sponsorships.
type AdoptionService interface {
	CreateSponsorship(ctx context.Context, userID string, animal domain.AnimalProfile) (*SponsorshipResult, error)
	CancelSponsorship(ctx context.Context, sponsorshipID string) error
	GetUserSponsorships(ctx context.Context, userID string) ([]domain.Sponsorship, error)
	GetAdoptionStats(ctx context.Context, userID string) (*AdoptionStats, error)
}

// SponsorshipResult summarizes a created sponsorship for the caller.
type SponsorshipResult struct {
	SponsorshipID string               `json:"sponsorship_id"`
	Sponsorship   *domain.Sponsorship  `json:"sponsorship"`
	Impact        finance.ImpactResult `json:"impact"`
	NewBalance    decimal.Decimal      `json:"new_balance"`
}

// AdoptionStats aggregates a user's active sponsorships.
type AdoptionStats struct {
	ActiveSponsorships int                  `json:"active_sponsorships"`
	MonthlyCommitment  decimal.Decimal      `json:"monthly_commitment"`
	Impact             finance.ImpactResult `json:"impact"`
}

// adoptionService implements the AdoptionService interface.
type adoptionService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	walletRepo      repository.WalletRepository
	sponsorshipRepo repository.SponsorshipRepository
	converter       finance.Converter
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewAdoptionService creates a new AdoptionService.
func NewAdoptionService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	sponsorshipRepo repository.SponsorshipRepository,
	converter finance.Converter,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) AdoptionService {
	return &adoptionService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		walletRepo:      walletRepo,
		sponsorshipRepo: sponsorshipRepo,
		converter:       converter,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// CreateSponsorship records an active sponsorship, charges the first
// monthly fee (floored at zero), and returns the impact of the fee's
// nature-fund portion. Unlike item sales, this path always uses the default
// 70/30 split; the per-user override is not consulted.
func (s *adoptionService) CreateSponsorship(ctx context.Context, userID string, animal domain.AnimalProfile) (*SponsorshipResult, error) {
	if animal.ID == "" || animal.MonthlyFee.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create sponsorship: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create sponsorship: transaction controller does not implement DBExecutor")
	}

	fee := animal.MonthlyFee.Round(2)
	animal.MonthlyFee = fee
	sponsorship := domain.NewSponsorship(userID, animal)
	if err := s.sponsorshipRepo.AppendSponsorship(ctx, txExecutor, sponsorship); err != nil {
		return nil, fmt.Errorf("create sponsorship: failed to append sponsorship: %w", err)
	}

	split := finance.Split(fee, nil)
	impact := s.converter.ToImpact(split.NatureFund)

	wallet, err := s.walletRepo.GetOrCreateForUpdate(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("create sponsorship: failed to get wallet for user %s: %w", userID, err)
	}

	wallet.Balance = debitFloored(wallet.Balance, fee)
	wallet.AnimalsSaved++
	wallet.TotalDonated = wallet.TotalDonated.Add(fee).Round(2)

	if err := s.walletRepo.SetWalletFields(ctx, txExecutor, wallet); err != nil {
		return nil, fmt.Errorf("create sponsorship: failed to update wallet: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create sponsorship: failed to commit transaction: %w", err)
	}

	return &SponsorshipResult{
		SponsorshipID: sponsorship.ID,
		Sponsorship:   sponsorship,
		Impact:        impact,
		NewBalance:    wallet.Balance,
	}, nil
}

// CancelSponsorship soft-deletes a sponsorship: the record is retained with
// status cancelled and no refund is issued.
func (s *adoptionService) CancelSponsorship(ctx context.Context, sponsorshipID string) error {
	err := s.sponsorshipRepo.MarkCancelled(ctx, s.dbExecutor, sponsorshipID, time.Now().UTC())
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return util.ErrSponsorshipNotFound
		}
		return fmt.Errorf("cancel sponsorship: failed to cancel %s: %w", sponsorshipID, err)
	}
	return nil
}

// GetUserSponsorships returns the user's active sponsorships, in no
// guaranteed order. Callers that need an ordering sort themselves.
func (s *adoptionService) GetUserSponsorships(ctx context.Context, userID string) ([]domain.Sponsorship, error) {
	all, err := s.sponsorshipRepo.ListSponsorshipsByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get user sponsorships: %w", err)
	}

	active := make([]domain.Sponsorship, 0, len(all))
	for _, sp := range all {
		if sp.Status == domain.SponsorshipStatusActive {
			active = append(active, sp)
		}
	}
	return active, nil
}

// GetAdoptionStats aggregates the user's active sponsorships. The impact is
// recomputed from each monthly fee's nature-fund portion at read time, not
// read back from stored records, so a change to the conversion rates is
// reflected retroactively in the aggregate. Each sponsorship is converted
// independently before summing; the combined fund is never converted as one
// amount.
func (s *adoptionService) GetAdoptionStats(ctx context.Context, userID string) (*AdoptionStats, error) {
	active, err := s.GetUserSponsorships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get adoption stats: %w", err)
	}

	stats := &AdoptionStats{
		ActiveSponsorships: len(active),
		MonthlyCommitment:  decimal.Zero,
		Impact:             finance.ImpactResult{CO2OffsetKg: decimal.Zero},
	}
	for _, sp := range active {
		stats.MonthlyCommitment = stats.MonthlyCommitment.Add(sp.MonthlyFee).Round(2)
		split := finance.Split(sp.MonthlyFee, nil)
		stats.Impact = stats.Impact.Add(s.converter.ToImpact(split.NatureFund))
	}
	return stats, nil
}
