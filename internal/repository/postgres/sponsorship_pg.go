// internal/repository/postgres/sponsorship_pg.go
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

// SponsorshipRepository implements repository.SponsorshipRepository for
// PostgreSQL.
type SponsorshipRepository struct {
	// Methods receive a DBExecutor directly instead of holding *sqlx.DB
}

// NewSponsorshipRepository creates a new SponsorshipRepository.
func NewSponsorshipRepository(db *sqlx.DB) repository.SponsorshipRepository {
	return &SponsorshipRepository{}
}

const sponsorshipColumns = `id, user_id, animal_id, animal_name, species, adoption_level,
	monthly_fee, status, created_at, next_charge_date, cancelled_at`

// AppendSponsorship inserts a new sponsorship record using the provided DBExecutor.
func (r *SponsorshipRepository) AppendSponsorship(ctx context.Context, q repository.DBExecutor, sponsorship *domain.Sponsorship) error {
	query := `INSERT INTO sponsorships (id, user_id, animal_id, animal_name, species, adoption_level,
	              monthly_fee, status, created_at, next_charge_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := q.ExecContext(ctx, query,
		sponsorship.ID,
		sponsorship.UserID,
		sponsorship.AnimalID,
		sponsorship.AnimalName,
		sponsorship.Species,
		sponsorship.AdoptionLevel,
		sponsorship.MonthlyFee,
		sponsorship.Status,
		sponsorship.CreatedAt,
		sponsorship.NextChargeDate,
	)
	if err != nil {
		return fmt.Errorf("failed to append sponsorship: %w", err)
	}
	return nil
}

// GetSponsorshipByID retrieves a sponsorship by ID using the provided DBExecutor.
func (r *SponsorshipRepository) GetSponsorshipByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Sponsorship, error) {
	var sponsorship domain.Sponsorship
	query := `SELECT ` + sponsorshipColumns + ` FROM sponsorships WHERE id = $1`
	err := q.GetContext(ctx, &sponsorship, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sponsorship %s: %w", id, err)
	}
	return &sponsorship, nil
}

// ListSponsorshipsByUserID retrieves all sponsorships for a user, in no
// guaranteed order. Status filtering is left to the caller.
func (r *SponsorshipRepository) ListSponsorshipsByUserID(ctx context.Context, q repository.DBExecutor, userID string) ([]domain.Sponsorship, error) {
	sponsorships := []domain.Sponsorship{}
	query := `SELECT ` + sponsorshipColumns + ` FROM sponsorships WHERE user_id = $1`
	err := q.SelectContext(ctx, &sponsorships, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsorships for user %s: %w", userID, err)
	}
	return sponsorships, nil
}

// MarkCancelled soft-deletes a sponsorship: the record is kept with status
// set to cancelled and the cancellation time recorded.
func (r *SponsorshipRepository) MarkCancelled(ctx context.Context, q repository.DBExecutor, id string, cancelledAt time.Time) error {
	query := `UPDATE sponsorships SET status = $1, cancelled_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, domain.SponsorshipStatusCancelled, cancelledAt, id)
	if err != nil {
		return fmt.Errorf("failed to cancel sponsorship %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after cancelling sponsorship %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
