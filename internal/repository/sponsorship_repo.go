// internal/repository/sponsorship_repo.go
package repository

import (
	"context"
	"time"

	"greenledger/internal/domain"
)

// SponsorshipRepository defines the interface for sponsorship persistence.
// Sponsorships are never hard-deleted; cancellation updates the status in
// place and retains the record.
type SponsorshipRepository interface {
	// AppendSponsorship inserts a new sponsorship record using the provided DBExecutor.
	AppendSponsorship(ctx context.Context, q DBExecutor, sponsorship *domain.Sponsorship) error
	// GetSponsorshipByID retrieves a single sponsorship.
	GetSponsorshipByID(ctx context.Context, q DBExecutor, id string) (*domain.Sponsorship, error)
	// ListSponsorshipsByUserID retrieves all of a user's sponsorships,
	// regardless of status and in no guaranteed order. Callers filter by
	// status themselves.
	ListSponsorshipsByUserID(ctx context.Context, q DBExecutor, userID string) ([]domain.Sponsorship, error)
	// MarkCancelled sets status to cancelled and records the cancellation
	// time. Returns util.ErrNotFound if no such sponsorship exists.
	MarkCancelled(ctx context.Context, q DBExecutor, id string, cancelledAt time.Time) error
}
