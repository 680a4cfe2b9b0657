// internal/domain/sponsorship.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SponsorshipStatus defines the lifecycle state of a sponsorship.
type SponsorshipStatus string

const (
	SponsorshipStatusActive    SponsorshipStatus = "active"
	SponsorshipStatusCancelled SponsorshipStatus = "cancelled"
)

// Sponsorship is a recurring monthly pledge associating a user with an
// adoptable animal. Cancellation is a soft delete: the record is retained
// with status "cancelled" and no refund is issued.
type Sponsorship struct {
	ID             string            `db:"id" json:"id"` // UUID generated on append
	UserID         string            `db:"user_id" json:"user_id"`
	AnimalID       string            `db:"animal_id" json:"animal_id"`
	AnimalName     string            `db:"animal_name" json:"animal_name"`
	Species        string            `db:"species" json:"species"`
	AdoptionLevel  string            `db:"adoption_level" json:"adoption_level"`
	MonthlyFee     decimal.Decimal   `db:"monthly_fee" json:"monthly_fee"`
	Status         SponsorshipStatus `db:"status" json:"status"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	NextChargeDate time.Time         `db:"next_charge_date" json:"next_charge_date"`
	CancelledAt    *time.Time        `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

// AnimalProfile carries the adoptable-animal attributes a caller supplies
// when creating a sponsorship.
type AnimalProfile struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Species       string          `json:"species"`
	ImpactMetric  string          `json:"impact_metric"`
	AdoptionLevel string          `json:"adoption_level"`
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
}

// NewSponsorship creates an active sponsorship with a generated ID and the
// next charge scheduled 30 days out.
func NewSponsorship(userID string, animal AnimalProfile) *Sponsorship {
	now := time.Now().UTC()
	return &Sponsorship{
		ID:             uuid.NewString(),
		UserID:         userID,
		AnimalID:       animal.ID,
		AnimalName:     animal.Name,
		Species:        animal.Species,
		AdoptionLevel:  animal.AdoptionLevel,
		MonthlyFee:     animal.MonthlyFee,
		Status:         SponsorshipStatusActive,
		CreatedAt:      now,
		NextChargeDate: now.Add(30 * 24 * time.Hour),
	}
}
