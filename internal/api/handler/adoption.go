// internal/api/handler/adoption.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"greenledger/internal/domain"
	"greenledger/internal/service"
	"greenledger/internal/util"
)

// AdoptionHandler handles HTTP requests for animal sponsorships.
type AdoptionHandler struct {
	service service.AdoptionService
	logger  *slog.Logger
}

// NewAdoptionHandler creates a new AdoptionHandler.
func NewAdoptionHandler(svc service.AdoptionService, logger *slog.Logger) *AdoptionHandler {
	return &AdoptionHandler{
		service: svc,
		logger:  logger,
	}
}

// SponsorshipRequest represents the request body for creating a sponsorship.
type SponsorshipRequest struct {
	AnimalID      string          `json:"animal_id"`
	AnimalName    string          `json:"animal_name"`
	Species       string          `json:"species"`
	ImpactMetric  string          `json:"impact_metric"`
	AdoptionLevel string          `json:"adoption_level"`
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
}

// CreateSponsorship handles a new sponsorship.
// POST /users/{userID}/sponsorships
func (h *AdoptionHandler) CreateSponsorship(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req SponsorshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.AnimalID == "" || req.MonthlyFee.LessThanOrEqual(decimal.Zero) {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	result, err := h.service.CreateSponsorship(r.Context(), userID, domain.AnimalProfile{
		ID:            req.AnimalID,
		Name:          req.AnimalName,
		Species:       req.Species,
		ImpactMetric:  req.ImpactMetric,
		AdoptionLevel: req.AdoptionLevel,
		MonthlyFee:    req.MonthlyFee,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, result)
}

// CancelSponsorship handles a cancellation. The record is retained with
// status cancelled; there is no refund.
// DELETE /sponsorships/{sponsorshipID}
func (h *AdoptionHandler) CancelSponsorship(w http.ResponseWriter, r *http.Request) {
	sponsorshipID := chi.URLParam(r, "sponsorshipID")

	if err := h.service.CancelSponsorship(r.Context(), sponsorshipID); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Sponsorship cancelled"})
}

// ListSponsorships handles the active-sponsorships request.
// GET /users/{userID}/sponsorships
func (h *AdoptionHandler) ListSponsorships(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	sponsorships, err := h.service.GetUserSponsorships(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{"data": sponsorships})
}

// GetAdoptionStats handles the aggregate stats request.
// GET /users/{userID}/adoption-stats
func (h *AdoptionHandler) GetAdoptionStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	stats, err := h.service.GetAdoptionStats(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, stats)
}
