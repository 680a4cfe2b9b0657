// internal/api/handler/ledger.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"greenledger/internal/api/types"
	"greenledger/internal/domain"
	"greenledger/internal/service"
	"greenledger/internal/util" // For custom errors
)

// DefaultTimeout bounds request handling at the router level.
const DefaultTimeout = 60 * time.Second

// LedgerHandler handles HTTP requests for wallet and ledger operations.
type LedgerHandler struct {
	processor service.TransactionProcessor
	logger    *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(processor service.TransactionProcessor, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		processor: processor,
		logger:    logger,
	}
}

// respondWithJSON sends a JSON response.
func respondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps service errors to HTTP status codes. Every
// unrecognized processing failure surfaces as a single generic message;
// partial-success states are never exposed.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrNotFound),
		util.IsError(err, util.ErrWalletNotFound),
		util.IsError(err, util.ErrSponsorshipNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(w, logger, statusCode, map[string]string{"error": message})
}

// SaleRequest represents the request body for an item sale.
type SaleRequest struct {
	ItemID      string          `json:"item_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// ProcessSale handles an item sale.
// POST /users/{userID}/sales
func (h *LedgerHandler) ProcessSale(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.ItemID == "" || req.Amount.LessThanOrEqual(decimal.Zero) {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	result, err := h.processor.ProcessItemSale(r.Context(), req.ItemID, userID, req.Amount, req.Description)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Sale processed",
		"result":  result,
	})
}

// RewardRequest represents the request body for an event reward.
type RewardRequest struct {
	EventID    string          `json:"event_id"`
	Amount     decimal.Decimal `json:"amount"`
	EventTitle string          `json:"event_title"`
}

// ProcessReward handles an event attendance reward.
// POST /users/{userID}/rewards
func (h *LedgerHandler) ProcessReward(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req RewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.EventID == "" || req.Amount.LessThanOrEqual(decimal.Zero) {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	result, err := h.processor.ProcessEventReward(r.Context(), req.EventID, userID, req.Amount, req.EventTitle)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Reward credited",
		"result":  result,
	})
}

// DonationRequest represents the request body for a campaign donation.
type DonationRequest struct {
	CampaignID    string          `json:"campaign_id"`
	Amount        decimal.Decimal `json:"amount"`
	CampaignTitle string          `json:"campaign_title"`
}

// ProcessDonation handles a campaign donation.
// POST /users/{userID}/donations
func (h *LedgerHandler) ProcessDonation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req DonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.CampaignID == "" || req.Amount.LessThanOrEqual(decimal.Zero) {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	result, err := h.processor.ProcessCampaignDonation(r.Context(), req.CampaignID, userID, req.Amount, req.CampaignTitle)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Donation processed",
		"result":  result,
	})
}

// GetWallet handles the wallet state request. An unknown user gets the
// zero-valued default wallet, not a 404.
// GET /users/{userID}/wallet
func (h *LedgerHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	wallet, err := h.processor.GetWallet(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, wallet)
}

// GetTransactionHistory handles the paginated ledger history request.
// GET /users/{userID}/transactions
func (h *LedgerHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	transactions, totalCount, err := h.processor.GetTransactionHistory(r.Context(), userID, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}
