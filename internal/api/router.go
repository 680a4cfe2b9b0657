// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"greenledger/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(ledgerHandler *handler.LedgerHandler, adoptionHandler *handler.AdoptionHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/wallet", ledgerHandler.GetWallet)
		r.Get("/transactions", ledgerHandler.GetTransactionHistory)
		r.Post("/sales", ledgerHandler.ProcessSale)
		r.Post("/rewards", ledgerHandler.ProcessReward)
		r.Post("/donations", ledgerHandler.ProcessDonation)

		r.Post("/sponsorships", adoptionHandler.CreateSponsorship)
		r.Get("/sponsorships", adoptionHandler.ListSponsorships)
		r.Get("/adoption-stats", adoptionHandler.GetAdoptionStats)
	})

	// Cancellation addresses the sponsorship directly, not through the user
	r.Delete("/sponsorships/{sponsorshipID}", adoptionHandler.CancelSponsorship)

	return r
}
