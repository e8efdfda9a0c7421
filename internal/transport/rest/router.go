package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/beledshul/sponsorship/internal/expense"
	"github.com/beledshul/sponsorship/internal/payment"
	"github.com/beledshul/sponsorship/internal/sponsorship"
	"github.com/beledshul/sponsorship/internal/transport/middleware"
	"github.com/beledshul/sponsorship/internal/transport/sse"
	"github.com/beledshul/sponsorship/internal/transport/swagger"
)

// RegisterAllRoutes wires every handler onto the router. There is no
// authentication layer: admin endpoints are open, matching the original
// application.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	allowedOrigins string,
	expenseHandler *expense.Handler,
	sponsorshipHandler *sponsorship.Handler,
	paymentHandler *payment.Handler,
	eventStream *sse.Stream,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Live update stream
		if eventStream != nil {
			r.Get("/events", eventStream.ServeHTTP)
		}

		// Expense catalog
		if expenseHandler != nil {
			r.Route("/expenses", func(er chi.Router) {
				er.Get("/", expenseHandler.ListExpenses)
				er.Post("/", expenseHandler.CreateExpense)
				er.Get("/{id}", expenseHandler.GetExpense)
				er.Patch("/{id}", expenseHandler.UpdateExpense)
				er.Delete("/{id}", expenseHandler.DeleteExpense)
				er.Get("/{id}/progress", sponsorshipHandler.SlotProgress)
			})
			r.Get("/summary", expenseHandler.Summary)
		}

		// Sponsorship ledger
		if sponsorshipHandler != nil {
			r.Route("/sponsorships", func(sr chi.Router) {
				sr.Get("/", sponsorshipHandler.ListSponsorships)
				sr.Post("/", sponsorshipHandler.CreateSponsorship)
				sr.Get("/members", sponsorshipHandler.ListMembers)
				sr.Delete("/{id}", sponsorshipHandler.DeleteSponsorship)
				sr.Get("/{id}/receipt", sponsorshipHandler.Receipt)
			})
		}

		// Cosmetic card pre-checks; no payment is ever processed
		if paymentHandler != nil {
			r.Post("/payment/precheck", paymentHandler.Precheck)
		}
	})
}
