package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouteHandlers is implemented by the handlers package; it keeps the router
// free of a dependency cycle with the middleware.
type RouteHandlers interface {
	Health(w http.ResponseWriter, r *http.Request)
	Checkout(w http.ResponseWriter, r *http.Request)
	Webhook(w http.ResponseWriter, r *http.Request)
	Return(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Capture(w http.ResponseWriter, r *http.Request)
}

// NewRouter wires all routes. Cross-cutting middleware (recovery, logging,
// timeout) is layered on top by the caller.
func NewRouter(h RouteHandlers, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Get("/health", h.Health)

	r.Post("/checkout", h.Checkout)
	r.Post("/payment-webhook", h.Webhook)
	r.Get("/payment/return", h.Return)
	r.Get("/payment/cancel", h.Cancel)
	r.Post("/transactions/{id}/capture", h.Capture)

	logger.Info("routes configured")

	return r
}
