package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/payrexx-gateway/internal/application/services"
	"github.com/payrexx-gateway/internal/interfaces/rest"
)

// Handlers carries the services behind the HTTP surface.
type Handlers struct {
	checkoutService *services.CheckoutService
	webhookService  *services.WebhookService
	validate        *validator.Validate
	logger          *slog.Logger
}

func NewHandlers(
	checkoutService *services.CheckoutService,
	webhookService *services.WebhookService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		checkoutService: checkoutService,
		webhookService:  webhookService,
		validate:        validator.New(),
		logger:          logger,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
