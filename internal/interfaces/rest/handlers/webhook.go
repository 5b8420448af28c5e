package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/application/services"
	"github.com/payrexx-gateway/internal/interfaces/rest"
)

// WebhookRequest is the provider's notification body.
type WebhookRequest struct {
	Transaction WebhookTransaction `json:"transaction"`
}

type WebhookTransaction struct {
	ID          int            `json:"id"`
	Status      string         `json:"status"`
	ReferenceID string         `json:"referenceId"`
	Invoice     WebhookInvoice `json:"invoice"`
}

type WebhookInvoice struct {
	PaymentRequestID int `json:"paymentRequestId"`
}

type WebhookResponse struct {
	Outcome string `json:"outcome"`
}

// Webhook handles POST /payment-webhook. Benign no-ops (replays, already
// paid orders) are answered 200; rejected notifications get 400 and touch
// no state.
func (h *Handlers) Webhook(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewIncompleteDataError(), h.logger)
		return
	}

	outcome, err := h.webhookService.Handle(r.Context(), services.Notification{
		TransactionID: req.Transaction.ID,
		Status:        req.Transaction.Status,
		ReferenceID:   req.Transaction.ReferenceID,
		GatewayID:     req.Transaction.Invoice.PaymentRequestID,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, WebhookResponse{Outcome: string(outcome)})
}
