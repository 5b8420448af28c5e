package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/interfaces/rest"
)

type CaptureResponse struct {
	TransactionID string `json:"transaction_id"`
	State         string `json:"state"`
}

// Capture handles POST /transactions/{id}/capture for uncaptured charges
// that need an explicit settle.
func (h *Handlers) Capture(w http.ResponseWriter, r *http.Request) {
	transactionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	state, err := h.checkoutService.Capture(r.Context(), transactionID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, CaptureResponse{
		TransactionID: transactionID.String(),
		State:         string(state),
	})
}
