package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/interfaces/rest"
)

type ReturnResponse struct {
	OrderNumber   string `json:"order_number"`
	TransactionID string `json:"transaction_id"`
	State         string `json:"state"`
}

// Return handles GET /payment/return, the customer's synchronous redirect
// back from the hosted checkout. The final state comes from a fresh provider
// pull, never from the redirect itself.
func (h *Handlers) Return(w http.ResponseWriter, r *http.Request) {
	orderNumber, transactionID, err := returnParams(r)
	if err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	state, err := h.checkoutService.Finalize(r.Context(), transactionID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, ReturnResponse{
		OrderNumber:   orderNumber,
		TransactionID: transactionID.String(),
		State:         string(state),
	})
}

// Cancel handles GET /payment/cancel: the customer backed out on the
// provider page.
func (h *Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	orderNumber, transactionID, err := returnParams(r)
	if err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	state, err := h.checkoutService.Cancel(r.Context(), transactionID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, ReturnResponse{
		OrderNumber:   orderNumber,
		TransactionID: transactionID.String(),
		State:         string(state),
	})
}

func returnParams(r *http.Request) (string, uuid.UUID, error) {
	orderNumber := r.URL.Query().Get("orderId")
	rawTransactionID := r.URL.Query().Get("transactionId")
	if orderNumber == "" || rawTransactionID == "" {
		return "", uuid.Nil, errors.New("orderId and transactionId are required")
	}

	transactionID, err := uuid.Parse(rawTransactionID)
	if err != nil {
		return "", uuid.Nil, err
	}
	return orderNumber, transactionID, nil
}
