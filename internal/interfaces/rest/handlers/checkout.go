package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/application/services"
	"github.com/payrexx-gateway/internal/domain"
	"github.com/payrexx-gateway/internal/interfaces/rest"
	"github.com/shopspring/decimal"
)

type CheckoutRequest struct {
	OrderNumber string  `json:"order_number" validate:"required"`
	Amount      string  `json:"amount" validate:"required"`
	Currency    string  `json:"currency" validate:"required,len=3"`
	VATRate     float64 `json:"vat_rate"`
	PaymentMean string  `json:"payment_mean" validate:"required"`

	Customer CheckoutCustomer `json:"customer"`
	Basket   []CheckoutItem   `json:"basket"`
	Purpose  string           `json:"purpose"`

	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

type CheckoutCustomer struct {
	Forename   string `json:"forename"`
	Surname    string `json:"surname"`
	Email      string `json:"email"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	Place      string `json:"place"`
	Country    string `json:"country"`
}

type CheckoutItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	Amount      string `json:"amount"`
}

type CheckoutResponse struct {
	TransactionID string `json:"transaction_id"`
	State         string `json:"state"`
	RedirectURL   string `json:"redirect_url"`
}

// Checkout handles POST /checkout: it opens a hosted payment session and
// returns the provider link the customer must be redirected to.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	cmd := services.CreateSessionCommand{
		OrderNumber: req.OrderNumber,
		Amount:      amount,
		Currency:    req.Currency,
		VATRate:     req.VATRate,
		PaymentMean: req.PaymentMean,
		Purpose:     req.Purpose,
		SuccessURL:  req.SuccessURL,
		CancelURL:   req.CancelURL,
		Customer: application.CustomerDetails{
			Forename:   req.Customer.Forename,
			Surname:    req.Customer.Surname,
			Email:      req.Customer.Email,
			Street:     req.Customer.Street,
			PostalCode: req.Customer.PostalCode,
			Place:      req.Customer.Place,
			Country:    req.Customer.Country,
		},
	}
	for _, item := range req.Basket {
		itemAmount, err := decimal.NewFromString(item.Amount)
		if err != nil {
			rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
			return
		}
		cmd.Basket = append(cmd.Basket, application.BasketItem{
			Name:            item.Name,
			Description:     item.Description,
			SKU:             item.SKU,
			Quantity:        item.Quantity,
			AmountMinorUnit: domain.MinorUnits(itemAmount),
		})
	}

	result, err := h.checkoutService.CreateSession(r.Context(), cmd)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, CheckoutResponse{
		TransactionID: result.Transaction.ID.String(),
		State:         string(result.Transaction.State),
		RedirectURL:   result.RedirectURL,
	})
}
