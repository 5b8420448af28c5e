package payrexx

import (
	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/domain"
)

// apiResponse is the provider's uniform envelope. Data carries one element
// for single-resource calls.
type apiResponse[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    []T    `json:"data"`
}

type createGatewayRequest struct {
	Amount             int64        `json:"amount"`
	VATRate            float64      `json:"vatRate,omitempty"`
	Currency           string       `json:"currency"`
	SuccessRedirectURL string       `json:"successRedirectUrl"`
	FailedRedirectURL  string       `json:"failedRedirectUrl"`
	CancelRedirectURL  string       `json:"cancelRedirectUrl"`
	SkipResultPage     bool         `json:"skipResultPage"`
	Pm                 []string     `json:"pm"`
	ReferenceID        string       `json:"referenceId"`
	Validity           int          `json:"validity"`
	Purpose            string       `json:"purpose,omitempty"`
	Basket             []basketItem `json:"basket,omitempty"`
	Fields             fields       `json:"fields"`
}

type basketItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	Amount      int64  `json:"amount"`
	SKU         string `json:"sku,omitempty"`
}

type fields struct {
	Forename   fieldValue `json:"forename"`
	Surname    fieldValue `json:"surname"`
	Email      fieldValue `json:"email"`
	Street     fieldValue `json:"street"`
	PostalCode fieldValue `json:"postcode"`
	Place      fieldValue `json:"place"`
	Country    fieldValue `json:"country"`
}

type fieldValue struct {
	Value string `json:"value"`
}

type gatewayModel struct {
	ID          int            `json:"id"`
	Status      string         `json:"status"`
	Hash        string         `json:"hash"`
	ReferenceID string         `json:"referenceId"`
	Link        string         `json:"link"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency"`
	Pm          []string       `json:"pm"`
	Validity    int            `json:"validity"`
	Invoices    []invoiceModel `json:"invoices"`
}

type invoiceModel struct {
	PaymentRequestID int                `json:"paymentRequestId"`
	Transactions     []transactionModel `json:"transactions"`
}

type transactionModel struct {
	ID     int    `json:"id"`
	UUID   string `json:"uuid"`
	Status string `json:"status"`
}

func newCreateGatewayRequest(req application.CreateGatewayRequest) createGatewayRequest {
	body := createGatewayRequest{
		Amount:             req.AmountMinorUnit,
		VATRate:            req.VATRate,
		Currency:           req.Currency,
		SuccessRedirectURL: req.SuccessURL,
		FailedRedirectURL:  req.CancelURL,
		CancelRedirectURL:  req.CancelURL,
		SkipResultPage:     true,
		Pm:                 []string{req.PaymentMean},
		ReferenceID:        req.OrderReference,
		Validity:           req.ValidityMinutes,
		Purpose:            req.Purpose,
		Fields: fields{
			Forename:   fieldValue{req.Customer.Forename},
			Surname:    fieldValue{req.Customer.Surname},
			Email:      fieldValue{req.Customer.Email},
			Street:     fieldValue{req.Customer.Street},
			PostalCode: fieldValue{req.Customer.PostalCode},
			Place:      fieldValue{req.Customer.Place},
			Country:    fieldValue{req.Customer.Country},
		},
	}
	for _, item := range req.Basket {
		body.Basket = append(body.Basket, basketItem{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			Amount:      item.AmountMinorUnit,
			SKU:         item.SKU,
		})
	}
	return body
}

func toSession(m gatewayModel) *domain.PaymentSession {
	session := &domain.PaymentSession{
		ID:              m.ID,
		OrderReference:  m.ReferenceID,
		AmountMinorUnit: m.Amount,
		Currency:        m.Currency,
		Status:          domain.ProviderStatus(m.Status),
		PaymentMeans:    m.Pm,
		ValidityMinutes: m.Validity,
		Link:            m.Link,
		Hash:            m.Hash,
	}
	for _, invoice := range m.Invoices {
		mapped := domain.Invoice{PaymentRequestID: invoice.PaymentRequestID}
		for _, tx := range invoice.Transactions {
			mapped.Transactions = append(mapped.Transactions, toProviderTransaction(tx))
		}
		session.Invoices = append(session.Invoices, mapped)
	}
	return session
}

func toProviderTransaction(m transactionModel) domain.ProviderTransaction {
	return domain.ProviderTransaction{
		ID:     m.ID,
		UUID:   m.UUID,
		Status: domain.ProviderStatus(m.Status),
	}
}
