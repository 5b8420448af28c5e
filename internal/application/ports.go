package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/payrexx-gateway/internal/domain"
)

// GatewayClient is the port for the Payrexx REST API.
type GatewayClient interface {
	CreateGateway(ctx context.Context, req CreateGatewayRequest) (*domain.PaymentSession, error)
	GetGateway(ctx context.Context, id int) (*domain.PaymentSession, error)
	DeleteGateway(ctx context.Context, id int) error
	GetTransaction(ctx context.Context, id int) (*domain.ProviderTransaction, error)
	CaptureTransaction(ctx context.Context, id int) (*domain.ProviderTransaction, error)
}

// CreateGatewayRequest carries everything the provider needs to open a
// hosted checkout session.
type CreateGatewayRequest struct {
	OrderReference  string
	AmountMinorUnit int64
	VATRate         float64
	Currency        string
	PaymentMean     string
	Customer        CustomerDetails
	Basket          []BasketItem
	Purpose         string
	ValidityMinutes int
	SuccessURL      string
	CancelURL       string
}

type CustomerDetails struct {
	Forename   string
	Surname    string
	Email      string
	Street     string
	PostalCode string
	Place      string
	Country    string
}

type BasketItem struct {
	Name            string
	Description     string
	SKU             string
	Quantity        int
	AmountMinorUnit int64
}

// TransactionRepository is the port for order-transaction persistence.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.OrderTransaction) error
	Update(ctx context.Context, transaction *domain.OrderTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.OrderTransaction, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.OrderTransaction, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.OrderTransaction, error)
	FindStale(ctx context.Context, olderThan time.Time, limit int) ([]*domain.OrderTransaction, error)
	WithTx(ctx context.Context, fn func(repo TransactionRepository) error) error
}
