package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/domain"
)

// MockTransactionRepository is a map-backed repository for tests. Individual
// methods can be overridden through the Fn fields.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.OrderTransaction
	UpdateCalls  int

	CreateFn            func(ctx context.Context, transaction *domain.OrderTransaction) error
	UpdateFn            func(ctx context.Context, transaction *domain.OrderTransaction) error
	FindByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.OrderTransaction, error)
	FindByOrderNumberFn func(ctx context.Context, orderNumber string) (*domain.OrderTransaction, error)
	FindStaleFn         func(ctx context.Context, olderThan time.Time, limit int) ([]*domain.OrderTransaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[uuid.UUID]*domain.OrderTransaction),
	}
}

// Seed stores a transaction directly, bypassing any Fn override.
func (m *MockTransactionRepository) Seed(transaction *domain.OrderTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *transaction
	m.transactions[transaction.ID] = &copied
}

// Get returns the stored transaction, for assertions.
func (m *MockTransactionRepository) Get(id uuid.UUID) *domain.OrderTransaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok {
		copied := *t
		return &copied
	}
	return nil
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.OrderTransaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, transaction)
	}
	m.Seed(transaction)
	return nil
}

func (m *MockTransactionRepository) Update(ctx context.Context, transaction *domain.OrderTransaction) error {
	m.mu.Lock()
	m.UpdateCalls++
	m.mu.Unlock()
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, transaction)
	}
	if m.Get(transaction.ID) == nil {
		return domain.NewTransactionNotFoundError(transaction.ID.String())
	}
	m.Seed(transaction)
	return nil
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.OrderTransaction, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	if t := m.Get(id); t != nil {
		return t, nil
	}
	return nil, domain.NewTransactionNotFoundError(id.String())
}

func (m *MockTransactionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.OrderTransaction, error) {
	return m.FindByID(ctx, id)
}

func (m *MockTransactionRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.OrderTransaction, error) {
	if m.FindByOrderNumberFn != nil {
		return m.FindByOrderNumberFn(ctx, orderNumber)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.transactions {
		if t.OrderNumber == orderNumber {
			copied := *t
			return &copied, nil
		}
	}
	return nil, domain.NewTransactionNotFoundError(orderNumber)
}

func (m *MockTransactionRepository) FindStale(ctx context.Context, olderThan time.Time, limit int) ([]*domain.OrderTransaction, error) {
	if m.FindStaleFn != nil {
		return m.FindStaleFn(ctx, olderThan, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var stale []*domain.OrderTransaction
	for _, t := range m.transactions {
		if !t.IsResolved() && t.CreatedAt.Before(olderThan) && len(stale) < limit {
			copied := *t
			stale = append(stale, &copied)
		}
	}
	return stale, nil
}

func (m *MockTransactionRepository) WithTx(ctx context.Context, fn func(repo application.TransactionRepository) error) error {
	return fn(m)
}

// MockGatewayClient fakes the provider. Calls are counted so tests can
// assert the provider was never contacted.
type MockGatewayClient struct {
	mu    sync.Mutex
	Calls int

	CreateGatewayFn      func(ctx context.Context, req application.CreateGatewayRequest) (*domain.PaymentSession, error)
	GetGatewayFn         func(ctx context.Context, id int) (*domain.PaymentSession, error)
	DeleteGatewayFn      func(ctx context.Context, id int) error
	GetTransactionFn     func(ctx context.Context, id int) (*domain.ProviderTransaction, error)
	CaptureTransactionFn func(ctx context.Context, id int) (*domain.ProviderTransaction, error)
}

func (m *MockGatewayClient) count() {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
}

func (m *MockGatewayClient) CreateGateway(ctx context.Context, req application.CreateGatewayRequest) (*domain.PaymentSession, error) {
	m.count()
	if m.CreateGatewayFn != nil {
		return m.CreateGatewayFn(ctx, req)
	}
	return &domain.PaymentSession{
		ID:              1001,
		OrderReference:  req.OrderReference,
		AmountMinorUnit: req.AmountMinorUnit,
		Currency:        req.Currency,
		Status:          domain.StatusWaiting,
		Link:            "https://demo.payrexx.com/?payment=1001",
	}, nil
}

func (m *MockGatewayClient) GetGateway(ctx context.Context, id int) (*domain.PaymentSession, error) {
	m.count()
	if m.GetGatewayFn != nil {
		return m.GetGatewayFn(ctx, id)
	}
	return &domain.PaymentSession{ID: id, Status: domain.StatusWaiting}, nil
}

func (m *MockGatewayClient) DeleteGateway(ctx context.Context, id int) error {
	m.count()
	if m.DeleteGatewayFn != nil {
		return m.DeleteGatewayFn(ctx, id)
	}
	return nil
}

func (m *MockGatewayClient) GetTransaction(ctx context.Context, id int) (*domain.ProviderTransaction, error) {
	m.count()
	if m.GetTransactionFn != nil {
		return m.GetTransactionFn(ctx, id)
	}
	return &domain.ProviderTransaction{ID: id, Status: domain.StatusConfirmed}, nil
}

func (m *MockGatewayClient) CaptureTransaction(ctx context.Context, id int) (*domain.ProviderTransaction, error) {
	m.count()
	if m.CaptureTransactionFn != nil {
		return m.CaptureTransactionFn(ctx, id)
	}
	return &domain.ProviderTransaction{ID: id, Status: domain.StatusConfirmed}, nil
}
