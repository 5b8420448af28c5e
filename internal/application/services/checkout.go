package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/domain"
	"github.com/payrexx-gateway/internal/infrastructure/payrexx"
	"github.com/shopspring/decimal"
)

// Hosted checkout sessions stay valid this long at the provider.
const sessionValidityMinutes = 15

// CheckoutService owns the create / fetch / supersede / delete lifecycle of
// payment sessions for one order transaction, and the gateway-id history
// bookkeeping that goes with it.
type CheckoutService struct {
	repo      application.TransactionRepository
	client    application.GatewayClient
	reconcile *ReconcileService
	logger    *slog.Logger
}

func NewCheckoutService(
	repo application.TransactionRepository,
	client application.GatewayClient,
	reconcile *ReconcileService,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		repo:      repo,
		client:    client,
		reconcile: reconcile,
		logger:    logger,
	}
}

// CreateSessionCommand starts one checkout attempt.
type CreateSessionCommand struct {
	OrderNumber string
	Amount      decimal.Decimal
	Currency    string
	VATRate     float64
	PaymentMean string
	Customer    application.CustomerDetails
	Basket      []application.BasketItem
	Purpose     string
	SuccessURL  string
	CancelURL   string
}

// CheckoutResult is what the storefront needs to continue: the transaction
// record and, for non-zero amounts, the provider's hosted checkout link.
type CheckoutResult struct {
	Transaction *domain.OrderTransaction
	RedirectURL string
}

// CreateSession constructs and persists a new payment session for the order.
// A retried checkout reuses the existing order transaction, deletes prior
// unresolved sessions and records the new session id in the bounded
// gateway-id history. Orders with a total of zero or less are marked paid
// immediately without contacting the provider.
func (s *CheckoutService) CreateSession(ctx context.Context, cmd CreateSessionCommand) (*CheckoutResult, error) {
	amountCents := domain.MinorUnits(cmd.Amount)

	transaction, err := s.repo.FindByOrderNumber(ctx, cmd.OrderNumber)
	if err != nil {
		if !domain.IsErrorCode(err, domain.ErrCodeTransactionNotFound) {
			return nil, err
		}
		transaction = &domain.OrderTransaction{
			ID:          uuid.New(),
			OrderNumber: cmd.OrderNumber,
			AmountCents: amountCents,
			Currency:    cmd.Currency,
			State:       domain.StateOpen,
			CreatedAt:   time.Now(),
		}
		if err := s.repo.Create(ctx, transaction); err != nil {
			return nil, err
		}
	}

	if amountCents <= 0 {
		if err := s.reconcile.MarkPaidZeroAmount(ctx, transaction.ID); err != nil {
			return nil, err
		}
		transaction.State = domain.StatePaid
		return &CheckoutResult{Transaction: transaction, RedirectURL: cmd.SuccessURL}, nil
	}

	if err := s.SupersedePriorSessions(ctx, transaction); err != nil {
		return nil, err
	}

	session, err := s.client.CreateGateway(ctx, application.CreateGatewayRequest{
		OrderReference:  cmd.OrderNumber,
		AmountMinorUnit: amountCents,
		VATRate:         cmd.VATRate,
		Currency:        cmd.Currency,
		PaymentMean:     cmd.PaymentMean,
		Customer:        cmd.Customer,
		Basket:          cmd.Basket,
		Purpose:         cmd.Purpose,
		ValidityMinutes: sessionValidityMinutes,
		SuccessURL:      cmd.SuccessURL,
		CancelURL:       cmd.CancelURL,
	})
	if err != nil {
		return nil, domain.NewGatewayCreationError(err)
	}

	err = s.repo.WithTx(ctx, func(txRepo application.TransactionRepository) error {
		current, err := txRepo.FindByIDForUpdate(ctx, transaction.ID)
		if err != nil {
			return err
		}
		current.Gateways.Append(session.ID)
		if err := txRepo.Update(ctx, current); err != nil {
			return err
		}
		transaction = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	state, _, err := s.reconcile.Apply(ctx, transaction.ID, domain.StatusUnconfirmed)
	if err != nil {
		return nil, err
	}
	transaction.State = state

	s.logger.Info("payment session created",
		"order_number", cmd.OrderNumber,
		"transaction_id", transaction.ID,
		"gateway_id", session.ID,
		"amount_cents", amountCents,
		"currency", cmd.Currency,
	)

	return &CheckoutResult{Transaction: transaction, RedirectURL: session.Link}, nil
}

// SupersedePriorSessions deletes every unresolved session recorded on the
// transaction. A session is only dropped from the history once the provider
// confirmed the delete or reports the session gone; a session with a
// confirmed or waiting charge attached is never deleted.
func (s *CheckoutService) SupersedePriorSessions(ctx context.Context, transaction *domain.OrderTransaction) error {
	var removed []int
	for _, gatewayID := range transaction.Gateways.IDs() {
		session, err := s.client.GetGateway(ctx, gatewayID)
		if err != nil {
			if payrexx.IsNotFound(err) {
				removed = append(removed, gatewayID)
				continue
			}
			return err
		}

		if session.HasSettledTransaction() {
			s.logger.Warn("keeping session with settled charge",
				"transaction_id", transaction.ID,
				"gateway_id", gatewayID,
				"session_status", session.Status,
			)
			continue
		}

		if err := s.client.DeleteGateway(ctx, gatewayID); err != nil {
			if !payrexx.IsNotFound(err) {
				return err
			}
		}
		removed = append(removed, gatewayID)
	}

	if len(removed) == 0 {
		return nil
	}

	// The provider calls above ran on an unlocked snapshot; a webhook may
	// have moved the row since. Shrink the history against the fresh locked
	// row so its state is never overwritten with the stale one.
	return s.repo.WithTx(ctx, func(txRepo application.TransactionRepository) error {
		current, err := txRepo.FindByIDForUpdate(ctx, transaction.ID)
		if err != nil {
			return err
		}
		for _, gatewayID := range removed {
			current.Gateways.Remove(gatewayID)
		}
		if err := txRepo.Update(ctx, current); err != nil {
			return err
		}
		*transaction = *current
		return nil
	})
}

// ResolveLatestSession dereferences the most recent gateway-id against the
// provider.
func (s *CheckoutService) ResolveLatestSession(ctx context.Context, transaction *domain.OrderTransaction) (*domain.PaymentSession, error) {
	gatewayID := transaction.Gateways.Latest()
	if gatewayID == 0 {
		return nil, domain.ErrSessionNotFound
	}

	session, err := s.client.GetGateway(ctx, gatewayID)
	if err != nil {
		if payrexx.IsNotFound(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// Finalize handles the customer's synchronous return from the hosted
// checkout page. The provider is re-queried for the authoritative charge
// status; the redirect itself proves nothing. A checkout that produced no
// usable charge resolves to cancellation.
func (s *CheckoutService) Finalize(ctx context.Context, transactionID uuid.UUID) (domain.TransactionState, error) {
	transaction, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		return "", err
	}

	if transaction.AmountCents <= 0 {
		if err := s.reconcile.MarkPaidZeroAmount(ctx, transactionID); err != nil {
			return "", err
		}
		return domain.StatePaid, nil
	}

	session, err := s.ResolveLatestSession(ctx, transaction)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return s.cancelCheckout(ctx, transactionID, "no payment session found")
		}
		return "", err
	}

	providerTx := session.LatestTransaction()
	if providerTx == nil || (session.Status != domain.StatusConfirmed && session.Status != domain.StatusWaiting) {
		// No charge was made; drop the unpaid session before cancelling.
		if err := s.client.DeleteGateway(ctx, session.ID); err != nil && !payrexx.IsNotFound(err) {
			s.logger.Warn("failed to delete unpaid session", "gateway_id", session.ID, "error", err)
		}
		return s.cancelCheckout(ctx, transactionID, "customer left the payment page without paying")
	}

	// Never trust the session snapshot alone; fetch the charge directly.
	confirmed, err := s.client.GetTransaction(ctx, providerTx.ID)
	if err != nil {
		return "", err
	}

	state, _, err := s.reconcile.Apply(ctx, transactionID, confirmed.Status)
	if err != nil {
		return "", err
	}

	if confirmed.Status.IsCheckoutFailure() {
		return state, domain.NewCustomerCanceledError("payment " + string(confirmed.Status))
	}
	return state, nil
}

// Cancel handles the cancel-return redirect: the customer backed out on the
// provider page.
func (s *CheckoutService) Cancel(ctx context.Context, transactionID uuid.UUID) (domain.TransactionState, error) {
	state, _, err := s.reconcile.Apply(ctx, transactionID, domain.StatusCancelled)
	return state, err
}

// Capture settles the latest uncaptured charge of the transaction's current
// session and reconciles the outcome.
func (s *CheckoutService) Capture(ctx context.Context, transactionID uuid.UUID) (domain.TransactionState, error) {
	transaction, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		return "", err
	}

	session, err := s.ResolveLatestSession(ctx, transaction)
	if err != nil {
		return "", err
	}

	providerTx := session.LatestTransaction()
	if providerTx == nil {
		return "", domain.ErrSessionNotFound
	}

	captured, err := s.client.CaptureTransaction(ctx, providerTx.ID)
	if err != nil {
		return "", err
	}

	state, _, err := s.reconcile.Apply(ctx, transactionID, captured.Status)
	return state, err
}

func (s *CheckoutService) cancelCheckout(ctx context.Context, transactionID uuid.UUID, reason string) (domain.TransactionState, error) {
	state, _, err := s.reconcile.Apply(ctx, transactionID, domain.StatusCancelled)
	if err != nil {
		return "", err
	}
	return state, domain.NewCustomerCanceledError(reason)
}
