package services

import (
	"context"
	"log/slog"

	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/domain"
)

// Notification is the decoded body of a provider webhook delivery.
type Notification struct {
	TransactionID int
	Status        string
	ReferenceID   string
	GatewayID     int
}

// Outcome describes what an accepted webhook did.
type Outcome string

const (
	OutcomeApplied     Outcome = "applied"
	OutcomeNoChange    Outcome = "no_change"
	OutcomeAlreadyPaid Outcome = "already_paid"
)

// WebhookService validates inbound asynchronous notifications before any
// state is touched. A notification is only acted on once its claimed status
// was independently confirmed against the provider; the body alone is never
// trusted. Rejections fail closed and mutate nothing.
type WebhookService struct {
	repo      application.TransactionRepository
	client    application.GatewayClient
	reconcile *ReconcileService
	logger    *slog.Logger
}

func NewWebhookService(
	repo application.TransactionRepository,
	client application.GatewayClient,
	reconcile *ReconcileService,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		repo:      repo,
		client:    client,
		reconcile: reconcile,
		logger:    logger,
	}
}

// Handle runs the mandatory validation steps in order and forwards the
// confirmed status to the reconciliation engine.
func (s *WebhookService) Handle(ctx context.Context, n Notification) (Outcome, error) {
	if n.ReferenceID == "" || n.Status == "" || n.TransactionID == 0 {
		return "", application.NewIncompleteDataError()
	}

	transaction, err := s.repo.FindByOrderNumber(ctx, n.ReferenceID)
	if err != nil {
		if domain.IsErrorCode(err, domain.ErrCodeTransactionNotFound) {
			return "", application.NewUnknownGatewayError(n.GatewayID)
		}
		return "", err
	}

	if !transaction.Gateways.Contains(n.GatewayID) {
		s.logger.Warn("webhook names unrecorded gateway",
			"order_number", n.ReferenceID,
			"gateway_id", n.GatewayID,
		)
		return "", application.NewUnknownGatewayError(n.GatewayID)
	}

	confirmed, err := s.client.GetTransaction(ctx, n.TransactionID)
	if err != nil {
		// Provider unreachable is a soft failure; the redelivery or the
		// sweeper makes progress later.
		return "", application.NewInternalError(err)
	}

	if string(confirmed.Status) != n.Status {
		s.logger.Warn("webhook status mismatch",
			"order_number", n.ReferenceID,
			"claimed", n.Status,
			"fetched", confirmed.Status,
		)
		return "", application.NewStatusMismatchError(n.Status, string(confirmed.Status))
	}

	if transaction.IsPaid() && !confirmed.Status.IsRefundFamily() {
		return OutcomeAlreadyPaid, nil
	}

	_, changed, err := s.reconcile.Apply(ctx, transaction.ID, confirmed.Status)
	if err != nil {
		return "", err
	}
	if !changed {
		return OutcomeNoChange, nil
	}
	return OutcomeApplied, nil
}
