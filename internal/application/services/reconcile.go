package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/domain"
)

// ReconcileService applies provider transaction statuses to the internal
// order-transaction state machine. All writes are guard-then-write inside a
// repository transaction, so applying the same status twice is a no-op and
// concurrent return/webhook/sweeper writes cannot clobber each other.
type ReconcileService struct {
	repo   application.TransactionRepository
	logger *slog.Logger
}

func NewReconcileService(repo application.TransactionRepository, logger *slog.Logger) *ReconcileService {
	return &ReconcileService{
		repo:   repo,
		logger: logger,
	}
}

// Apply translates status into an internal state transition for the given
// transaction. It returns the state after the call and whether anything
// changed. A skipped transition is not an error.
func (s *ReconcileService) Apply(ctx context.Context, transactionID uuid.UUID, status domain.ProviderStatus) (domain.TransactionState, bool, error) {
	var finalState domain.TransactionState
	var changed bool

	err := s.repo.WithTx(ctx, func(txRepo application.TransactionRepository) error {
		transaction, err := txRepo.FindByIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}

		next, apply := domain.ReconcileStatus(transaction.State, status)
		finalState = next
		if !apply {
			return nil
		}

		transaction.State = next
		changed = true
		return txRepo.Update(ctx, transaction)
	})
	if err != nil {
		return "", false, err
	}

	if changed {
		s.logger.Info("reconciled transaction state",
			"transaction_id", transactionID,
			"provider_status", status,
			"state", finalState,
		)
	}

	return finalState, changed, nil
}

// MarkPaidZeroAmount settles a zero-amount order without any provider
// interaction. There is nothing to charge, so the transaction goes straight
// to paid unless it is already there.
func (s *ReconcileService) MarkPaidZeroAmount(ctx context.Context, transactionID uuid.UUID) error {
	return s.repo.WithTx(ctx, func(txRepo application.TransactionRepository) error {
		transaction, err := txRepo.FindByIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if transaction.IsPaid() {
			return nil
		}

		transaction.State = domain.StatePaid
		if err := txRepo.Update(ctx, transaction); err != nil {
			return err
		}

		s.logger.Info("zero-amount transaction marked paid", "transaction_id", transactionID)
		return nil
	})
}
