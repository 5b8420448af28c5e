package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/domain"
)

// StaleOrderSweeper cancels transactions that sat unresolved past the
// configured age. Prolonged silence from the provider is treated as
// customer abandonment; the sweeper is the only timeout safety net the
// reconciliation flow has.
type StaleOrderSweeper struct {
	repo      application.TransactionRepository
	interval  time.Duration
	staleAge  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewStaleOrderSweeper(
	repo application.TransactionRepository,
	interval time.Duration,
	staleAge time.Duration,
	batchSize int,
	logger *slog.Logger,
) *StaleOrderSweeper {
	return &StaleOrderSweeper{
		repo:      repo,
		interval:  interval,
		staleAge:  staleAge,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (w *StaleOrderSweeper) Start(ctx context.Context) {
	w.logger.Info("stale order sweeper started",
		"interval", w.interval,
		"stale_age", w.staleAge,
	)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stale order sweeper stopping")
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				w.logger.Error("sweep failed", "error", err)
			}
		}
	}
}

// RunOnce executes a single sweep.
func (w *StaleOrderSweeper) RunOnce(ctx context.Context) error {
	cutoff := time.Now().Add(-w.staleAge)

	stale, err := w.repo.FindStale(ctx, cutoff, w.batchSize)
	if err != nil {
		return err
	}

	if len(stale) == 0 {
		return nil
	}

	var cancelled int
	for _, transaction := range stale {
		if err := w.cancelStale(ctx, transaction); err != nil {
			w.logger.Error("failed to cancel stale transaction",
				"transaction_id", transaction.ID,
				"error", err)
			continue
		}
		cancelled++
	}

	w.logger.Info("swept stale transactions",
		"found", len(stale),
		"cancelled", cancelled,
	)

	return nil
}

func (w *StaleOrderSweeper) cancelStale(ctx context.Context, transaction *domain.OrderTransaction) error {
	return w.repo.WithTx(ctx, func(txRepo application.TransactionRepository) error {
		current, err := txRepo.FindByIDForUpdate(ctx, transaction.ID)
		if err != nil {
			return err
		}
		// A webhook or return may have resolved it since the scan.
		if current.IsResolved() {
			return nil
		}

		current.State = domain.StateCancelled
		return txRepo.Update(ctx, current)
	})
}
