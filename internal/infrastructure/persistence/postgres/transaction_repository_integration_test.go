package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/domain"
	"github.com/payrexx-gateway/internal/infrastructure/persistence/postgres"
	"github.com/payrexx-gateway/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransaction(orderNumber string, state domain.TransactionState, createdAt time.Time) *domain.OrderTransaction {
	return &domain.OrderTransaction{
		ID:          uuid.New(),
		OrderNumber: orderNumber,
		AmountCents: 4990,
		Currency:    "CHF",
		State:       state,
		CreatedAt:   createdAt,
	}
}

func TestIntegration_TransactionRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	td := testhelpers.SetupTestDatabase(t)
	defer td.Cleanup(t)

	ctx := context.Background()
	repo := postgres.NewTransactionRepository(td.DB)

	transaction := newTransaction("10042", domain.StateOpen, time.Now())
	transaction.Gateways = domain.NewGatewayHistory(321, 198)
	require.NoError(t, repo.Create(ctx, transaction))

	byID, err := repo.FindByID(ctx, transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, "10042", byID.OrderNumber)
	assert.Equal(t, int64(4990), byID.AmountCents)
	assert.Equal(t, domain.StateOpen, byID.State)
	assert.Equal(t, []int{321, 198}, byID.Gateways.IDs())

	byOrder, err := repo.FindByOrderNumber(ctx, "10042")
	require.NoError(t, err)
	assert.Equal(t, transaction.ID, byOrder.ID)

	byID.State = domain.StateInProgress
	byID.Gateways.Append(322)
	require.NoError(t, repo.Update(ctx, byID))

	updated, err := repo.FindByID(ctx, transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateInProgress, updated.State)
	assert.Equal(t, []int{322, 321, 198}, updated.Gateways.IDs())

	_, err = repo.FindByOrderNumber(ctx, "99999")
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeTransactionNotFound))

	missing := newTransaction("77777", domain.StateOpen, time.Now())
	err = repo.Update(ctx, missing)
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeTransactionNotFound))
}

func TestIntegration_TransactionRepository_FindStale(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	td := testhelpers.SetupTestDatabase(t)
	defer td.Cleanup(t)

	ctx := context.Background()
	repo := postgres.NewTransactionRepository(td.DB)

	now := time.Now()
	oldest := newTransaction("20001", domain.StateUnconfirmed, now.Add(-2*time.Hour))
	older := newTransaction("20002", domain.StateInProgress, now.Add(-time.Hour))
	oldPaid := newTransaction("20003", domain.StatePaid, now.Add(-2*time.Hour))
	fresh := newTransaction("20004", domain.StateUnconfirmed, now.Add(-time.Minute))

	for _, transaction := range []*domain.OrderTransaction{oldest, older, oldPaid, fresh} {
		require.NoError(t, repo.Create(ctx, transaction))
	}

	stale, err := repo.FindStale(ctx, now.Add(-30*time.Minute), 100)
	require.NoError(t, err)
	require.Len(t, stale, 2, "only pending transactions past the cutoff")
	assert.Equal(t, oldest.ID, stale[0].ID, "oldest first")
	assert.Equal(t, older.ID, stale[1].ID)

	limited, err := repo.FindStale(ctx, now.Add(-30*time.Minute), 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, oldest.ID, limited[0].ID)
}

// Two writers racing on the same row: the second FOR UPDATE read must block
// until the first transaction commits, and the guard re-check on the fresh
// row keeps the paid state from being clobbered.
func TestIntegration_TransactionRepository_RowLockSerializesWriters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	td := testhelpers.SetupTestDatabase(t)
	defer td.Cleanup(t)

	ctx := context.Background()
	repo := postgres.NewTransactionRepository(td.DB)

	transaction := newTransaction("30001", domain.StateInProgress, time.Now().Add(-time.Hour))
	require.NoError(t, repo.Create(ctx, transaction))

	firstHoldsLock := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	// Webhook writer: locks the row, holds it, settles the payment.
	go func() {
		defer wg.Done()
		err := repo.WithTx(ctx, func(txRepo application.TransactionRepository) error {
			current, err := txRepo.FindByIDForUpdate(ctx, transaction.ID)
			if err != nil {
				return err
			}
			close(firstHoldsLock)
			time.Sleep(200 * time.Millisecond)
			current.State = domain.StatePaid
			return txRepo.Update(ctx, current)
		})
		assert.NoError(t, err)
	}()

	// Sweeper-style writer: starts while the lock is held, must observe the
	// committed paid state and skip its cancel.
	<-firstHoldsLock
	var observed domain.TransactionState
	err := repo.WithTx(ctx, func(txRepo application.TransactionRepository) error {
		current, err := txRepo.FindByIDForUpdate(ctx, transaction.ID)
		if err != nil {
			return err
		}
		observed = current.State
		if current.IsResolved() {
			return nil
		}
		current.State = domain.StateCancelled
		return txRepo.Update(ctx, current)
	})
	require.NoError(t, err)
	wg.Wait()

	assert.Equal(t, domain.StatePaid, observed, "second writer sees the committed state")

	final, err := repo.FindByID(ctx, transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePaid, final.State)
}
