package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/domain"
)

// TransactionRepository persists order transactions. Every state write goes
// through WithTx plus FindByIDForUpdate so concurrent return, webhook and
// sweeper writers serialize on the row.
type TransactionRepository struct {
	pool *pgxpool.Pool
	q    Executor
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{
		pool: db.Pool,
		q:    db.Pool,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.OrderTransaction) error {
	query := `
		INSERT INTO order_transactions (
			id, order_number, amount_cents, currency, state, gateway_ids, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	m := toDBModel(transaction)
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	_, err := r.q.Exec(ctx, query,
		m.ID,
		m.OrderNumber,
		m.AmountCents,
		m.Currency,
		m.State,
		m.GatewayIDs,
		m.CreatedAt,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create order transaction: %w", err)
	}

	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.OrderTransaction) error {
	query := `
		UPDATE order_transactions
		SET state = $2, gateway_ids = $3, updated_at = $4
		WHERE id = $1
	`

	m := toDBModel(transaction)
	tag, err := r.q.Exec(ctx, query, m.ID, m.State, m.GatewayIDs, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update order transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewTransactionNotFoundError(m.ID.String())
	}

	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.OrderTransaction, error) {
	query := `
		SELECT id, order_number, amount_cents, currency, state, gateway_ids, created_at, updated_at
		FROM order_transactions WHERE id = $1
	`

	row := r.q.QueryRow(ctx, query, id)
	return scanTransaction(row, id.String())
}

// FindByIDForUpdate retrieves a transaction with a row-level lock. It must
// be called inside WithTx.
func (r *TransactionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.OrderTransaction, error) {
	query := `
		SELECT id, order_number, amount_cents, currency, state, gateway_ids, created_at, updated_at
		FROM order_transactions WHERE id = $1
		FOR UPDATE
	`

	row := r.q.QueryRow(ctx, query, id)
	return scanTransaction(row, id.String())
}

func (r *TransactionRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.OrderTransaction, error) {
	query := `
		SELECT id, order_number, amount_cents, currency, state, gateway_ids, created_at, updated_at
		FROM order_transactions WHERE order_number = $1
	`

	row := r.q.QueryRow(ctx, query, orderNumber)
	return scanTransaction(row, orderNumber)
}

// FindStale returns unresolved transactions created before the cutoff, the
// sweeper's work list.
func (r *TransactionRepository) FindStale(ctx context.Context, olderThan time.Time, limit int) ([]*domain.OrderTransaction, error) {
	query := `
		SELECT id, order_number, amount_cents, currency, state, gateway_ids, created_at, updated_at
		FROM order_transactions
		WHERE state IN ('unconfirmed', 'in_progress')
		  AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale transactions: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.OrderTransaction, error) {
		var m TransactionModel
		err := row.Scan(
			&m.ID, &m.OrderNumber, &m.AmountCents, &m.Currency, &m.State,
			&m.GatewayIDs, &m.CreatedAt, &m.UpdatedAt,
		)
		return toDomainModel(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("scan stale transactions: %w", err)
	}

	return results, nil
}

// WithTx executes fn within a database transaction. The repository passed to
// fn runs all queries on that transaction.
func (r *TransactionRepository) WithTx(ctx context.Context, fn func(repo application.TransactionRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txRepo := &TransactionRepository{pool: r.pool, q: tx}
	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanTransaction(row pgx.Row, ref string) (*domain.OrderTransaction, error) {
	var m TransactionModel
	err := row.Scan(
		&m.ID, &m.OrderNumber, &m.AmountCents, &m.Currency, &m.State,
		&m.GatewayIDs, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewTransactionNotFoundError(ref)
		}
		return nil, fmt.Errorf("failed to scan order transaction: %w", err)
	}

	return toDomainModel(m), nil
}
