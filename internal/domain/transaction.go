// Package domain defines the domain models for the checkout reconciliation service.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionState represents the internal payment state of an order transaction.
type TransactionState string

const (
	StateOpen              TransactionState = "open"
	StateUnconfirmed       TransactionState = "unconfirmed"
	StateInProgress        TransactionState = "in_progress"
	StatePaid              TransactionState = "paid"
	StateRefunded          TransactionState = "refunded"
	StatePartiallyRefunded TransactionState = "partially_refunded"
	StateCancelled         TransactionState = "cancelled"
	StateFailed            TransactionState = "failed"
)

// OrderTransaction is the payment record of one order. It is the single
// source of truth for the reconciliation state and the gateway-id history;
// no ambient session state is kept anywhere else.
type OrderTransaction struct {
	ID          uuid.UUID
	OrderNumber string
	AmountCents int64
	Currency    string

	State    TransactionState
	Gateways GatewayHistory

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPaid reports whether the transaction has reached the paid state.
func (t *OrderTransaction) IsPaid() bool {
	return t.State == StatePaid
}

// IsResolved reports whether the transaction left the pending part of the
// state machine. Resolved transactions are never touched by the sweeper.
func (t *OrderTransaction) IsResolved() bool {
	switch t.State {
	case StateOpen, StateUnconfirmed, StateInProgress:
		return false
	default:
		return true
	}
}

// ReconcileStatus maps a provider transaction status onto the next internal
// state. The second return value is false when the status must not be
// applied to the current state, either because the transaction is already
// there or because the transition would move a progressed payment backwards.
//
// The guards make repeated application of the same status a no-op, which is
// what keeps webhook redelivery and the synchronous return pull safe to run
// concurrently for the same order.
func ReconcileStatus(current TransactionState, status ProviderStatus) (TransactionState, bool) {
	switch status {
	case StatusUnconfirmed:
		// Pre-state while the customer is still on the provider page.
		if current != StateOpen {
			return current, false
		}
		return StateUnconfirmed, true

	case StatusConfirmed:
		if current == StatePaid {
			return current, false
		}
		return StatePaid, true

	case StatusWaiting:
		if current == StateInProgress || current == StatePaid {
			return current, false
		}
		return StateInProgress, true

	case StatusRefunded:
		if current == StateRefunded {
			return current, false
		}
		return StateRefunded, true

	case StatusPartiallyRefunded:
		if current == StatePartiallyRefunded {
			return current, false
		}
		return StatePartiallyRefunded, true

	case StatusCancelled, StatusDeclined, StatusExpired:
		// Never cancel something that already progressed past checkout.
		if current != StateOpen && current != StateUnconfirmed {
			return current, false
		}
		return StateCancelled, true

	case StatusError:
		if current != StateOpen && current != StateUnconfirmed {
			return current, false
		}
		return StateFailed, true
	}

	return current, false
}
