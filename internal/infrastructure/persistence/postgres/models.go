package postgres

import (
	"time"

	"github.com/google/uuid"
)

// TransactionModel mirrors the order_transactions table. The gateway-id
// history is persisted in its comma-joined form, newest first.
type TransactionModel struct {
	ID          uuid.UUID
	OrderNumber string
	AmountCents int64
	Currency    string
	State       string
	GatewayIDs  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
