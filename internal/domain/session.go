package domain

// ProviderStatus is the transaction status reported by Payrexx.
type ProviderStatus string

const (
	// StatusUnconfirmed is not reported by the provider; it is fed into the
	// reconciliation table right after a session was created, while the
	// customer is still on the hosted checkout page.
	StatusUnconfirmed ProviderStatus = "unconfirmed"

	StatusConfirmed         ProviderStatus = "confirmed"
	StatusWaiting           ProviderStatus = "waiting"
	StatusRefunded          ProviderStatus = "refunded"
	StatusPartiallyRefunded ProviderStatus = "partially-refunded"
	StatusCancelled         ProviderStatus = "cancelled"
	StatusDeclined          ProviderStatus = "declined"
	StatusExpired           ProviderStatus = "expired"
	StatusError             ProviderStatus = "error"
	StatusUncaptured        ProviderStatus = "uncaptured"
)

// IsRefundFamily reports whether the status is one of the refund statuses,
// the only ones allowed to move an already paid transaction.
func (s ProviderStatus) IsRefundFamily() bool {
	return s == StatusRefunded || s == StatusPartiallyRefunded
}

// IsCheckoutFailure reports whether the status means the customer did not
// complete the hosted checkout.
func (s ProviderStatus) IsCheckoutFailure() bool {
	switch s {
	case StatusCancelled, StatusDeclined, StatusExpired, StatusError:
		return true
	default:
		return false
	}
}

// PaymentSession is one hosted checkout attempt at the provider, called a
// "gateway" in Payrexx terminology. Sessions are never mutated locally; a
// checkout retry creates a new session and deletes the old one.
type PaymentSession struct {
	ID              int
	OrderReference  string
	AmountMinorUnit int64
	Currency        string
	Status          ProviderStatus
	PaymentMeans    []string
	ValidityMinutes int
	Link            string
	Hash            string
	Invoices        []Invoice
}

// Invoice groups the charge attempts made against one session.
type Invoice struct {
	PaymentRequestID int
	Transactions     []ProviderTransaction
}

// ProviderTransaction is the provider's record of one charge attempt.
type ProviderTransaction struct {
	ID     int
	UUID   string
	Status ProviderStatus
}

// LatestTransaction returns the last transaction of the last invoice, the
// authoritative charge attempt for this session, or nil if none was made.
func (s *PaymentSession) LatestTransaction() *ProviderTransaction {
	if len(s.Invoices) == 0 {
		return nil
	}
	invoice := s.Invoices[len(s.Invoices)-1]
	if len(invoice.Transactions) == 0 {
		return nil
	}
	return &invoice.Transactions[len(invoice.Transactions)-1]
}

// HasSettledTransaction reports whether a confirmed or waiting charge is
// attached to the session. Such sessions must never be deleted.
func (s *PaymentSession) HasSettledTransaction() bool {
	if s.Status != StatusConfirmed && s.Status != StatusWaiting {
		return false
	}
	return s.LatestTransaction() != nil
}
