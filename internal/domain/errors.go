package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Domain validation errors
const (
	ErrCodeGatewayCreation     = "GATEWAY_CREATION"
	ErrCodeCustomerCanceled    = "CUSTOMER_CANCELED"
	ErrCodeTransactionNotFound = "TRANSACTION_NOT_FOUND"
	ErrCodeSessionNotFound     = "SESSION_NOT_FOUND"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
)

var (
	// ErrSessionNotFound is returned when the gateway-id history resolves to
	// no live session at the provider.
	ErrSessionNotFound = errors.New("payment session not found")
)

// NewGatewayCreationError wraps a provider failure during session creation.
// It surfaces to the checkout flow as a hard failure.
func NewGatewayCreationError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeGatewayCreation,
		Message: "payment session could not be created",
		Err:     err,
	}
}

// NewCustomerCanceledError marks a checkout that ended without a usable
// charge: no resolvable session, or a terminal non-paid provider status.
func NewCustomerCanceledError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCustomerCanceled,
		Message: fmt.Sprintf("customer canceled the payment: %s", reason),
	}
}

func NewTransactionNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeTransactionNotFound,
		Message: fmt.Sprintf("order transaction %s not found", id),
	}
}

func NewInvalidTransitionError(from, to TransactionState) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
