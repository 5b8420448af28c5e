package application

import (
	"errors"
	"fmt"
	"net/http"
)

// APPLICATION-LEVEL ERRORS (Orchestration)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeIncompleteData = "INCOMPLETE_DATA"
	ErrCodeUnknownGateway = "UNKNOWN_GATEWAY"
	ErrCodeStatusMismatch = "STATUS_MISMATCH"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// NewIncompleteDataError rejects a webhook missing the order reference, the
// provider transaction id or the status string.
func NewIncompleteDataError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeIncompleteData,
		Message:    "Data incomplete",
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUnknownGatewayError rejects a webhook whose claimed session id was
// never recorded on the referenced transaction. Spoofed and stale
// notifications end up here without leaking internal state.
func NewUnknownGatewayError(gatewayID int) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeUnknownGateway,
		Message:    fmt.Sprintf("gateway %d not known for this transaction", gatewayID),
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewStatusMismatchError rejects a webhook whose claimed status disagrees
// with the status fetched independently from the provider.
func NewStatusMismatchError(claimed, fetched string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeStatusMismatch,
		Message:    fmt.Sprintf("claimed status %q does not match provider status %q", claimed, fetched),
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewInvalidInputError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidInput,
		Message:    "Invalid input",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
