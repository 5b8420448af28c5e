package payrexx

import (
	"errors"
	"fmt"
	"net/http"
)

type ProviderError struct {
	Code       string
	Message    string
	StatusCode int
}

type providerErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payrexx error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func (e *ProviderError) IsRetryable() bool {
	return e.StatusCode >= 500
}

func IsProviderError(err error) (*ProviderError, bool) {
	var providerErr *ProviderError
	ok := errors.As(err, &providerErr)
	return providerErr, ok
}

// IsNotFound reports whether the provider says the referenced gateway or
// transaction does not exist.
func IsNotFound(err error) bool {
	if providerErr, ok := IsProviderError(err); ok {
		return providerErr.StatusCode == http.StatusNotFound
	}
	return false
}
