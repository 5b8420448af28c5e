package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/domain"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError maps application and domain errors to HTTP responses.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	statusCode := http.StatusInternalServerError
	errorCode := application.ErrCodeInternal
	message := "An internal error occurred"

	if svcErr, ok := application.IsServiceError(err); ok {
		statusCode = svcErr.HTTPStatus
		errorCode = svcErr.Code
		message = svcErr.Message
	} else if domain.IsErrorCode(err, domain.ErrCodeTransactionNotFound) {
		statusCode = http.StatusNotFound
		errorCode = domain.ErrCodeTransactionNotFound
		message = err.Error()
	} else if domain.IsErrorCode(err, domain.ErrCodeGatewayCreation) {
		statusCode = http.StatusBadGateway
		errorCode = domain.ErrCodeGatewayCreation
		message = err.Error()
	} else if domain.IsErrorCode(err, domain.ErrCodeCustomerCanceled) {
		statusCode = http.StatusConflict
		errorCode = domain.ErrCodeCustomerCanceled
		message = err.Error()
	}

	if statusCode >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}

	response := ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    errorCode,
			Message: message,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// WriteJSON writes a success payload.
func WriteJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
