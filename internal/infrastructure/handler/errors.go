package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/logger"
)

// errorMapping pairs a domain error with the response it produces
type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{entity.ErrAccountNotFound, http.StatusNotFound, "Account not found"},
	{entity.ErrInvalidCurrency, http.StatusBadRequest, "Invalid currency"},
	{entity.ErrInvalidCurrencyForAccount, http.StatusBadRequest, "Currency not supported by account"},
	{entity.ErrUnsupportedCurrencyPair, http.StatusBadRequest, "Unsupported currency pair"},
	{entity.ErrInvalidDirection, http.StatusBadRequest, "Invalid exchange direction"},
	{entity.ErrInvalidAmount, http.StatusBadRequest, "Invalid amount"},
	{entity.ErrInsufficientBalance, http.StatusBadRequest, "Insufficient balance"},
	{entity.ErrConcurrentUpdate, http.StatusConflict, "Concurrent update"},
	{entity.ErrBaseCurrencyMismatch, http.StatusConflict, "Base currency mismatch"},
	{entity.ErrRateUnavailable, http.StatusServiceUnavailable, "Exchange rate service unavailable"},
	{entity.ErrInvalidRateData, http.StatusServiceUnavailable, "Exchange rate service unavailable"},
}

// statusForError maps err onto an HTTP status and a short message.
// Unknown errors are internal server errors.
func statusForError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

// writeServiceError responds to a failed service call. Client errors carry the
// error text as description; server errors keep their detail in the log only.
func writeServiceError(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	status, message := statusForError(err)

	description := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error(message, map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		if status == http.StatusServiceUnavailable {
			description = "Unable to retrieve exchange rate data. Please try again later."
		} else {
			description = "An unexpected error occurred. Please try again later."
		}
	}

	sendErrorResponse(w, log, message, description, status, requestID)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	writeJSON(w, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
