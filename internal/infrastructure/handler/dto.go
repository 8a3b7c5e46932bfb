package handler

import (
	"github.com/damon-houk/currency-account-service/internal/domain/entity"
)

// CreateAccountRequest represents the request body for opening an account.
// Amounts are decimal strings so no precision is lost in transit.
type CreateAccountRequest struct {
	FirstName         string `json:"firstName" validate:"required,notblank,max=100"`
	LastName          string `json:"lastName" validate:"required,notblank,max=100"`
	TargetCurrency    string `json:"targetCurrency" validate:"required,len=3"`
	InitialBaseAmount string `json:"initialBaseAmount" validate:"required,numeric"`
}

// ExchangeRequest represents the request body for an exchange between the account's currencies
type ExchangeRequest struct {
	FromCurrency string `json:"fromCurrency" validate:"required,len=3"`
	ToCurrency   string `json:"toCurrency" validate:"required,len=3,nefield=FromCurrency"`
	Amount       string `json:"amount" validate:"required,numeric"`
}

// AccountResponse represents an account as returned by every account endpoint
type AccountResponse struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	BaseCurrency   string `json:"baseCurrency"`
	TargetCurrency string `json:"targetCurrency"`
	BaseAmount     string `json:"baseAmount"`
	TargetAmount   string `json:"targetAmount"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// HealthResponse is the body of the liveness probe
type HealthResponse struct {
	Status string `json:"status"`
}

func newAccountResponse(a entity.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		BaseCurrency:   a.BaseCurrency.String(),
		TargetCurrency: a.TargetCurrency.String(),
		BaseAmount:     a.BaseAmount.String(),
		TargetAmount:   a.TargetAmount.String(),
	}
}
