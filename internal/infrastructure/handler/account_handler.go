// Package handler exposes the account service over HTTP
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/damon-houk/currency-account-service/internal/application/service"
	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/logger"
	"github.com/damon-houk/currency-account-service/internal/requestid"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// AccountHandler handles HTTP requests for accounts
type AccountHandler struct {
	service     service.AccountService
	defaultBase entity.Currency
	validate    *validator.Validate
	logger      logger.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(svc service.AccountService, defaultBase entity.Currency, log logger.Logger) *AccountHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &AccountHandler{
		service:     svc,
		defaultBase: defaultBase,
		validate:    newValidator(),
		logger:      log,
	}
}

// CreateAccount handles opening a new account
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	requestID := requestid.FromContext(r.Context())

	var req CreateAccountRequest
	if !h.decode(w, r, &req, requestID) {
		return
	}

	target, err := entity.ParseCurrency(req.TargetCurrency)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid currency", err.Error(), http.StatusBadRequest, requestID)
		return
	}
	if target == h.defaultBase {
		sendErrorResponse(w, h.logger, "Invalid currency",
			fmt.Sprintf("targetCurrency must differ from the base currency %s", h.defaultBase),
			http.StatusBadRequest, requestID)
		return
	}

	initial, err := decimal.NewFromString(req.InitialBaseAmount)
	if err != nil || initial.IsNegative() {
		sendErrorResponse(w, h.logger, "Invalid amount",
			"initialBaseAmount must be zero or a positive decimal", http.StatusBadRequest, requestID)
		return
	}

	account, err := h.service.CreateAccount(r.Context(), strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), target, initial)
	if err != nil {
		writeServiceError(w, h.logger, err, requestID)
		return
	}

	w.Header().Set("Location", "/api/accounts/"+account.ID)
	writeJSON(w, http.StatusCreated, newAccountResponse(account))
}

// GetAccount handles retrieving an account by ID
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	requestID := requestid.FromContext(r.Context())
	id, ok := h.accountID(w, r, requestID)
	if !ok {
		return
	}

	account, err := h.service.GetAccount(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

// Exchange handles moving an amount between the account's base and target balances
func (h *AccountHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	requestID := requestid.FromContext(r.Context())
	id, ok := h.accountID(w, r, requestID)
	if !ok {
		return
	}

	var req ExchangeRequest
	if !h.decode(w, r, &req, requestID) {
		return
	}

	from, err := entity.ParseCurrency(req.FromCurrency)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid currency", err.Error(), http.StatusBadRequest, requestID)
		return
	}
	to, err := entity.ParseCurrency(req.ToCurrency)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid currency", err.Error(), http.StatusBadRequest, requestID)
		return
	}
	if from == to {
		sendErrorResponse(w, h.logger, "Invalid currency",
			"fromCurrency and toCurrency must differ", http.StatusBadRequest, requestID)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		sendErrorResponse(w, h.logger, "Invalid amount",
			"amount must be a positive decimal", http.StatusBadRequest, requestID)
		return
	}

	account, err := h.service.ExchangeCurrency(r.Context(), id, from, to, amount)
	if err != nil {
		writeServiceError(w, h.logger, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

// Health reports liveness
func (h *AccountHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// accountID extracts the {id} path value, writing a 400 response unless it is a UUID
func (h *AccountHandler) accountID(w http.ResponseWriter, r *http.Request, requestID string) (string, bool) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		sendErrorResponse(w, h.logger, "Invalid account ID",
			fmt.Sprintf("account ID %q is not a valid UUID", id), http.StatusBadRequest, requestID)
		return "", false
	}
	return id, true
}

// decode reads and validates a JSON body, writing a 400 response on failure
func (h *AccountHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, requestID string) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		sendErrorResponse(w, h.logger, "Validation failed",
			describeValidationError(err), http.StatusBadRequest, requestID)
		return false
	}
	return true
}

// RegisterRoutes registers the account handler routes
func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/accounts", h.CreateAccount).Methods(http.MethodPost)
	router.HandleFunc("/api/accounts/{id}", h.GetAccount).Methods(http.MethodGet)
	router.HandleFunc("/api/accounts/{id}/exchange", h.Exchange).Methods(http.MethodPost)

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	h.logger.Info("Account routes registered", map[string]interface{}{
		"routes": []string{
			"POST /api/accounts",
			"GET /api/accounts/{id}",
			"POST /api/accounts/{id}/exchange",
			"GET /health",
		},
	})
}
