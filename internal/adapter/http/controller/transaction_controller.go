package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/wallet-ledger/internal/adapter/http/models"
	"github.com/api-sage/wallet-ledger/internal/commons"
	"github.com/api-sage/wallet-ledger/internal/logger"
	"github.com/api-sage/wallet-ledger/internal/usecase/service_interfaces"
)

type TransactionController struct {
	service service_interfaces.TransactionService
}

func NewTransactionController(service service_interfaces.TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(handler http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(handler)
		}
		return handler
	}

	mux.Handle("POST /accounts/{accountId}/deposit", wrap(c.deposit))
	mux.Handle("POST /accounts/{accountId}/withdraw", wrap(c.withdraw))
	mux.Handle("POST /accounts/{accountId}/transfer", wrap(c.transfer))
}

func (c *TransactionController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Deposit(r.Context(), r.PathValue("accountId"), req)
	if err != nil {
		status := statusForError(err, response.Message)
		logError(r, err, logger.Fields{"message": response.Message})
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *TransactionController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Withdraw(r.Context(), r.PathValue("accountId"), req)
	if err != nil {
		status := statusForError(err, response.Message)
		logError(r, err, logger.Fields{"message": response.Message})
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *TransactionController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Transfer(r.Context(), r.PathValue("accountId"), req)
	if err != nil {
		status := statusForError(err, response.Message)
		logError(r, err, logger.Fields{"message": response.Message})
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}
