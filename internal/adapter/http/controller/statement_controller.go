package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/api-sage/wallet-ledger/internal/adapter/http/models"
	"github.com/api-sage/wallet-ledger/internal/commons"
	"github.com/api-sage/wallet-ledger/internal/usecase/service_interfaces"
)

type StatementController struct {
	service service_interfaces.StatementService
}

func NewStatementController(service service_interfaces.StatementService) *StatementController {
	return &StatementController{service: service}
}

func (c *StatementController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.Handler(http.HandlerFunc(c.statement))
	if authMiddleware != nil {
		handler = authMiddleware(handler)
	}

	mux.Handle("GET /accounts/{accountId}/statement", handler)
}

func (c *StatementController) statement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	document, err := c.service.GetStatement(r.Context(), r.PathValue("accountId"))
	if err != nil {
		logError(r, err, nil)
		status := http.StatusInternalServerError
		message := "failed to generate statement"
		if errors.Is(err, commons.ErrAccountNotFound) {
			status = http.StatusNotFound
			message = "Account not found"
		}
		response := commons.ErrorResponse[models.TransactionResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	w.Header().Set("Content-Type", document.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(document.Content)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(document.Content); err != nil {
		logError(r, err, nil)
	}
	logResponse(r, http.StatusOK, document.Filename, start)
}
