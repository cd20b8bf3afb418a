package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/wallet-ledger/internal/adapter/http/models"
	"github.com/api-sage/wallet-ledger/internal/commons"
	"github.com/api-sage/wallet-ledger/internal/logger"
	"github.com/api-sage/wallet-ledger/internal/usecase/service_interfaces"
)

type HistoryController struct {
	service service_interfaces.HistoryService
}

func NewHistoryController(service service_interfaces.HistoryService) *HistoryController {
	return &HistoryController{service: service}
}

func (c *HistoryController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.Handler(http.HandlerFunc(c.history))
	if authMiddleware != nil {
		handler = authMiddleware(handler)
	}

	mux.Handle("GET /transactions/{accountId}/history", handler)
}

func (c *HistoryController) history(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	req, err := models.ParseHistoryRequest(r.URL.Query())
	if err != nil {
		logError(r, err, nil)
		response := commons.ValidationErrorResponse[[]models.TransactionResponse](err)
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.GetFilteredTransactions(r.Context(), r.PathValue("accountId"), req)
	if err != nil {
		status := statusForError(err, response.Message)
		logError(r, err, logger.Fields{"message": response.Message})
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
