package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/wallet-ledger/internal/logger"
	"github.com/api-sage/wallet-ledger/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.Handler(http.HandlerFunc(c.balance))
	if authMiddleware != nil {
		handler = authMiddleware(handler)
	}

	mux.Handle("GET /accounts/{accountId}/balance", handler)
}

func (c *AccountController) balance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetBalance(r.Context(), r.PathValue("accountId"))
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
