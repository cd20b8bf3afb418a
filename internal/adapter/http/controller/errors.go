package controller

import (
	"errors"
	"net/http"

	"github.com/api-sage/wallet-ledger/internal/commons"
)

// statusForError maps the ledger error taxonomy onto HTTP statuses. Errors
// outside the taxonomy (request validation and the like) default to 400 when
// the service marked the response as a validation failure, 500 otherwise.
func statusForError(err error, responseMessage string) int {
	switch {
	case errors.Is(err, commons.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, commons.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, commons.ErrInvalidAmount), errors.Is(err, commons.ErrSameAccountTransfer):
		return http.StatusBadRequest
	case errors.Is(err, commons.ErrDuplicateReference), errors.Is(err, commons.ErrRetryable):
		return http.StatusServiceUnavailable
	case responseMessage == commons.MessageValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
