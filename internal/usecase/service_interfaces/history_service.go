package service_interfaces

import (
	"context"

	"github.com/api-sage/wallet-ledger/internal/adapter/http/models"
	"github.com/api-sage/wallet-ledger/internal/commons"
)

type HistoryService interface {
	GetFilteredTransactions(ctx context.Context, accountID string, req models.HistoryRequest) (commons.Response[[]models.TransactionResponse], error)
}
