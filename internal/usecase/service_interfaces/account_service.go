package service_interfaces

import (
	"context"

	"github.com/api-sage/wallet-ledger/internal/adapter/http/models"
	"github.com/api-sage/wallet-ledger/internal/commons"
)

type AccountService interface {
	GetBalance(ctx context.Context, accountID string) (commons.Response[models.BalanceResponse], error)
}
