package service_interfaces

import (
	"context"

	"github.com/api-sage/wallet-ledger/internal/adapter/http/models"
	"github.com/api-sage/wallet-ledger/internal/commons"
)

type TransactionService interface {
	Deposit(ctx context.Context, accountID string, req models.DepositRequest) (commons.Response[models.TransactionResponse], error)
	Withdraw(ctx context.Context, accountID string, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error)
	Transfer(ctx context.Context, senderAccountID string, req models.TransferRequest) (commons.Response[models.TransactionResponse], error)
}
