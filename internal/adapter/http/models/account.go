package models

import (
	"time"

	"github.com/api-sage/wallet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type BalanceResponse struct {
	AccountID   string          `json:"accountId"`
	Balance     decimal.Decimal `json:"balance"`
	AccountType string          `json:"accountType"`
	CreatedAt   string          `json:"createdAt"`
}

func NewBalanceResponse(account domain.Account) BalanceResponse {
	return BalanceResponse{
		AccountID:   account.ID,
		Balance:     account.Balance,
		AccountType: string(account.AccountType),
		CreatedAt:   account.CreatedAt.Format(time.RFC3339),
	}
}
