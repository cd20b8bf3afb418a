package services

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/wallet-ledger/internal/adapter/http/models"
	"github.com/api-sage/wallet-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/wallet-ledger/internal/commons"
	"github.com/api-sage/wallet-ledger/internal/logger"
)

// AccountService exposes read-only account lookups. Account creation and the
// owner's identity lifecycle belong to an external service.
type AccountService struct {
	store repo_interfaces.LedgerStore
}

func NewAccountService(store repo_interfaces.LedgerStore) *AccountService {
	return &AccountService{store: store}
}

func (s *AccountService) GetBalance(ctx context.Context, accountID string) (commons.Response[models.BalanceResponse], error) {
	logger.Info("account service get balance request", logger.Fields{
		"accountId": accountID,
	})

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		err := errors.New("accountId is required")
		return commons.ValidationErrorResponse[models.BalanceResponse](err), err
	}

	account, err := s.store.FindAccount(ctx, repo_interfaces.SelectByID(accountID))
	if err != nil {
		if errors.Is(err, commons.ErrAccountNotFound) {
			return commons.ErrorResponse[models.BalanceResponse]("Account not found"), err
		}
		logger.Error("account service get balance failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[models.BalanceResponse]("failed to fetch balance", "Unable to fetch balance right now"), err
	}

	return commons.SuccessResponse("balance fetched successfully", models.NewBalanceResponse(account)), nil
}
