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

// HistoryService is the read-only side of the ledger: filtered, paginated
// retrieval of an account's audit rows. It never mutates state.
type HistoryService struct {
	store repo_interfaces.LedgerStore
}

func NewHistoryService(store repo_interfaces.LedgerStore) *HistoryService {
	return &HistoryService{store: store}
}

func (s *HistoryService) GetFilteredTransactions(ctx context.Context, accountID string, req models.HistoryRequest) (commons.Response[[]models.TransactionResponse], error) {
	logger.Info("history service get filtered transactions request", logger.Fields{
		"accountId": accountID,
		"limit":     req.Limit,
		"page":      req.Page,
	})

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		err := errors.New("accountId is required")
		return commons.ValidationErrorResponse[[]models.TransactionResponse](err), err
	}

	if _, err := s.store.FindAccount(ctx, repo_interfaces.SelectByID(accountID)); err != nil {
		if errors.Is(err, commons.ErrAccountNotFound) {
			return commons.ErrorResponse[[]models.TransactionResponse]("Account not found"), err
		}
		logger.Error("history service account lookup failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[[]models.TransactionResponse]("failed to fetch transactions", "Unable to fetch transactions right now"), err
	}

	transactions, err := s.store.QueryTransactions(ctx, accountID, req.Filter())
	if err != nil {
		logger.Error("history service query failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[[]models.TransactionResponse]("failed to fetch transactions", "Unable to fetch transactions right now"), err
	}

	logger.Info("history service get filtered transactions success", logger.Fields{
		"accountId": accountID,
		"count":     len(transactions),
	})

	return commons.SuccessResponse("transactions fetched successfully", models.NewTransactionResponses(transactions)), nil
}
