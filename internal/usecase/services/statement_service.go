package services

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/wallet-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/wallet-ledger/internal/commons"
	"github.com/api-sage/wallet-ledger/internal/domain"
	"github.com/api-sage/wallet-ledger/internal/logger"
)

// statementPageSize bounds each history read while collecting the full
// statement.
const statementPageSize = 100

// StatementRenderer turns (account, transactions) into a finished document.
// Rendering is a caller-supplied capability; the service only assembles the
// inputs and forwards the result.
type StatementRenderer interface {
	Render(account domain.Account, transactions []domain.Transaction) (domain.StatementDocument, error)
}

type StatementService struct {
	store    repo_interfaces.LedgerStore
	renderer StatementRenderer
}

func NewStatementService(store repo_interfaces.LedgerStore, renderer StatementRenderer) *StatementService {
	return &StatementService{
		store:    store,
		renderer: renderer,
	}
}

// GetStatement loads the account with its complete history, newest first,
// and returns the rendered document as plain data. The transport layer
// decides how to encode and send it.
func (s *StatementService) GetStatement(ctx context.Context, accountID string) (domain.StatementDocument, error) {
	logger.Info("statement service get statement request", logger.Fields{
		"accountId": accountID,
	})

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return domain.StatementDocument{}, errors.New("accountId is required")
	}

	account, err := s.store.FindAccount(ctx, repo_interfaces.SelectByID(accountID))
	if err != nil {
		if !errors.Is(err, commons.ErrAccountNotFound) {
			logger.Error("statement service account lookup failed", err, logger.Fields{
				"accountId": accountID,
			})
		}
		return domain.StatementDocument{}, err
	}

	transactions := make([]domain.Transaction, 0)
	for page := 1; ; page++ {
		batch, err := s.store.QueryTransactions(ctx, accountID, repo_interfaces.TransactionFilter{
			Limit: statementPageSize,
			Page:  page,
		})
		if err != nil {
			logger.Error("statement service history read failed", err, logger.Fields{
				"accountId": accountID,
				"page":      page,
			})
			return domain.StatementDocument{}, err
		}
		transactions = append(transactions, batch...)
		if len(batch) < statementPageSize {
			break
		}
	}

	document, err := s.renderer.Render(account, transactions)
	if err != nil {
		logger.Error("statement service render failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.StatementDocument{}, err
	}

	logger.Info("statement service get statement success", logger.Fields{
		"accountId":    accountID,
		"transactions": len(transactions),
		"bytes":        len(document.Content),
	})

	return document, nil
}
