package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/api-sage/wallet-ledger/internal/adapter/http/models"
	"github.com/api-sage/wallet-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/wallet-ledger/internal/commons"
	"github.com/api-sage/wallet-ledger/internal/domain"
	"github.com/api-sage/wallet-ledger/internal/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Notifier is the engine's view of the notification gateway. Calls are
// best-effort: they cannot fail or block the financial operation.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string)
}

// TransactionService moves money. Each operation runs as one atomic unit of
// work against the ledger store: lock, validate, mutate, persist exactly one
// audit row, commit. Notifications fire after the unit has settled, never
// inside it.
type TransactionService struct {
	store    repo_interfaces.LedgerStore
	notifier Notifier
}

func NewTransactionService(store repo_interfaces.LedgerStore, notifier Notifier) *TransactionService {
	return &TransactionService{
		store:    store,
		notifier: notifier,
	}
}

func (s *TransactionService) Deposit(ctx context.Context, accountID string, req models.DepositRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("transaction service deposit request", logger.Fields{
		"accountId": accountID,
		"amount":    req.Amount,
	})

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		err := fmt.Errorf("accountId is required")
		return commons.ValidationErrorResponse[models.TransactionResponse](err), err
	}
	if err := req.Validate(); err != nil {
		logger.Error("transaction service deposit validation failed", err, nil)
		return commons.ValidationErrorResponse[models.TransactionResponse](err), err
	}

	var created domain.Transaction
	var ownerEmail string
	var newBalance decimal.Decimal

	err := s.store.RunAtomic(ctx, func(ctx context.Context, unit repo_interfaces.LedgerUnit) error {
		account, err := unit.FindAccount(ctx, repo_interfaces.SelectByID(accountID), repo_interfaces.LockExclusive)
		if err != nil {
			return err
		}
		ownerEmail = ownerEmailOf(account)

		account.Balance = account.Balance.Add(req.Amount)
		if err := unit.SaveAccount(ctx, account); err != nil {
			return err
		}

		created, err = unit.CreateTransaction(ctx, domain.Transaction{
			Amount:    req.Amount,
			Type:      domain.TransactionTypeDeposit,
			Reference: uuid.NewString(),
			AccountID: account.ID,
		})
		if err != nil {
			return err
		}

		newBalance = account.Balance
		return nil
	})
	if err != nil {
		return mapLedgerError[models.TransactionResponse]("deposit", err), err
	}

	// Outside the lock's critical section; delivery cannot touch the commit.
	if ownerEmail != "" {
		s.notifier.Notify(ctx, ownerEmail, "Deposit Successful",
			fmt.Sprintf("You have successfully deposited %s. Your new balance is %s.", req.Amount, newBalance))
	}

	logger.Info("transaction service deposit success", logger.Fields{
		"accountId":     accountID,
		"transactionId": created.ID,
		"reference":     created.Reference,
	})

	return commons.SuccessResponse("deposit successful", models.NewTransactionResponse(created)), nil
}

func (s *TransactionService) Withdraw(ctx context.Context, accountID string, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("transaction service withdraw request", logger.Fields{
		"accountId": accountID,
		"amount":    req.Amount,
	})

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		err := fmt.Errorf("accountId is required")
		return commons.ValidationErrorResponse[models.TransactionResponse](err), err
	}
	if err := req.Validate(); err != nil {
		logger.Error("transaction service withdraw validation failed", err, nil)
		return commons.ValidationErrorResponse[models.TransactionResponse](err), err
	}

	var created domain.Transaction
	var ownerEmail string
	var newBalance decimal.Decimal

	err := s.store.RunAtomic(ctx, func(ctx context.Context, unit repo_interfaces.LedgerUnit) error {
		account, err := unit.FindAccount(ctx, repo_interfaces.SelectByID(accountID), repo_interfaces.LockExclusive)
		if err != nil {
			return err
		}
		ownerEmail = ownerEmailOf(account)

		if account.Balance.LessThan(req.Amount) {
			return commons.ErrInsufficientBalance
		}

		account.Balance = account.Balance.Sub(req.Amount)
		if err := unit.SaveAccount(ctx, account); err != nil {
			return err
		}

		created, err = unit.CreateTransaction(ctx, domain.Transaction{
			Amount:    req.Amount,
			Type:      domain.TransactionTypeWithdrawal,
			Reference: uuid.NewString(),
			AccountID: account.ID,
		})
		if err != nil {
			return err
		}

		newBalance = account.Balance
		return nil
	})
	if err != nil {
		// The unit has already rolled back; the failure notice is a side
		// effect outside the atomicity boundary.
		if errors.Is(err, commons.ErrInsufficientBalance) && ownerEmail != "" {
			s.notifier.Notify(ctx, ownerEmail, "Withdrawal Failed",
				fmt.Sprintf("Your withdrawal of %s failed due to insufficient balance.", req.Amount))
		}
		return mapLedgerError[models.TransactionResponse]("withdrawal", err), err
	}

	if ownerEmail != "" {
		s.notifier.Notify(ctx, ownerEmail, "Withdrawal Successful",
			fmt.Sprintf("You have successfully withdrawn %s. Your new balance is %s.", req.Amount, newBalance))
	}

	logger.Info("transaction service withdraw success", logger.Fields{
		"accountId":     accountID,
		"transactionId": created.ID,
		"reference":     created.Reference,
	})

	return commons.SuccessResponse("withdrawal successful", models.NewTransactionResponse(created)), nil
}

func (s *TransactionService) Transfer(ctx context.Context, senderAccountID string, req models.TransferRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("transaction service transfer request", logger.Fields{
		"senderAccountId": senderAccountID,
		"amount":          req.Amount,
		"recipientEmail":  req.RecipientEmail,
	})

	senderAccountID = strings.TrimSpace(senderAccountID)
	if senderAccountID == "" {
		err := fmt.Errorf("accountId is required")
		return commons.ValidationErrorResponse[models.TransactionResponse](err), err
	}
	if err := req.Validate(); err != nil {
		logger.Error("transaction service transfer validation failed", err, nil)
		return commons.ValidationErrorResponse[models.TransactionResponse](err), err
	}
	recipientEmail := strings.TrimSpace(req.RecipientEmail)

	// Resolve both sides before locking anything so failure notices can
	// still reach the sender after an aborted unit.
	sender, err := s.store.FindAccount(ctx, repo_interfaces.SelectByID(senderAccountID))
	if err != nil {
		return mapLedgerError[models.TransactionResponse]("transfer", err), err
	}
	recipient, err := s.store.FindAccount(ctx, repo_interfaces.SelectByOwnerEmail(recipientEmail))
	if err != nil {
		return mapLedgerError[models.TransactionResponse]("transfer", err), err
	}
	if recipient.ID == sender.ID {
		err := commons.ErrSameAccountTransfer
		return commons.ValidationErrorResponse[models.TransactionResponse](err), err
	}

	senderEmail := ownerEmailOf(sender)
	recipientName := recipientEmail
	if recipient.Owner != nil {
		recipientName = recipient.Owner.Username
	}

	var created domain.Transaction
	var senderBalance decimal.Decimal

	err = s.store.RunAtomic(ctx, func(ctx context.Context, unit repo_interfaces.LedgerUnit) error {
		// Re-acquire with exclusive locks in ascending id order so two
		// opposing transfers over the same pair cannot deadlock.
		locked := make(map[string]domain.Account, 2)
		ids := []string{sender.ID, recipient.ID}
		sort.Strings(ids)
		for _, id := range ids {
			account, err := unit.FindAccount(ctx, repo_interfaces.SelectByID(id), repo_interfaces.LockExclusive)
			if err != nil {
				return err
			}
			locked[id] = account
		}

		lockedSender := locked[sender.ID]
		lockedRecipient := locked[recipient.ID]

		if lockedSender.Balance.LessThan(req.Amount) {
			return commons.ErrInsufficientBalance
		}

		lockedSender.Balance = lockedSender.Balance.Sub(req.Amount)
		lockedRecipient.Balance = lockedRecipient.Balance.Add(req.Amount)

		if err := unit.SaveAccount(ctx, lockedSender); err != nil {
			return err
		}
		if err := unit.SaveAccount(ctx, lockedRecipient); err != nil {
			return err
		}

		recipientID := lockedRecipient.ID
		var createErr error
		created, createErr = unit.CreateTransaction(ctx, domain.Transaction{
			Amount:             req.Amount,
			Type:               domain.TransactionTypeTransfer,
			Reference:          uuid.NewString(),
			AccountID:          lockedSender.ID,
			RecipientAccountID: &recipientID,
		})
		if createErr != nil {
			return createErr
		}

		senderBalance = lockedSender.Balance
		return nil
	})
	if err != nil {
		if errors.Is(err, commons.ErrInsufficientBalance) && senderEmail != "" {
			s.notifier.Notify(ctx, senderEmail, "Transfer Failed",
				fmt.Sprintf("Your transfer of %s to %s failed due to insufficient balance.", req.Amount, recipientName))
		}
		return mapLedgerError[models.TransactionResponse]("transfer", err), err
	}

	if senderEmail != "" {
		s.notifier.Notify(ctx, senderEmail, "Transfer Successful",
			fmt.Sprintf("You have successfully transferred %s to %s. Your new balance is %s.", req.Amount, recipientName, senderBalance))
	}

	logger.Info("transaction service transfer success", logger.Fields{
		"senderAccountId":    sender.ID,
		"recipientAccountId": recipient.ID,
		"transactionId":      created.ID,
		"reference":          created.Reference,
	})

	return commons.SuccessResponse("transfer successful", models.NewTransactionResponse(created)), nil
}

func ownerEmailOf(account domain.Account) string {
	if account.Owner == nil {
		return ""
	}
	return account.Owner.Email
}

func mapLedgerError[T any](operation string, err error) commons.Response[T] {
	switch {
	case errors.Is(err, commons.ErrAccountNotFound):
		return commons.ErrorResponse[T]("Account not found")
	case errors.Is(err, commons.ErrInsufficientBalance):
		return commons.ErrorResponse[T]("Insufficient balance", err.Error())
	case errors.Is(err, commons.ErrDuplicateReference), errors.Is(err, commons.ErrRetryable):
		return commons.ErrorResponse[T]("failed to process "+operation, "Temporary storage conflict, retry the operation")
	default:
		return commons.ErrorResponse[T]("failed to process "+operation, "Unable to process "+operation+" right now")
	}
}
