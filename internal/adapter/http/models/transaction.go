package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/wallet-ledger/internal/commons"
	"github.com/api-sage/wallet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r DepositRequest) Validate() error {
	return validateAmount(r.Amount)
}

type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r WithdrawRequest) Validate() error {
	return validateAmount(r.Amount)
}

type TransferRequest struct {
	RecipientEmail string          `json:"recipientEmail"`
	Amount         decimal.Decimal `json:"amount"`
}

func (r TransferRequest) Validate() error {
	if err := validateAmount(r.Amount); err != nil {
		return err
	}

	email := strings.TrimSpace(r.RecipientEmail)
	if email == "" {
		return fmt.Errorf("recipientEmail is required")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("recipientEmail is not a valid email address")
	}
	return nil
}

// Amounts are whole units of account: strictly positive integers with no
// fractional part. Rejected before any lock is taken.
func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be greater than zero", commons.ErrInvalidAmount)
	}
	if !amount.IsInteger() {
		return fmt.Errorf("%w: amount must be a whole number", commons.ErrInvalidAmount)
	}
	return nil
}

type TransactionResponse struct {
	ID                 string          `json:"id"`
	Amount             decimal.Decimal `json:"amount"`
	Type               string          `json:"type"`
	Reference          string          `json:"reference"`
	AccountID          string          `json:"accountId"`
	RecipientAccountID string          `json:"recipientAccountId,omitempty"`
	CreatedAt          string          `json:"createdAt"`
}

func NewTransactionResponse(transaction domain.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:        transaction.ID,
		Amount:    transaction.Amount,
		Type:      string(transaction.Type),
		Reference: transaction.Reference,
		AccountID: transaction.AccountID,
		CreatedAt: transaction.CreatedAt.Format(time.RFC3339),
	}
	if transaction.RecipientAccountID != nil {
		response.RecipientAccountID = *transaction.RecipientAccountID
	}
	return response
}

func NewTransactionResponses(transactions []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		responses = append(responses, NewTransactionResponse(transaction))
	}
	return responses
}
