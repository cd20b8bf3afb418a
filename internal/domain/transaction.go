package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

// Transaction is an append-only audit row. Exactly one is created per
// committed balance mutation, in the same atomic unit as the mutation.
// For transfers the row is attributed to the sender; the recipient's
// credit is carried in RecipientAccountID and has no row of its own.
type Transaction struct {
	ID                 string
	Amount             decimal.Decimal
	Type               TransactionType
	Reference          string
	AccountID          string
	RecipientAccountID *string
	CreatedAt          time.Time
}
