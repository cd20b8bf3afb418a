package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypePersonal AccountType = "PERSONAL"
	AccountTypeBusiness AccountType = "BUSINESS"
)

// Account is the only mutable ledger record. Its balance changes exclusively
// inside a locked atomic unit of work owned by the transaction service;
// account creation and the owning user's lifecycle live outside this core.
type Account struct {
	ID          string
	Balance     decimal.Decimal
	AccountType AccountType
	OwnerID     string
	Owner       *User
	CreatedAt   time.Time
}
