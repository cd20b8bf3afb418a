package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/wallet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type LockMode int

const (
	LockNone LockMode = iota
	// LockExclusive takes an exclusive row lock scoped to the enclosing
	// atomic unit. It blocks until the current holder commits or rolls back.
	LockExclusive
)

// AccountSelector locates an account by its id or by the owning user's
// email. Exactly one field must be set.
type AccountSelector struct {
	ID         string
	OwnerEmail string
}

func SelectByID(id string) AccountSelector {
	return AccountSelector{ID: id}
}

func SelectByOwnerEmail(email string) AccountSelector {
	return AccountSelector{OwnerEmail: email}
}

// TransactionFilter is a conjunctive filter over an account's history.
// Nil fields are not applied. Page and Limit are 1-based and positive;
// results are ordered by created_at descending.
type TransactionFilter struct {
	StartDate          *time.Time
	EndDate            *time.Time
	Type               *domain.TransactionType
	MinAmount          *decimal.Decimal
	MaxAmount          *decimal.Decimal
	RecipientAccountID *string
	Limit              int
	Page               int
}

func (f TransactionFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.LimitOrDefault()
}

func (f TransactionFilter) LimitOrDefault() int {
	if f.Limit < 1 {
		return 10
	}
	return f.Limit
}

// LedgerUnit is the view of the store inside one atomic unit of work.
// Every read and write through it commits or rolls back as a whole.
type LedgerUnit interface {
	// FindAccount loads an account with its owner. It returns
	// commons.ErrAccountNotFound when the selector matches nothing.
	FindAccount(ctx context.Context, selector AccountSelector, lock LockMode) (domain.Account, error)
	SaveAccount(ctx context.Context, account domain.Account) error
	// CreateTransaction persists a new audit row and returns it with the
	// store-assigned id and timestamp. Rows are immutable once created.
	CreateTransaction(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error)
}

// LedgerStore is the durable home of accounts and their audit rows.
type LedgerStore interface {
	// RunAtomic executes work inside a single atomic unit. Any error
	// returned by work rolls back every mutation performed within it.
	RunAtomic(ctx context.Context, work func(ctx context.Context, unit LedgerUnit) error) error
	// FindAccount is a plain read outside any unit of work.
	FindAccount(ctx context.Context, selector AccountSelector) (domain.Account, error)
	QueryTransactions(ctx context.Context, accountID string, filter TransactionFilter) ([]domain.Transaction, error)
}
