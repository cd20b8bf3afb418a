package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/api-sage/wallet-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/wallet-ledger/internal/commons"
	"github.com/api-sage/wallet-ledger/internal/domain"
	"github.com/api-sage/wallet-ledger/internal/logger"
	"github.com/lib/pq"
)

const accountColumns = `
a.id, a.balance, a.account_type, a.owner_id, a.created_at,
u.id, u.username, u.email, u.created_at`

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// RunAtomic executes work inside one database transaction. Errors returned
// by work roll back everything performed within it; storage anomalies are
// translated into the ledger error taxonomy on the way out.
func (r *LedgerRepository) RunAtomic(ctx context.Context, work func(ctx context.Context, unit repo_interfaces.LedgerUnit) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("ledger repository begin unit failed", err, nil)
		return translateStoreError(fmt.Errorf("begin ledger unit: %w", err))
	}

	if err := work(ctx, &ledgerUnit{tx: tx}); err != nil {
		_ = tx.Rollback()
		return translateStoreError(err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("ledger repository commit unit failed", err, nil)
		return translateStoreError(fmt.Errorf("commit ledger unit: %w", err))
	}

	return nil
}

func (r *LedgerRepository) FindAccount(ctx context.Context, selector repo_interfaces.AccountSelector) (domain.Account, error) {
	account, err := findAccount(ctx, r.db, selector, repo_interfaces.LockNone)
	if err != nil {
		return domain.Account{}, translateStoreError(err)
	}
	return account, nil
}

func (r *LedgerRepository) QueryTransactions(ctx context.Context, accountID string, filter repo_interfaces.TransactionFilter) ([]domain.Transaction, error) {
	logger.Info("ledger repository query transactions", logger.Fields{
		"accountId": accountID,
		"limit":     filter.LimitOrDefault(),
		"offset":    filter.Offset(),
	})

	clauses := []string{"account_id = $1"}
	args := []any{accountID}

	addClause := func(condition string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(condition, strconv.Itoa(len(args))))
	}

	if filter.StartDate != nil {
		addClause("created_at >= $%s", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addClause("created_at <= $%s", *filter.EndDate)
	}
	if filter.Type != nil {
		addClause("transaction_type = $%s", string(*filter.Type))
	}
	if filter.MinAmount != nil {
		addClause("amount >= $%s", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		addClause("amount <= $%s", *filter.MaxAmount)
	}
	if filter.RecipientAccountID != nil {
		addClause("recipient_account_id = $%s", *filter.RecipientAccountID)
	}

	query := fmt.Sprintf(`
SELECT id, amount, transaction_type, reference, account_id, recipient_account_id, created_at
FROM transactions
WHERE %s
ORDER BY created_at DESC
LIMIT %d OFFSET %d`, strings.Join(clauses, " AND "), filter.LimitOrDefault(), filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ledger repository query transactions failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, translateStoreError(fmt.Errorf("query transactions: %w", err))
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, filter.LimitOrDefault())
	for rows.Next() {
		var transaction domain.Transaction
		var recipient sql.NullString
		if err := rows.Scan(
			&transaction.ID,
			&transaction.Amount,
			&transaction.Type,
			&transaction.Reference,
			&transaction.AccountID,
			&recipient,
			&transaction.CreatedAt,
		); err != nil {
			return nil, translateStoreError(fmt.Errorf("scan transaction: %w", err))
		}
		if recipient.Valid {
			value := recipient.String
			transaction.RecipientAccountID = &value
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, translateStoreError(fmt.Errorf("iterate transactions: %w", err))
	}

	return transactions, nil
}

// ledgerUnit binds the store contract to one open database transaction.
type ledgerUnit struct {
	tx *sql.Tx
}

func (u *ledgerUnit) FindAccount(ctx context.Context, selector repo_interfaces.AccountSelector, lock repo_interfaces.LockMode) (domain.Account, error) {
	return findAccount(ctx, u.tx, selector, lock)
}

func (u *ledgerUnit) SaveAccount(ctx context.Context, account domain.Account) error {
	const query = `
UPDATE accounts
SET balance = $2
WHERE id = $1`

	result, err := u.tx.ExecContext(ctx, query, account.ID, account.Balance)
	if err != nil {
		logger.Error("ledger repository save account failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return fmt.Errorf("save account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save account rows affected: %w", err)
	}
	if rows == 0 {
		return commons.ErrAccountNotFound
	}

	return nil
}

func (u *ledgerUnit) CreateTransaction(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	logger.Info("ledger repository create transaction", logger.Fields{
		"accountId": transaction.AccountID,
		"type":      transaction.Type,
		"reference": transaction.Reference,
	})

	const query = `
INSERT INTO transactions (
	amount,
	transaction_type,
	reference,
	account_id,
	recipient_account_id
) VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	var id string
	var createdAt time.Time
	if err := u.tx.QueryRowContext(
		ctx,
		query,
		transaction.Amount,
		transaction.Type,
		transaction.Reference,
		transaction.AccountID,
		transaction.RecipientAccountID,
	).Scan(&id, &createdAt); err != nil {
		logger.Error("ledger repository create transaction failed", err, logger.Fields{
			"accountId": transaction.AccountID,
			"reference": transaction.Reference,
		})
		return domain.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	transaction.ID = id
	transaction.CreatedAt = createdAt
	return transaction, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findAccount(ctx context.Context, q queryer, selector repo_interfaces.AccountSelector, lock repo_interfaces.LockMode) (domain.Account, error) {
	var condition string
	var arg any
	switch {
	case selector.ID != "":
		condition = "a.id = $1"
		arg = selector.ID
	case selector.OwnerEmail != "":
		condition = "u.email = $1"
		arg = selector.OwnerEmail
	default:
		return domain.Account{}, fmt.Errorf("empty account selector")
	}

	query := fmt.Sprintf(`
SELECT %s
FROM accounts a
JOIN users u ON u.id = a.owner_id
WHERE %s`, accountColumns, condition)
	if lock == repo_interfaces.LockExclusive {
		query += "\nFOR UPDATE OF a"
	}

	var account domain.Account
	var owner domain.User
	if err := q.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Balance,
		&account.AccountType,
		&account.OwnerID,
		&account.CreatedAt,
		&owner.ID,
		&owner.Username,
		&owner.Email,
		&owner.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrAccountNotFound
		}
		logger.Error("ledger repository find account failed", err, nil)
		return domain.Account{}, fmt.Errorf("find account: %w", err)
	}

	account.Owner = &owner
	return account, nil
}

// translateStoreError maps driver anomalies onto the ledger taxonomy and
// passes business errors through untouched.
func translateStoreError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case "23505":
			return fmt.Errorf("%w: %s", commons.ErrDuplicateReference, pqErr.Constraint)
		case "55P03", "40001", "40P01", "57014":
			return fmt.Errorf("%w: %s", commons.ErrRetryable, pqErr.Code)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", commons.ErrRetryable, "deadline exceeded")
	}

	return err
}
