package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/wallet-ledger/internal/adapter/http/models"
	"github.com/api-sage/wallet-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/wallet-ledger/internal/commons"
	"github.com/api-sage/wallet-ledger/internal/domain"
	"github.com/api-sage/wallet-ledger/internal/usecase/services"
	"github.com/shopspring/decimal"
)

type stubLedgerStore struct {
	runAtomicFn         func(ctx context.Context, work func(ctx context.Context, unit repo_interfaces.LedgerUnit) error) error
	findAccountFn       func(ctx context.Context, selector repo_interfaces.AccountSelector) (domain.Account, error)
	queryTransactionsFn func(ctx context.Context, accountID string, filter repo_interfaces.TransactionFilter) ([]domain.Transaction, error)
}

func (s *stubLedgerStore) RunAtomic(ctx context.Context, work func(ctx context.Context, unit repo_interfaces.LedgerUnit) error) error {
	return s.runAtomicFn(ctx, work)
}

func (s *stubLedgerStore) FindAccount(ctx context.Context, selector repo_interfaces.AccountSelector) (domain.Account, error) {
	return s.findAccountFn(ctx, selector)
}

func (s *stubLedgerStore) QueryTransactions(ctx context.Context, accountID string, filter repo_interfaces.TransactionFilter) ([]domain.Transaction, error) {
	return s.queryTransactionsFn(ctx, accountID, filter)
}

func TestHistoryServiceAccountNotFound(t *testing.T) {
	store := &stubLedgerStore{
		findAccountFn: func(context.Context, repo_interfaces.AccountSelector) (domain.Account, error) {
			return domain.Account{}, commons.ErrAccountNotFound
		},
	}
	svc := services.NewHistoryService(store)

	resp, err := svc.GetFilteredTransactions(context.Background(), "missing", models.HistoryRequest{Limit: 10, Page: 1})
	if !errors.Is(err, commons.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if resp.Success {
		t.Fatal("expected failure response")
	}
}

func TestHistoryServicePaginationOffset(t *testing.T) {
	var captured repo_interfaces.TransactionFilter
	store := &stubLedgerStore{
		findAccountFn: func(context.Context, repo_interfaces.AccountSelector) (domain.Account, error) {
			return domain.Account{ID: "acc-1"}, nil
		},
		queryTransactionsFn: func(_ context.Context, _ string, filter repo_interfaces.TransactionFilter) ([]domain.Transaction, error) {
			captured = filter
			return []domain.Transaction{}, nil
		},
	}
	svc := services.NewHistoryService(store)

	if _, err := svc.GetFilteredTransactions(context.Background(), "acc-1", models.HistoryRequest{Limit: 10, Page: 2}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if captured.Offset() != 10 {
		t.Fatalf("expected offset 10 for limit=10 page=2, got %d", captured.Offset())
	}
	if captured.LimitOrDefault() != 10 {
		t.Fatalf("expected limit 10, got %d", captured.LimitOrDefault())
	}
}

func TestHistoryServiceFiltersAndOrdering(t *testing.T) {
	f := newFixture()
	account := f.seedAccount(t, "ada", "ada@example.com", 0)

	amounts := []int64{100, 200, 300}
	for _, amount := range amounts {
		if _, err := f.svc.Deposit(context.Background(), account.ID, models.DepositRequest{Amount: decimal.NewFromInt(amount)}); err != nil {
			t.Fatalf("deposit of %d failed: %v", amount, err)
		}
	}
	if _, err := f.svc.Withdraw(context.Background(), account.ID, models.WithdrawRequest{Amount: decimal.NewFromInt(50)}); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	history := services.NewHistoryService(f.store)

	resp, err := history.GetFilteredTransactions(context.Background(), account.ID, models.HistoryRequest{Limit: 10, Page: 1})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	rows := *resp.Data
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	// createdAt descending: the withdrawal committed last comes first.
	if rows[0].Type != string(domain.TransactionTypeWithdrawal) {
		t.Fatalf("expected newest row first, got %s", rows[0].Type)
	}

	depositType := domain.TransactionTypeDeposit
	minAmount := decimal.NewFromInt(200)
	filtered, err := history.GetFilteredTransactions(context.Background(), account.ID, models.HistoryRequest{
		Limit:     10,
		Page:      1,
		Type:      &depositType,
		MinAmount: &minAmount,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	filteredRows := *filtered.Data
	if len(filteredRows) != 2 {
		t.Fatalf("expected 2 deposits of at least 200, got %d", len(filteredRows))
	}
	for _, row := range filteredRows {
		if row.Type != string(domain.TransactionTypeDeposit) || row.Amount.LessThan(minAmount) {
			t.Fatalf("row escaped the filter: %+v", row)
		}
	}

	lastPage, err := history.GetFilteredTransactions(context.Background(), account.ID, models.HistoryRequest{Limit: 3, Page: 2})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	lastRows := *lastPage.Data
	if len(lastRows) != 1 {
		t.Fatalf("expected 1 row on the second page of 3, got %d", len(lastRows))
	}

	beyond, err := history.GetFilteredTransactions(context.Background(), account.ID, models.HistoryRequest{Limit: 10, Page: 5})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(*beyond.Data) != 0 {
		t.Fatalf("expected empty page past the end, got %d rows", len(*beyond.Data))
	}
}
