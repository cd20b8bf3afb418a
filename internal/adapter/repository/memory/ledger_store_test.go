package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/wallet-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/wallet-ledger/internal/commons"
	"github.com/api-sage/wallet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

func TestLedgerStoreDuplicateReferenceRollsBackBalanceMutation(t *testing.T) {
	store := NewLedgerStore()
	user := store.SeedUser(domain.User{Username: "ada", Email: "ada@example.com"})
	account := store.SeedAccount(domain.Account{
		Balance:     decimal.NewFromInt(1000),
		AccountType: domain.AccountTypePersonal,
		OwnerID:     user.ID,
	})

	const reference = "ref-fixed-0001"
	ctx := context.Background()

	err := store.RunAtomic(ctx, func(ctx context.Context, unit repo_interfaces.LedgerUnit) error {
		_, err := unit.CreateTransaction(ctx, domain.Transaction{
			Amount:    decimal.NewFromInt(100),
			Type:      domain.TransactionTypeDeposit,
			Reference: reference,
			AccountID: account.ID,
		})
		return err
	})
	if err != nil {
		t.Fatalf("seeding transaction failed: %v", err)
	}

	// The second unit mutates the balance before the audit insert collides;
	// the whole unit must roll back.
	err = store.RunAtomic(ctx, func(ctx context.Context, unit repo_interfaces.LedgerUnit) error {
		locked, err := unit.FindAccount(ctx, repo_interfaces.SelectByID(account.ID), repo_interfaces.LockExclusive)
		if err != nil {
			return err
		}

		locked.Balance = locked.Balance.Add(decimal.NewFromInt(100))
		if err := unit.SaveAccount(ctx, locked); err != nil {
			return err
		}

		_, err = unit.CreateTransaction(ctx, domain.Transaction{
			Amount:    decimal.NewFromInt(100),
			Type:      domain.TransactionTypeDeposit,
			Reference: reference,
			AccountID: account.ID,
		})
		return err
	})
	if !errors.Is(err, commons.ErrDuplicateReference) {
		t.Fatalf("expected ErrDuplicateReference, got %v", err)
	}

	reloaded, err := store.FindAccount(ctx, repo_interfaces.SelectByID(account.ID))
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}
	if !reloaded.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected balance rolled back to 1000, got %s", reloaded.Balance)
	}

	rows, err := store.QueryTransactions(ctx, account.ID, repo_interfaces.TransactionFilter{Limit: 10, Page: 1})
	if err != nil {
		t.Fatalf("query transactions: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the seeded row, got %d", len(rows))
	}
	if rows[0].Reference != reference {
		t.Fatalf("unexpected surviving row: %+v", rows[0])
	}
}

func TestLedgerStoreDuplicateReferenceWithinSameUnit(t *testing.T) {
	store := NewLedgerStore()
	user := store.SeedUser(domain.User{Username: "ada", Email: "ada@example.com"})
	account := store.SeedAccount(domain.Account{
		Balance:     decimal.NewFromInt(1000),
		AccountType: domain.AccountTypePersonal,
		OwnerID:     user.ID,
	})

	err := store.RunAtomic(context.Background(), func(ctx context.Context, unit repo_interfaces.LedgerUnit) error {
		row := domain.Transaction{
			Amount:    decimal.NewFromInt(100),
			Type:      domain.TransactionTypeDeposit,
			Reference: "ref-fixed-0002",
			AccountID: account.ID,
		}
		if _, err := unit.CreateTransaction(ctx, row); err != nil {
			return err
		}
		_, err := unit.CreateTransaction(ctx, row)
		return err
	})
	if !errors.Is(err, commons.ErrDuplicateReference) {
		t.Fatalf("expected ErrDuplicateReference for a staged collision, got %v", err)
	}

	rows, err := store.QueryTransactions(context.Background(), account.ID, repo_interfaces.TransactionFilter{Limit: 10, Page: 1})
	if err != nil {
		t.Fatalf("query transactions: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows after the aborted unit, got %d", len(rows))
	}
}
