package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/wallet-ledger/internal/commons"
	"github.com/api-sage/wallet-ledger/internal/usecase/services"
	"github.com/shopspring/decimal"
)

func TestAccountServiceGetBalance(t *testing.T) {
	f := newFixture()
	account := f.seedAccount(t, "ada", "ada@example.com", 420)
	svc := services.NewAccountService(f.store)

	resp, err := svc.GetBalance(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatal("expected successful response with data")
	}
	if resp.Data.AccountID != account.ID {
		t.Fatalf("expected account %s, got %s", account.ID, resp.Data.AccountID)
	}
	if !resp.Data.Balance.Equal(decimal.NewFromInt(420)) {
		t.Fatalf("expected balance 420, got %s", resp.Data.Balance)
	}
}

func TestAccountServiceGetBalanceNotFound(t *testing.T) {
	f := newFixture()
	svc := services.NewAccountService(f.store)

	resp, err := svc.GetBalance(context.Background(), "missing")
	if !errors.Is(err, commons.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if resp.Success {
		t.Fatal("expected failure response")
	}
}

func TestAccountServiceGetBalanceBlankID(t *testing.T) {
	f := newFixture()
	svc := services.NewAccountService(f.store)

	if _, err := svc.GetBalance(context.Background(), "   "); err == nil {
		t.Fatal("expected validation error for blank account id")
	}
}
