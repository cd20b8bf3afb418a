package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/api-sage/wallet-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/wallet-ledger/internal/commons"
	"github.com/api-sage/wallet-ledger/internal/domain"
	"github.com/google/uuid"
)

// LedgerStore keeps the whole ledger in process memory. It honors the same
// contract as the Postgres repository: exclusive row locks held for the
// duration of the atomic unit, mutations staged until commit, rollback on
// any error. Used by tests and local development.
type LedgerStore struct {
	mu           sync.Mutex
	users        map[string]domain.User
	accounts     map[string]domain.Account
	transactions []domain.Transaction
	references   map[string]struct{}
	rowLocks     map[string]*sync.Mutex
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		users:      make(map[string]domain.User),
		accounts:   make(map[string]domain.Account),
		references: make(map[string]struct{}),
		rowLocks:   make(map[string]*sync.Mutex),
	}
}

func (s *LedgerStore) SeedUser(user domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = user
	return user
}

func (s *LedgerStore) SeedAccount(account domain.Account) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	account.Owner = nil
	s.accounts[account.ID] = account
	return account
}

func (s *LedgerStore) RunAtomic(ctx context.Context, work func(ctx context.Context, unit repo_interfaces.LedgerUnit) error) error {
	unit := &ledgerUnit{
		store:          s,
		stagedAccounts: make(map[string]domain.Account),
		lockedIDs:      make(map[string]struct{}),
	}
	defer unit.releaseLocks()

	if err := work(ctx, unit); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, account := range unit.stagedAccounts {
		account.Owner = nil
		s.accounts[id] = account
	}
	for _, transaction := range unit.stagedTransactions {
		s.transactions = append(s.transactions, transaction)
		s.references[transaction.Reference] = struct{}{}
	}

	return nil
}

func (s *LedgerStore) FindAccount(_ context.Context, selector repo_interfaces.AccountSelector) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.resolveIDLocked(selector)
	if err != nil {
		return domain.Account{}, err
	}
	return s.accountWithOwnerLocked(id)
}

func (s *LedgerStore) QueryTransactions(_ context.Context, accountID string, filter repo_interfaces.TransactionFilter) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.Transaction, 0)
	for i := len(s.transactions) - 1; i >= 0; i-- {
		transaction := s.transactions[i]
		if transaction.AccountID != accountID {
			continue
		}
		if !matchesFilter(transaction, filter) {
			continue
		}
		matched = append(matched, transaction)
	}

	// Newest first; reverse insertion order already approximates this, the
	// stable sort settles rows whose timestamps differ.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	offset := filter.Offset()
	if offset >= len(matched) {
		return []domain.Transaction{}, nil
	}
	end := offset + filter.LimitOrDefault()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func matchesFilter(transaction domain.Transaction, filter repo_interfaces.TransactionFilter) bool {
	if filter.StartDate != nil && transaction.CreatedAt.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && transaction.CreatedAt.After(*filter.EndDate) {
		return false
	}
	if filter.Type != nil && transaction.Type != *filter.Type {
		return false
	}
	if filter.MinAmount != nil && transaction.Amount.LessThan(*filter.MinAmount) {
		return false
	}
	if filter.MaxAmount != nil && transaction.Amount.GreaterThan(*filter.MaxAmount) {
		return false
	}
	if filter.RecipientAccountID != nil {
		if transaction.RecipientAccountID == nil || *transaction.RecipientAccountID != *filter.RecipientAccountID {
			return false
		}
	}
	return true
}

func (s *LedgerStore) resolveIDLocked(selector repo_interfaces.AccountSelector) (string, error) {
	switch {
	case selector.ID != "":
		if _, ok := s.accounts[selector.ID]; !ok {
			return "", commons.ErrAccountNotFound
		}
		return selector.ID, nil
	case selector.OwnerEmail != "":
		for _, account := range s.accounts {
			owner, ok := s.users[account.OwnerID]
			if ok && owner.Email == selector.OwnerEmail {
				return account.ID, nil
			}
		}
		return "", commons.ErrAccountNotFound
	default:
		return "", fmt.Errorf("empty account selector")
	}
}

func (s *LedgerStore) accountWithOwnerLocked(id string) (domain.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrAccountNotFound
	}
	if owner, ok := s.users[account.OwnerID]; ok {
		ownerCopy := owner
		account.Owner = &ownerCopy
	}
	return account, nil
}

func (s *LedgerStore) rowLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.rowLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.rowLocks[id] = lock
	}
	return lock
}

type ledgerUnit struct {
	store              *LedgerStore
	stagedAccounts     map[string]domain.Account
	stagedTransactions []domain.Transaction
	locked             []*sync.Mutex
	lockedIDs          map[string]struct{}
}

func (u *ledgerUnit) FindAccount(_ context.Context, selector repo_interfaces.AccountSelector, lock repo_interfaces.LockMode) (domain.Account, error) {
	u.store.mu.Lock()
	id, err := u.store.resolveIDLocked(selector)
	u.store.mu.Unlock()
	if err != nil {
		return domain.Account{}, err
	}

	if lock == repo_interfaces.LockExclusive {
		if _, held := u.lockedIDs[id]; !held {
			rowLock := u.store.rowLock(id)
			rowLock.Lock()
			u.locked = append(u.locked, rowLock)
			u.lockedIDs[id] = struct{}{}
		}
	}

	if staged, ok := u.stagedAccounts[id]; ok {
		return staged, nil
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return u.store.accountWithOwnerLocked(id)
}

func (u *ledgerUnit) SaveAccount(_ context.Context, account domain.Account) error {
	u.store.mu.Lock()
	_, ok := u.store.accounts[account.ID]
	u.store.mu.Unlock()
	if !ok {
		return commons.ErrAccountNotFound
	}

	u.stagedAccounts[account.ID] = account
	return nil
}

func (u *ledgerUnit) CreateTransaction(_ context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	u.store.mu.Lock()
	_, taken := u.store.references[transaction.Reference]
	u.store.mu.Unlock()
	if !taken {
		for _, staged := range u.stagedTransactions {
			if staged.Reference == transaction.Reference {
				taken = true
				break
			}
		}
	}
	if taken {
		return domain.Transaction{}, fmt.Errorf("%w: %s", commons.ErrDuplicateReference, transaction.Reference)
	}

	transaction.ID = uuid.NewString()
	transaction.CreatedAt = time.Now().UTC()
	u.stagedTransactions = append(u.stagedTransactions, transaction)
	return transaction, nil
}

func (u *ledgerUnit) releaseLocks() {
	for _, lock := range u.locked {
		lock.Unlock()
	}
	u.locked = nil
}
