package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/bank-transaction-processor/internal/interfaces"
	"github.com/sheikh-saqib/bank-transaction-processor/internal/models"
)

// AccountStore is an in-memory implementation of interfaces.AccountStore,
// used in tests and local runs. Writes are staged per transaction and applied
// on Commit, so rollback semantics match the Postgres store.
type AccountStore struct {
	mu       sync.Mutex
	accounts map[string]decimal.Decimal
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[string]decimal.Decimal),
	}
}

// Seed creates or replaces an account with the given balance.
func (s *AccountStore) Seed(accountID string, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[accountID] = balance
}

// Balance returns the committed balance for an account.
func (s *AccountStore) Balance(accountID string) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.accounts[accountID]
	return balance, ok
}

func (s *AccountStore) Begin(ctx context.Context) (interfaces.Tx, error) {
	return &accountTx{
		store:  s,
		staged: make(map[string]decimal.Decimal),
	}, nil
}

type accountTx struct {
	store  *AccountStore
	staged map[string]decimal.Decimal
	done   bool
}

func (t *accountTx) FindAccount(ctx context.Context, accountID string) (*models.Account, error) {
	if balance, ok := t.staged[accountID]; ok {
		return &models.Account{ID: accountID, Balance: balance}, nil
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	balance, ok := t.store.accounts[accountID]
	if !ok {
		return nil, nil
	}
	return &models.Account{ID: accountID, Balance: balance}, nil
}

func (t *accountTx) SaveBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	if t.done {
		return errors.New("transaction already resolved")
	}
	t.staged[accountID] = balance
	return nil
}

func (t *accountTx) Commit() error {
	if t.done {
		return errors.New("transaction already resolved")
	}
	t.done = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for accountID, balance := range t.staged {
		t.store.accounts[accountID] = balance
	}
	return nil
}

func (t *accountTx) Rollback() error {
	if t.done {
		return errors.New("transaction already resolved")
	}
	t.done = true
	t.staged = nil
	return nil
}

// Compile-time check: ensure AccountStore implements the store interface
var _ interfaces.AccountStore = (*AccountStore)(nil)
