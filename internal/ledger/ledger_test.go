package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/bank-transaction-processor/internal/models"
)

// fakeTx records ledger activity against a single staged account map.
type fakeTx struct {
	accounts map[string]decimal.Decimal
	saves    int
	saveErr  error
	findErr  error
}

func (f *fakeTx) FindAccount(ctx context.Context, accountID string) (*models.Account, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	balance, ok := f.accounts[accountID]
	if !ok {
		return nil, nil
	}
	return &models.Account{ID: accountID, Balance: balance}, nil
}

func (f *fakeTx) SaveBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.accounts[accountID] = balance
	return nil
}

func (f *fakeTx) Commit() error   { return nil }
func (f *fakeTx) Rollback() error { return nil }

func newFakeTx(accountID, balance string) *fakeTx {
	return &fakeTx{
		accounts: map[string]decimal.Decimal{
			accountID: decimal.RequireFromString(balance),
		},
	}
}

func TestApplyCredit(t *testing.T) {
	tx := newFakeTx("acct-1", "300.00")

	newBalance, err := ApplyCredit(context.Background(), tx, "acct-1", decimal.RequireFromString("90.00"))
	require.NoError(t, err)

	assert.True(t, newBalance.Equal(decimal.RequireFromString("390.00")), "got %s", newBalance)
	assert.Equal(t, 1, tx.saves, "credit must persist exactly once")
}

func TestApplyCreditUnknownAccount(t *testing.T) {
	tx := newFakeTx("acct-1", "300.00")

	_, err := ApplyCredit(context.Background(), tx, "no-such-account", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Zero(t, tx.saves)
}

func TestApplyDebit(t *testing.T) {
	tx := newFakeTx("acct-1", "300.00")

	newBalance, err := ApplyDebit(context.Background(), tx, "acct-1", decimal.RequireFromString("90.00"))
	require.NoError(t, err)

	assert.True(t, newBalance.Equal(decimal.RequireFromString("210.00")), "got %s", newBalance)
	assert.Equal(t, 1, tx.saves)
}

func TestApplyDebitToZero(t *testing.T) {
	tx := newFakeTx("acct-1", "300.00")

	newBalance, err := ApplyDebit(context.Background(), tx, "acct-1", decimal.RequireFromString("300.00"))
	require.NoError(t, err)
	assert.True(t, newBalance.IsZero())
}

func TestApplyDebitInsufficientFunds(t *testing.T) {
	tx := newFakeTx("acct-1", "300.00")

	_, err := ApplyDebit(context.Background(), tx, "acct-1", decimal.RequireFromString("500.00"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assert.Zero(t, tx.saves, "failed debit must not write")
	assert.True(t, tx.accounts["acct-1"].Equal(decimal.RequireFromString("300.00")), "balance must be unchanged")
}

func TestApplyDebitUnknownAccount(t *testing.T) {
	tx := newFakeTx("acct-1", "300.00")

	_, err := ApplyDebit(context.Background(), tx, "no-such-account", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Zero(t, tx.saves)
}

func TestOperationsPropagateStoreErrors(t *testing.T) {
	storeErr := errors.New("connection reset")

	tx := newFakeTx("acct-1", "300.00")
	tx.findErr = storeErr
	_, err := ApplyCredit(context.Background(), tx, "acct-1", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, storeErr)

	tx = newFakeTx("acct-1", "300.00")
	tx.saveErr = storeErr
	_, err = ApplyDebit(context.Background(), tx, "acct-1", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, storeErr)
}
