package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitAppliesStagedWrites(t *testing.T) {
	store := NewAccountStore()
	store.Seed("acct-1", decimal.NewFromInt(100))

	tx, err := store.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, tx.SaveBalance(context.Background(), "acct-1", decimal.NewFromInt(150)))

	// Uncommitted writes are invisible outside the transaction.
	balance, _ := store.Balance("acct-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(100)))

	require.NoError(t, tx.Commit())

	balance, _ = store.Balance("acct-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(150)))
}

func TestRollbackDiscardsStagedWrites(t *testing.T) {
	store := NewAccountStore()
	store.Seed("acct-1", decimal.NewFromInt(100))

	tx, err := store.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, tx.SaveBalance(context.Background(), "acct-1", decimal.NewFromInt(999)))
	require.NoError(t, tx.Rollback())

	balance, _ := store.Balance("acct-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(100)))
}

func TestFindAccountSeesOwnStagedWrite(t *testing.T) {
	store := NewAccountStore()
	store.Seed("acct-1", decimal.NewFromInt(100))

	tx, err := store.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, tx.SaveBalance(context.Background(), "acct-1", decimal.NewFromInt(70)))

	account, err := tx.FindAccount(context.Background(), "acct-1")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(70)))
}

func TestFindAccountMissing(t *testing.T) {
	store := NewAccountStore()

	tx, err := store.Begin(context.Background())
	require.NoError(t, err)

	account, err := tx.FindAccount(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestResolvedTransactionRejectsFurtherUse(t *testing.T) {
	store := NewAccountStore()

	tx, err := store.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Error(t, tx.Commit())
	assert.Error(t, tx.Rollback())
	assert.Error(t, tx.SaveBalance(context.Background(), "acct-1", decimal.Zero))
}
