package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/bank-transaction-processor/internal/consumer"
	"github.com/sheikh-saqib/bank-transaction-processor/internal/interfaces"
	"github.com/sheikh-saqib/bank-transaction-processor/internal/models"
)

// AccountStore is the Postgres implementation of interfaces.AccountStore.
// Balances live in an accounts table with a NUMERIC(18,2) balance column;
// decimal values round-trip exactly.
type AccountStore struct {
	db *sql.DB
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{
		db: db,
	}
}

// Begin opens a serializable transaction. FindAccount takes a row lock, so
// two worker instances touching the same account serialize instead of
// clobbering each other's balance.
func (s *AccountStore) Begin(ctx context.Context) (interfaces.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &accountTx{tx: dbTx}, nil
}

type accountTx struct {
	tx *sql.Tx
}

func (t *accountTx) FindAccount(ctx context.Context, accountID string) (*models.Account, error) {
	const query = `SELECT id, balance FROM accounts WHERE id = $1 FOR UPDATE`

	var account models.Account
	err := t.tx.QueryRowContext(ctx, query, accountID).Scan(&account.ID, &account.Balance)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, markRetryable(err)
	}

	return &account, nil
}

func (t *accountTx) SaveBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	const query = `UPDATE accounts SET balance = $2, updated_at = now() WHERE id = $1`

	_, err := t.tx.ExecContext(ctx, query, accountID, balance)
	return markRetryable(err)
}

func (t *accountTx) Commit() error {
	return markRetryable(t.tx.Commit())
}

func (t *accountTx) Rollback() error {
	return t.tx.Rollback()
}

// Serialization and deadlock aborts under serializable isolation. Expected
// noise when multiple workers race on the same account row; the aborted
// transaction succeeds on retry.
const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// markRetryable wraps serialization and deadlock aborts so the classifier
// retries them instead of dead-lettering the message.
func markRetryable(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case serializationFailure, deadlockDetected:
			return consumer.MarkTransient(err)
		}
	}
	return err
}

// Compile-time check: ensure AccountStore implements the store interface
var _ interfaces.AccountStore = (*AccountStore)(nil)
