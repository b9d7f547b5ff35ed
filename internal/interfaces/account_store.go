package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/bank-transaction-processor/internal/models"
)

// AccountStore opens transactional scopes over account records.
type AccountStore interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a single transactional scope. All reads and writes inside it are
// all-or-nothing: Commit makes them durable, Rollback discards them. When
// multiple worker instances run concurrently, the implementation must isolate
// transactions at the account-row level (serializable or equivalent) so two
// instances cannot corrupt the same balance.
type Tx interface {
	// FindAccount returns the account, or nil when no such account exists.
	FindAccount(ctx context.Context, accountID string) (*models.Account, error)

	// SaveBalance stages the new balance for the account inside this scope.
	SaveBalance(ctx context.Context, accountID string, balance decimal.Decimal) error

	Commit() error
	Rollback() error
}
