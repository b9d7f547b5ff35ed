// Package ledger applies credit and debit transactions to account balances.
// Both operations run inside a caller-provided transactional scope: they stage
// exactly one write on success and none on failure, and the caller decides
// whether the scope commits or rolls back.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/bank-transaction-processor/internal/interfaces"
)

// ApplyCredit adds amount to the account's balance and returns the updated
// balance. Fails with ErrAccountNotFound when the account does not exist.
// Credits have no upper bound: once the account exists they always succeed.
func ApplyCredit(ctx context.Context, tx interfaces.Tx, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	account, err := tx.FindAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if account == nil {
		return decimal.Zero, ErrAccountNotFound
	}

	newBalance := account.Balance.Add(amount)
	if err := tx.SaveBalance(ctx, accountID, newBalance); err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}

// ApplyDebit subtracts amount from the account's balance and returns the
// updated balance. Fails with ErrAccountNotFound when the account does not
// exist, and with ErrInsufficientFunds when the result would be negative;
// in both cases no write is staged.
func ApplyDebit(ctx context.Context, tx interfaces.Tx, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	account, err := tx.FindAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if account == nil {
		return decimal.Zero, ErrAccountNotFound
	}

	newBalance := account.Balance.Sub(amount)
	if newBalance.IsNegative() {
		return decimal.Zero, ErrInsufficientFunds
	}

	if err := tx.SaveBalance(ctx, accountID, newBalance); err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}
