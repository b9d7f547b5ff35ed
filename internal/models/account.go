package models

import "github.com/shopspring/decimal"

// Account is a bank account balance record owned by the persistence store.
// Balance must never go negative as a result of a debit.
type Account struct {
	ID      string
	Balance decimal.Decimal
}
