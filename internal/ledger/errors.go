package ledger

import "errors"

// Business-rule failures returned by the ledger operations. Both are
// non-transient: the consumer dead-letters the message rather than retrying.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
