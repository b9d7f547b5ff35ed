package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCompleted is published after a message has been applied to an
// account and acknowledged. Best-effort: consumers of this event must not
// assume every applied transaction produced one.
type TransactionCompleted struct {
	TransactionID string          `json:"transaction_id"`
	BankAccountID string          `json:"bank_account_id"`
	MessageType   string          `json:"message_type"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
