package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Recognized message types. Matching is case-sensitive: anything other than
// these two exact values is routed to the dead-letter queue.
const (
	MessageTypeCredit = "Credit"
	MessageTypeDebit  = "Debit"
)

var (
	ErrEmptyBody      = errors.New("message body is empty")
	ErrMalformed      = errors.New("message body is not valid JSON")
	ErrMissingType    = errors.New("message type is missing")
	ErrNegativeAmount = errors.New("message amount is negative")
)

// TransactionMessage is a transaction event decoded from a queue message body.
// Amount is carried verbatim from the wire with no rounding; shopspring/decimal
// keeps the minor-unit precision exact.
type TransactionMessage struct {
	ID            string          `json:"Id"`
	MessageType   string          `json:"MessageType"`
	BankAccountID string          `json:"BankAccountId"`
	Amount        decimal.Decimal `json:"Amount"`
}

// Decode parses a raw message body into a TransactionMessage. It fails when
// the body is empty or whitespace, is not well-formed JSON, carries no
// message type, or carries a negative amount. Decode has no side effects.
func Decode(body string) (TransactionMessage, error) {
	var msg TransactionMessage

	if strings.TrimSpace(body) == "" {
		return msg, ErrEmptyBody
	}

	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return msg, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if msg.MessageType == "" {
		return msg, ErrMissingType
	}

	// Amounts are non-negative by contract: a negative value would invert
	// the operation (a negative debit silently credits) and can drive a
	// balance below zero.
	if msg.Amount.IsNegative() {
		return msg, ErrNegativeAmount
	}

	return msg, nil
}
