package consumer

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheikh-saqib/bank-transaction-processor/internal/ledger"
	"github.com/sheikh-saqib/bank-transaction-processor/internal/models"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "marked transient", err: MarkTransient(errors.New("broker unreachable")), want: true},
		{name: "wrapped marked transient", err: fmt.Errorf("commit: %w", MarkTransient(errors.New("x"))), want: true},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: true},
		{name: "bad conn", err: driver.ErrBadConn, want: true},
		{name: "net timeout", err: &net.OpError{Op: "read", Err: timeoutErr{}}, want: true},
		{name: "connection refused", err: syscall.ECONNREFUSED, want: true},
		{name: "connection reset", err: fmt.Errorf("save: %w", syscall.ECONNRESET), want: true},
		{name: "account not found", err: ledger.ErrAccountNotFound, want: false},
		{name: "insufficient funds", err: ledger.ErrInsufficientFunds, want: false},
		{name: "decode failure", err: models.ErrMalformed, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestMarkTransientNil(t *testing.T) {
	assert.NoError(t, MarkTransient(nil))
}

func TestMarkTransientPreservesCause(t *testing.T) {
	cause := errors.New("broker down")
	err := MarkTransient(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Error())
}
