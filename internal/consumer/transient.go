package consumer

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"syscall"
)

// Transient marks an error as a temporary infrastructure failure that is
// expected to succeed on retry. Queue and storage adapters wrap transport
// errors with MarkTransient so the consumer retries instead of dead-lettering.
type Transient struct {
	Err error
}

func (t *Transient) Error() string { return t.Err.Error() }
func (t *Transient) Unwrap() error { return t.Err }

// MarkTransient wraps err so IsTransient reports true for it.
// Returns nil when err is nil.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return &Transient{Err: err}
}

// IsTransient reports whether err is retryable infrastructure noise:
// connection timeouts, socket-level faults, or anything an adapter marked
// with MarkTransient. Business-rule failures (account not found, insufficient
// funds) and decode failures are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var transient *Transient
	if errors.As(err, &transient) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
