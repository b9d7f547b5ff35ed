// Package consumer runs the message consumption loop: it polls the queue,
// decodes transaction messages, applies them to account balances inside a
// per-message transaction, and settles each delivery by acknowledging it,
// dead-lettering it, or leaving it claimed for redelivery after a transient
// failure.
package consumer

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/bank-transaction-processor/internal/interfaces"
	"github.com/sheikh-saqib/bank-transaction-processor/internal/ledger"
	"github.com/sheikh-saqib/bank-transaction-processor/internal/models"
	"github.com/sheikh-saqib/bank-transaction-processor/internal/models/events"
)

// idleInterval is how long the loop pauses when the queue has no message.
const idleInterval = 10 * time.Second

// retrySchedule is the fixed cooldown applied after a transient failure:
// three exponential delays, no jitter, not configurable. The delays do not
// re-attempt processing in place; the message stays claimed and is re-peeked
// on the next iteration.
var retrySchedule = []time.Duration{5 * time.Second, 25 * time.Second, 125 * time.Second}

// outcome is the terminal state of one loop iteration.
type outcome int

const (
	outcomeIdle outcome = iota
	outcomeAcknowledged
	outcomeDeadLettered
	outcomeRetryScheduled
)

// Consumer is a single sequential worker. Multiple instances may run
// concurrently against the same store provided its transactions isolate at
// the account-row level.
type Consumer struct {
	queue     interfaces.Queue
	store     interfaces.AccountStore
	publisher interfaces.EventPublisher // optional, best-effort
	logger    *zap.Logger

	// sleep pauses for d or until ctx is cancelled, reporting whether the
	// full pause elapsed. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) bool
}

func New(queue interfaces.Queue, store interfaces.AccountStore, publisher interfaces.EventPublisher, logger *zap.Logger) *Consumer {
	return &Consumer{
		queue:     queue,
		store:     store,
		publisher: publisher,
		logger:    logger,
		sleep:     sleepCtx,
	}
}

// Run polls the queue until ctx is cancelled. No single message's failure
// terminates the loop: every failure is settled inside the iteration that
// produced it. Cancellation is checked at the top of each iteration, so an
// in-flight transaction always resolves before Run returns.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.runOnce(ctx)
	}
}

// runOnce executes one iteration of the loop and returns its outcome.
// Per iteration there is at most one acknowledge or dead-letter call and at
// most one transaction commit or rollback.
func (c *Consumer) runOnce(ctx context.Context) outcome {
	env, err := c.queue.Peek(ctx)
	if err != nil {
		c.logger.Error("peek failed", zap.Error(err))
		if IsTransient(err) {
			return c.cooldown(ctx)
		}
		// Nothing claimed, nothing to dead-letter. Pause and poll again.
		c.sleep(ctx, idleInterval)
		return outcomeIdle
	}

	if env == nil {
		c.sleep(ctx, idleInterval)
		return outcomeIdle
	}

	if strings.TrimSpace(env.Body) == "" {
		c.logger.Warn("empty message body, dead-lettering")
		return c.deadLetter(ctx, env)
	}

	msg, err := models.Decode(env.Body)
	if err != nil {
		c.logger.Warn("undecodable message, dead-lettering", zap.Error(err))
		return c.deadLetter(ctx, env)
	}

	if msg.MessageType != models.MessageTypeCredit && msg.MessageType != models.MessageTypeDebit {
		c.logger.Warn("unrecognized message type, dead-lettering",
			zap.String("message_id", msg.ID),
			zap.String("message_type", msg.MessageType))
		return c.deadLetter(ctx, env)
	}

	acked, err := c.process(ctx, env, msg)
	if err != nil {
		if acked {
			// The acknowledge already settled this delivery; the balance
			// write was lost with the failed commit. Nothing may settle the
			// message a second time this iteration.
			c.logger.Error("commit failed after acknowledge",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			return outcomeAcknowledged
		}

		if IsTransient(err) {
			c.logger.Warn("transient failure, message left claimed for redelivery",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			return c.cooldown(ctx)
		}

		c.logger.Error("processing failed, dead-lettering",
			zap.String("message_id", msg.ID),
			zap.String("message_type", msg.MessageType),
			zap.Error(err))
		return c.deadLetter(ctx, env)
	}

	c.logger.Info("message processed",
		zap.String("message_id", msg.ID),
		zap.String("message_type", msg.MessageType),
		zap.String("bank_account_id", msg.BankAccountID),
		zap.String("amount", msg.Amount.String()))
	return outcomeAcknowledged
}

// process opens the transactional scope, dispatches to the ledger operation,
// and on success acknowledges the message and commits. Any failure inside the
// scope rolls the transaction back and propagates to runOnce for
// classification. The acked result reports whether the message was already
// acknowledged when the failure happened, so the caller never settles it
// twice.
func (c *Consumer) process(ctx context.Context, env *interfaces.Envelope, msg models.TransactionMessage) (acked bool, err error) {
	tx, err := c.store.Begin(ctx)
	if err != nil {
		return false, err
	}

	var newBalance decimal.Decimal
	switch msg.MessageType {
	case models.MessageTypeCredit:
		newBalance, err = ledger.ApplyCredit(ctx, tx, msg.BankAccountID, msg.Amount)
	case models.MessageTypeDebit:
		newBalance, err = ledger.ApplyDebit(ctx, tx, msg.BankAccountID, msg.Amount)
	}
	if err != nil {
		c.rollback(tx)
		return false, err
	}

	if err := c.queue.Acknowledge(ctx, env); err != nil {
		c.rollback(tx)
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return true, err
	}

	c.publishCompleted(ctx, msg, newBalance)
	return true, nil
}

func (c *Consumer) rollback(tx interfaces.Tx) {
	if err := tx.Rollback(); err != nil {
		c.logger.Error("rollback failed", zap.Error(err))
	}
}

// deadLetter settles the message as terminal. A failed dead-letter call
// leaves the message claimed; it will surface again on a later delivery.
func (c *Consumer) deadLetter(ctx context.Context, env *interfaces.Envelope) outcome {
	if err := c.queue.DeadLetter(ctx, env); err != nil {
		c.logger.Error("dead-letter failed", zap.Error(err))
	}
	return outcomeDeadLettered
}

// cooldown walks the fixed retry schedule, stopping early on cancellation.
func (c *Consumer) cooldown(ctx context.Context) outcome {
	for attempt, delay := range retrySchedule {
		c.logger.Info("transient retry pause",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay))
		if !c.sleep(ctx, delay) {
			break
		}
	}
	return outcomeRetryScheduled
}

// publishCompleted emits a TransactionCompleted event. Best-effort: a publish
// failure is logged and never fails the already-acknowledged message.
func (c *Consumer) publishCompleted(ctx context.Context, msg models.TransactionMessage, balance decimal.Decimal) {
	if c.publisher == nil {
		return
	}

	event := events.TransactionCompleted{
		TransactionID: msg.ID,
		BankAccountID: msg.BankAccountID,
		MessageType:   msg.MessageType,
		Amount:        msg.Amount,
		Balance:       balance,
		OccurredAt:    time.Now().UTC(),
	}
	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.Error("transaction_completed publish failed",
			zap.String("message_id", msg.ID),
			zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
