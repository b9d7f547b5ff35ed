package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/sheikh-saqib/bank-transaction-processor/internal/interfaces"
)

// Queue is an in-memory queue for tests and local runs. Peek returns the head
// message without removing it; Acknowledge and DeadLetter settle the exact
// delivery that was peeked, identified by the envelope's receipt.
type Queue struct {
	mu           sync.Mutex
	messages     []message
	nextSeq      int
	deadLettered []string
	acknowledged int
}

type message struct {
	seq  int
	body string
}

func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends a message body to the tail of the queue.
func (q *Queue) Enqueue(body string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextSeq++
	q.messages = append(q.messages, message{seq: q.nextSeq, body: body})
}

func (q *Queue) Peek(ctx context.Context) (*interfaces.Envelope, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.messages) == 0 {
		return nil, nil
	}
	head := q.messages[0]
	return &interfaces.Envelope{Body: head.body, Receipt: head.seq}, nil
}

func (q *Queue) Acknowledge(ctx context.Context, env *interfaces.Envelope) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.checkClaim(env); err != nil {
		return err
	}
	q.messages = q.messages[1:]
	q.acknowledged++
	return nil
}

func (q *Queue) DeadLetter(ctx context.Context, env *interfaces.Envelope) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.checkClaim(env); err != nil {
		return err
	}
	q.deadLettered = append(q.deadLettered, q.messages[0].body)
	q.messages = q.messages[1:]
	return nil
}

// checkClaim verifies the envelope identifies the currently claimed head
// message. A stale envelope (its message already settled) must never settle
// whatever message moved into its place.
func (q *Queue) checkClaim(env *interfaces.Envelope) error {
	if len(q.messages) == 0 {
		return errors.New("settle on empty queue")
	}
	seq, ok := env.Receipt.(int)
	if !ok {
		return errors.New("envelope does not carry a queue receipt")
	}
	if seq != q.messages[0].seq {
		return errors.New("envelope does not match the claimed message")
	}
	return nil
}

// Len returns the number of messages still awaiting delivery.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}

// Acknowledged returns how many messages have been acknowledged.
func (q *Queue) Acknowledged() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.acknowledged
}

// DeadLettered returns the bodies routed to the dead-letter state, in order.
func (q *Queue) DeadLettered() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.deadLettered))
	copy(out, q.deadLettered)
	return out
}

var _ interfaces.Queue = (*Queue)(nil)
