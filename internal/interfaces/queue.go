package interfaces

import "context"

// Envelope wraps a raw message body with the queue's delivery metadata.
// Receipt is opaque to the consumer; the queue adapter uses it to acknowledge
// or dead-letter the exact delivery that was peeked.
type Envelope struct {
	Body    string
	Receipt any
}

// Queue is the transport the consumer polls. Peek is non-destructive: the
// message stays claimed until it is acknowledged or dead-lettered, and a
// message neither acknowledged nor dead-lettered is redelivered (at-least-once
// contract). All three operations may fail with transport errors.
type Queue interface {
	// Peek returns the next available message, or nil when the queue is empty.
	Peek(ctx context.Context) (*Envelope, error)

	// Acknowledge removes the message from future delivery.
	Acknowledge(ctx context.Context, env *Envelope) error

	// DeadLetter moves the message to a terminal dead-letter state.
	DeadLetter(ctx context.Context, env *Envelope) error
}
