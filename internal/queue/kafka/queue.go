package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sheikh-saqib/bank-transaction-processor/internal/consumer"
	"github.com/sheikh-saqib/bank-transaction-processor/internal/interfaces"
)

// peekTimeout bounds a single fetch so an empty topic reads as "no message"
// instead of blocking the loop.
const peekTimeout = 2 * time.Second

// Queue adapts a Kafka consumer group to the queue contract. Peek fetches
// without committing, Acknowledge commits the offset, and DeadLetter copies
// the message to a <topic>.dlq topic before committing. Between Peek and
// settlement the message stays claimed: Peek keeps returning the same pending
// message until it is acknowledged or dead-lettered.
type Queue struct {
	reader  *kafka.Reader
	dlq     *kafka.Writer
	pending *kafka.Message
}

func NewQueue(brokers []string, topic, groupID string) *Queue {
	return &Queue{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
		dlq: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic + ".dlq",
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (q *Queue) Peek(ctx context.Context) (*interfaces.Envelope, error) {
	if q.pending != nil {
		return q.envelope(), nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, peekTimeout)
	defer cancel()

	msg, err := q.reader.FetchMessage(fetchCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			// No message arrived within the poll window.
			return nil, nil
		}
		return nil, consumer.MarkTransient(err)
	}

	q.pending = &msg
	return q.envelope(), nil
}

func (q *Queue) Acknowledge(ctx context.Context, env *interfaces.Envelope) error {
	msg, ok := env.Receipt.(kafka.Message)
	if !ok {
		return errors.New("envelope does not carry a kafka receipt")
	}

	if err := q.reader.CommitMessages(ctx, msg); err != nil {
		return consumer.MarkTransient(err)
	}

	q.pending = nil
	return nil
}

func (q *Queue) DeadLetter(ctx context.Context, env *interfaces.Envelope) error {
	msg, ok := env.Receipt.(kafka.Message)
	if !ok {
		return errors.New("envelope does not carry a kafka receipt")
	}

	err := q.dlq.WriteMessages(ctx, kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
	})
	if err != nil {
		return consumer.MarkTransient(err)
	}

	// Commit only after the copy landed on the DLQ topic; failing here means
	// redelivery and a possible duplicate DLQ record, never a lost message.
	if err := q.reader.CommitMessages(ctx, msg); err != nil {
		return consumer.MarkTransient(err)
	}

	q.pending = nil
	return nil
}

func (q *Queue) Close() error {
	readerErr := q.reader.Close()
	writerErr := q.dlq.Close()
	if readerErr != nil {
		return readerErr
	}
	return writerErr
}

func (q *Queue) envelope() *interfaces.Envelope {
	return &interfaces.Envelope{
		Body:    string(q.pending.Value),
		Receipt: *q.pending,
	}
}

var _ interfaces.Queue = (*Queue)(nil)
