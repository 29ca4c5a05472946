package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrChannelClosed = errors.New("delivery channel closed")

// Acknowledger is the subset of amqp.Delivery the consumer loop needs.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// StartReading consumes the client's queue until ctx is done. Deliveries are
// acked when handle succeeds and dropped without requeue when it fails.
func (r *RabbitMQClient) StartReading(ctx context.Context, handle func(body []byte) error) error {
	const op = "rabbitmq.StartReading"

	if err := r.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	deliveries, err := r.channel.ConsumeWithContext(ctx, r.queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("%s: %w", op, ErrChannelClosed)
			}

			if err := dispatch(d, d.Body, handle); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}
}

func dispatch(ack Acknowledger, body []byte, handle func([]byte) error) error {
	if err := handle(body); err != nil {
		return ack.Nack(false, false)
	}

	return ack.Ack(false)
}

var _ Acknowledger = amqp.Delivery{}
