package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPBroker fans events out over a RabbitMQ fanout exchange. Every
// instance consumes from its own exclusive queue bound to the exchange.
type AMQPBroker struct {
	logger   *gecho.Logger
	url      string
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex
}

func NewAMQPBroker(logger *gecho.Logger, url, exchange string) (*AMQPBroker, error) {
	ab := &AMQPBroker{
		logger:   logger,
		url:      url,
		exchange: exchange,
	}
	if err := ab.connect(); err != nil {
		return nil, err
	}
	return ab, nil
}

// connect dials the broker and declares the exchange. Callers other than
// the constructor must hold mu.
func (ab *AMQPBroker) connect() error {
	conn, err := amqp.Dial(ab.url)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ab.exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", ab.exchange, err)
	}

	ab.conn = conn
	ab.ch = ch
	return nil
}

// consumerChannel opens a channel for Run, redialing first when the
// connection was lost.
func (ab *AMQPBroker) consumerChannel() (*amqp.Channel, error) {
	ab.mu.Lock()
	defer ab.mu.Unlock()

	if ab.conn.IsClosed() {
		ab.logger.Warn("RabbitMQ connection lost, reconnecting", gecho.Field("exchange", ab.exchange))
		if err := ab.connect(); err != nil {
			return nil, err
		}
	} else if ab.ch.IsClosed() {
		ch, err := ab.conn.Channel()
		if err != nil {
			return nil, fmt.Errorf("failed to reopen publish channel: %w", err)
		}
		ab.ch = ch
	}

	ch, err := ab.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open consumer channel: %w", err)
	}
	return ch, nil
}

func (ab *AMQPBroker) Publish(ctx context.Context, data []byte) error {
	ab.mu.Lock()
	defer ab.mu.Unlock()

	return ab.ch.PublishWithContext(ctx, ab.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        data,
	})
}

func (ab *AMQPBroker) Run(ctx context.Context, deliver func([]byte)) error {
	ch, err := ab.consumerChannel()
	if err != nil {
		return err
	}
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", ab.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", q.Name, err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume from %s: %w", q.Name, err)
	}

	ab.logger.Info("Consuming notifications",
		gecho.Field("exchange", ab.exchange),
		gecho.Field("queue", q.Name),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("rabbitmq delivery channel closed")
			}
			deliver(d.Body)
		}
	}
}

func (ab *AMQPBroker) Close() error {
	ab.mu.Lock()
	defer ab.mu.Unlock()

	if ab.ch != nil && !ab.ch.IsClosed() {
		if err := ab.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %w", err)
		}
	}
	if ab.conn != nil && !ab.conn.IsClosed() {
		if err := ab.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}
