package services

import (
	"context"
	"fmt"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

// RedisBroker fans events out over a Redis pub/sub channel.
type RedisBroker struct {
	logger  *gecho.Logger
	client  *redis.Client
	channel string
}

func NewRedisBroker(logger *gecho.Logger, client *redis.Client, channel string) *RedisBroker {
	return &RedisBroker{
		logger:  logger,
		client:  client,
		channel: channel,
	}
}

func (rb *RedisBroker) Publish(ctx context.Context, data []byte) error {
	return rb.client.Publish(ctx, rb.channel, data).Err()
}

func (rb *RedisBroker) Run(ctx context.Context, deliver func([]byte)) error {
	pubsub := rb.client.Subscribe(ctx, rb.channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before reading messages
	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to subscribe to %s: %w", rb.channel, err)
	}

	rb.logger.Info("Subscribed to notification channel", gecho.Field("channel", rb.channel))

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			deliver([]byte(msg.Payload))
		}
	}
}

// Close is a no-op; the Redis client is shared with the cache.
func (rb *RedisBroker) Close() error {
	return nil
}
