package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
)

// Notifier is what the lifecycle engines use to announce a change.
// Implementations must not fail the calling command.
type Notifier interface {
	Notify(ctx context.Context, name string, payload any)
}

// Broker carries encoded events between instances. Run delivers every
// event published by any instance, including this one, until ctx ends.
type Broker interface {
	Publish(ctx context.Context, data []byte) error
	Run(ctx context.Context, deliver func([]byte)) error
	Close() error
}

const (
	relayRetryMin = 500 * time.Millisecond
	relayRetryMax = 30 * time.Second
)

type NotificationService struct {
	logger *gecho.Logger
	hub    *Hub
	broker Broker
}

func NewNotificationService(logger *gecho.Logger, hub *Hub, broker Broker) *NotificationService {
	return &NotificationService{
		logger: logger,
		hub:    hub,
		broker: broker,
	}
}

func (ns *NotificationService) Hub() *Hub {
	return ns.hub
}

func (ns *NotificationService) Notify(ctx context.Context, name string, payload any) {
	ev := structs.Event{Name: name}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			ns.logger.Error("Failed to encode notification payload",
				gecho.Field("event", name),
				gecho.Field("error", err),
			)
			NotificationsPublished.WithLabelValues(name, "error").Inc()
			return
		}
		ev.Payload = raw
	}

	data, err := json.Marshal(ev)
	if err != nil {
		NotificationsPublished.WithLabelValues(name, "error").Inc()
		return
	}

	// The command has already committed; don't let its cancellation drop the event.
	if err := ns.broker.Publish(context.WithoutCancel(ctx), data); err != nil {
		ns.logger.Warn("Failed to publish notification",
			gecho.Field("event", name),
			gecho.Field("error", err),
		)
		NotificationsPublished.WithLabelValues(name, "error").Inc()
		return
	}

	NotificationsPublished.WithLabelValues(name, "ok").Inc()
}

// Run relays broker traffic into the hub until ctx is cancelled. A broker
// that fails is restarted with backoff; the error never leaves Run.
func (ns *NotificationService) Run(ctx context.Context) error {
	ns.logger.Info("Notification relay started")
	delay := relayRetryMin

	for {
		started := time.Now()
		err := ns.broker.Run(ctx, ns.hub.Dispatch)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errors.New("broker stopped")
		}

		if time.Since(started) > relayRetryMax {
			delay = relayRetryMin
		}
		ns.logger.Error("Notification relay failed, restarting",
			gecho.Field("error", err),
			gecho.Field("retry_in", delay.String()),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay = min(delay*2, relayRetryMax)
	}
}

func (ns *NotificationService) Close() error {
	return ns.broker.Close()
}

// MemoryBroker hands events straight to the local hub. It is enough for a
// single instance.
type MemoryBroker struct {
	hub *Hub
}

func NewMemoryBroker(hub *Hub) *MemoryBroker {
	return &MemoryBroker{hub: hub}
}

func (mb *MemoryBroker) Publish(ctx context.Context, data []byte) error {
	mb.hub.Dispatch(data)
	return nil
}

func (mb *MemoryBroker) Run(ctx context.Context, deliver func([]byte)) error {
	<-ctx.Done()
	return nil
}

func (mb *MemoryBroker) Close() error {
	return nil
}
