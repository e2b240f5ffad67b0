package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/RoshaThankachan/EcoWaste/types"
)

// EventChannel is the broker channel lifecycle events are published on.
const EventChannel = "ecowaste.events"

// Publisher sends lifecycle events to a broker. mq.MQ satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return "", nil
}

// publishEvent marshals and publishes an event. Broker failures are
// logged, never propagated: event delivery is best-effort and must not
// fail the operation that produced the event.
func publishEvent(ctx context.Context, pub Publisher, logger *slog.Logger, event types.Event) {
	if pub == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn("marshal event", "type", event.Type, "error", err)
		return
	}
	attrs := map[string]string{"type": event.Type}
	if _, err := pub.Publish(ctx, EventChannel, data, attrs); err != nil {
		logger.Warn("publish event", "type", event.Type, "error", err)
	}
}
