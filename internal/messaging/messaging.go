package messaging

import (
	"context"
	"fmt"
	"log"

	"bazaar_back_end/internal/models"
)

// Publisher writes an event to a broker topic.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

// TimelineWriter appends an event to an order's persistent history.
type TimelineWriter interface {
	Append(ctx context.Context, evt models.OrderEvent) error
}

// Notifier pushes an event to live subscribers of the order's owner.
type Notifier interface {
	Notify(ctx context.Context, evt models.OrderEvent) error
}

// Dispatcher fans order events out to every configured sink.
// Failures are logged and never reach the caller.
type Dispatcher struct {
	publisher Publisher
	topic     string
	timeline  TimelineWriter
	notifier  Notifier
}

type DispatcherOptions struct {
	Publisher Publisher
	Topic     string
	Timeline  TimelineWriter
	Notifier  Notifier
}

func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	return &Dispatcher{
		publisher: opts.Publisher,
		topic:     opts.Topic,
		timeline:  opts.Timeline,
		notifier:  opts.Notifier,
	}
}

func (d *Dispatcher) Emit(ctx context.Context, evt models.OrderEvent) {
	if d.timeline != nil {
		if err := d.timeline.Append(ctx, evt); err != nil {
			log.Printf("⚠️ Timeline append failed for order %d: %v", evt.OrderID, err)
		}
	}
	if d.publisher != nil {
		if err := d.publisher.PublishEvent(ctx, d.topic, fmt.Sprint(evt.OrderID), evt); err != nil {
			log.Printf("⚠️ Kafka publish failed for order %d: %v", evt.OrderID, err)
		}
	}
	if d.notifier != nil {
		if err := d.notifier.Notify(ctx, evt); err != nil {
			log.Printf("⚠️ Realtime notify failed for order %d: %v", evt.OrderID, err)
		}
	}
}
