package notification

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Muhannad-Khaled/Ailigent/internal/events"
)

// MessageWriter is the slice of *kafkago.Writer the relay needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func publishOutboxEvent(ctx context.Context, writer MessageWriter, event OutboxEvent) error {
	msg := kafkago.Message{
		Topic: events.Topic,
		Key:   []byte(event.AggregateID),
		Value: []byte(event.Payload),
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(event.ID.String())},
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		},
	}

	return writer.WriteMessages(ctx, msg)
}
