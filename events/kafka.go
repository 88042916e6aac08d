package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher produces report events to a Kafka topic.
type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewKafkaPublisher creates an async producer for topic. Delivery failures are
// logged from the completion callback and never reach the request path.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(msgs []kafkago.Message, err error) {
			if err != nil {
				logger.Error("publish report events", "count", len(msgs), "error", err)
			}
		},
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

// Publish serializes event and hands it to the producer.
func (p *KafkaPublisher) Publish(ctx context.Context, event ReportEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", event.EventType, err)
	}
	p.logger.Debug("report event queued", "event_type", event.EventType, "report_id", event.Report.ID)
	return nil
}

// Close flushes pending messages and closes the producer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a ReportEvent keyed by report id, so every event
// for one report lands on the same partition in order.
func serializeToMessage(event ReportEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Report.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "occurred_at", Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}
