package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bibbank/bib/services/propensity-service/pkg/events"
	pkgkafka "github.com/bibbank/bib/services/propensity-service/pkg/kafka"
)

// MessageProducer is satisfied by *pkgkafka.Producer.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// KafkaPublisher implements port.EventPublisher using Kafka. Messages are keyed
// by aggregate id so every event of one prediction lands on one partition.
type KafkaPublisher struct {
	producer MessageProducer
	logger   *slog.Logger
	topic    string
}

// NewKafkaPublisher creates a new Kafka event publisher.
func NewKafkaPublisher(producer MessageProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends domain events to Kafka in one batch.
func (p *KafkaPublisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(domainEvents))
	for _, evt := range domainEvents {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", evt.EventType()),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(payload)),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.AggregateID().String()),
			Value: payload,
			Headers: map[string]string{
				"event_type":     evt.EventType(),
				"event_id":       evt.EventID().String(),
				"aggregate_type": evt.AggregateType(),
			},
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish %d events: %w", len(messages), err)
	}
	return nil
}
