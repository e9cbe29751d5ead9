package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bibbank/bib/services/propensity-service/pkg/events"
)

// LogPublisher implements port.EventPublisher by logging events. It stands in
// for Kafka when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that writes events to logger.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs each event at info level and its payload at debug level.
func (p *LogPublisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	for _, evt := range domainEvents {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.InfoContext(ctx, "domain event",
			slog.String("event_type", evt.EventType()),
			slog.String("aggregate_id", evt.AggregateID().String()),
			slog.Int("payload_size", len(payload)),
		)
		p.logger.DebugContext(ctx, "event payload",
			slog.String("event_type", evt.EventType()),
			slog.String("payload", string(payload)),
		)
	}
	return nil
}
