package port

import (
	"context"

	"github.com/bibbank/bib/services/propensity-service/pkg/events"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}
