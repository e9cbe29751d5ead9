package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
}

// Envelope carries the metadata shared by every domain event. Concrete events
// embed it so the metadata is serialized next to the event payload.
type Envelope struct {
	ID        uuid.UUID `json:"event_id"`
	Type      string    `json:"event_type"`
	Aggregate uuid.UUID `json:"aggregate_id"`
	Kind      string    `json:"aggregate_type"`
	At        time.Time `json:"occurred_at"`
}

// NewEnvelope creates an Envelope with a generated UUID and the current time.
func NewEnvelope(eventType string, aggregateID uuid.UUID, aggregateType string) Envelope {
	return Envelope{
		ID:        uuid.New(),
		Type:      eventType,
		Aggregate: aggregateID,
		Kind:      aggregateType,
		At:        time.Now().UTC(),
	}
}

// EventID returns the unique identifier for this event.
func (e Envelope) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type name of this event.
func (e Envelope) EventType() string {
	return e.Type
}

// AggregateID returns the identifier of the aggregate that produced this event.
func (e Envelope) AggregateID() uuid.UUID {
	return e.Aggregate
}

// AggregateType returns the type name of the aggregate that produced this event.
func (e Envelope) AggregateType() string {
	return e.Kind
}

// OccurredAt returns the time at which this event occurred.
func (e Envelope) OccurredAt() time.Time {
	return e.At
}
