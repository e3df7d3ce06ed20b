package events

import (
	"context"
	"time"
)

// Event is the contract for everything relayed to the event bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "CHAT_MESSAGE_RECEIVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher relays events to the external event-processing service. The relay
// is part of the request's lifetime: callers wait for the publish attempt and
// treat failure as fatal for the request.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
