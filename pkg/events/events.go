// Package events publishes domain events to a message broker.
package events

import (
	"context"
	"time"
)

const (
	ApplicationSubmitted     = "application.submitted"
	ApplicationStatusChanged = "application.status_changed"
)

// Event is the JSON envelope put on the wire. Type doubles as routing key.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, e Event) error { return nil }
func (NoopPublisher) Close() error                               { return nil }
