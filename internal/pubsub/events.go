// Package pubsub fans typed events out to any number of subscribers and adapts
// subscriptions to bubbletea commands.
package pubsub

import (
	"context"
	"time"
)

// EventType is a free-form tag publishers attach to a payload.
type EventType string

// Tags used across the app. Log entries are always CreatedEvent.
const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
)

// Event is one delivery. Seq counts publishes on the originating broker,
// starting at 1, so a subscriber can tell how many events it missed.
type Event[T any] struct {
	Seq       uint64
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out event channels bound to a context.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts payloads.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
