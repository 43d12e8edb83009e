package core

import (
	"context"
	"time"
)

// EventType names a lifecycle notification kind. The set is an open tagged
// union: new kinds can be added without breaking existing subscribers, which
// only ever see the types they registered for.
type EventType string

const (
	// EventMessage is emitted after a message has been appended to a session
	// and persisted. Handlers run before SendMessage returns.
	EventMessage EventType = "message"
)

// Event is the payload delivered to subscribers. Session is a deep clone of
// the session at emission time; Message is set for EventMessage.
type Event struct {
	Type      EventType `json:"type"`
	Session   *Session  `json:"session"`
	Message   *Message  `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventHandler consumes one event. Handlers for the same emission run in
// parallel and are all awaited; a non-nil error propagates to the caller of
// the operation that emitted the event.
type EventHandler func(ctx context.Context, ev Event) error
