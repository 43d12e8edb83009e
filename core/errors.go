package core

import "fmt"

var (
	// ErrNotFound is returned when an operation references a conversation id
	// absent from the relevant lookup (the orchestrator's live cache for
	// mutation methods, the durable store for pure reads).
	ErrNotFound = fmt.Errorf("conversation not found")

	// ErrInvalidState is returned when an operation is attempted against a
	// session whose status forbids it, e.g. sending a message to a paused or
	// completed conversation.
	ErrInvalidState = fmt.Errorf("invalid conversation state")

	// ErrUnauthorized is returned when an operation is attempted by an agent
	// that is not currently a participant of the session.
	ErrUnauthorized = fmt.Errorf("agent is not a participant")

	// ErrKeyNotFound is returned by StorageBackend.Get for absent keys.
	ErrKeyNotFound = fmt.Errorf("key not found")
)
