// Package convomesh provides a high-level façade over the conversation
// orchestration engine and its service abstractions (conversation store,
// storage backends & logging) enabling rapid construction of multi-agent
// conversation systems. Most applications interact with this package by:
//  1. Creating a ConvoMesh via New() (optionally overriding the default
//     in-memory storage)
//  2. Creating conversations and registering event handlers
//  3. Driving the session API (join/leave, send, moderate, terminate)
//
// The façade delegates orchestration to orchestrator.Orchestrator while
// keeping setup and usage ergonomics concise. All defaults are safe for
// local development and testing; production deployments typically configure
// a durable storage path and a structured logger.
package convomesh

import (
	"context"

	"github.com/hupe1980/convomesh/core"
	"github.com/hupe1980/convomesh/logging"
	"github.com/hupe1980/convomesh/orchestrator"
	"github.com/hupe1980/convomesh/storage"
	"github.com/hupe1980/convomesh/store"
)

// Options configures the ConvoMesh instance.
type Options struct {
	// Backend is the key-value storage backend. When nil it is resolved from
	// Storage via the capability probe (durable SQLite when a path is
	// configured and reachable, in-memory otherwise).
	Backend core.StorageBackend

	// Storage selects the backend when Backend is nil.
	Storage storage.Config

	// Store overrides the conversation store. When nil a store over Backend
	// is created.
	Store core.ConversationStore

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// ConvoMesh is the high-level façade aggregating the orchestrator and its
// persistence services.
type ConvoMesh struct {
	orchestrator *orchestrator.Orchestrator
	store        core.ConversationStore
}

// New creates a ConvoMesh instance with optional overrides. Any unset
// service falls back to an in-process default.
func New(optFns ...func(*Options)) *ConvoMesh {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Store == nil {
		backend := opts.Backend
		if backend == nil {
			backend = storage.Resolve(opts.Storage, opts.Logger)
		}
		opts.Store = store.New(backend, func(o *store.Options) { o.Logger = opts.Logger })
	}
	orc := orchestrator.New(func(o *orchestrator.Options) {
		o.Store = opts.Store
		o.Logger = opts.Logger
	})
	return &ConvoMesh{orchestrator: orc, store: opts.Store}
}

// CreateConversation creates a new active conversation session.
func (c *ConvoMesh) CreateConversation(ctx context.Context, cfg orchestrator.CreateConfig) (*core.Session, error) {
	return c.orchestrator.CreateConversation(ctx, cfg)
}

// JoinConversation adds an agent to a live conversation.
func (c *ConvoMesh) JoinConversation(ctx context.Context, conversationID string, agent core.AgentID) error {
	return c.orchestrator.JoinConversation(ctx, conversationID, agent)
}

// LeaveConversation removes an agent from a live conversation.
func (c *ConvoMesh) LeaveConversation(ctx context.Context, conversationID string, agent core.AgentID) error {
	return c.orchestrator.LeaveConversation(ctx, conversationID, agent)
}

// SendMessage appends a message to its conversation and dispatches the
// message event to subscribers.
func (c *ConvoMesh) SendMessage(ctx context.Context, msg core.Message) (core.Message, error) {
	return c.orchestrator.SendMessage(ctx, msg)
}

// ModerateConversation applies a pause/resume/remove action.
func (c *ConvoMesh) ModerateConversation(ctx context.Context, conversationID string, action core.ModerationAction) error {
	return c.orchestrator.ModerateConversation(ctx, conversationID, action)
}

// GetConversationHistory returns a copy of the conversation's messages.
func (c *ConvoMesh) GetConversationHistory(ctx context.Context, conversationID string) ([]core.Message, error) {
	return c.orchestrator.GetConversationHistory(ctx, conversationID)
}

// TerminateConversation completes a conversation and returns its derived
// outcomes.
func (c *ConvoMesh) TerminateConversation(ctx context.Context, conversationID, reason string) ([]core.Outcome, error) {
	return c.orchestrator.TerminateConversation(ctx, conversationID, reason)
}

// On registers an event handler.
func (c *ConvoMesh) On(eventType core.EventType, handler core.EventHandler) {
	c.orchestrator.On(eventType, handler)
}

// GetActiveSessions returns clones of the live sessions.
func (c *ConvoMesh) GetActiveSessions() []*core.Session {
	return c.orchestrator.GetActiveSessions()
}

// GetSession returns the live session or its durable record.
func (c *ConvoMesh) GetSession(ctx context.Context, conversationID string) (*core.Session, error) {
	return c.orchestrator.GetSession(ctx, conversationID)
}

// Store exposes the underlying conversation store for read-oriented queries
// (participant sessions, status scans, stats).
func (c *ConvoMesh) Store() core.ConversationStore { return c.store }
