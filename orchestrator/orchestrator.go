package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/convomesh/core"
	"github.com/hupe1980/convomesh/logging"
	"github.com/hupe1980/convomesh/storage"
	"github.com/hupe1980/convomesh/store"
)

// Options configures an Orchestrator instance.
type Options struct {
	// Store persists sessions. Defaults to an in-memory backed store.
	Store core.ConversationStore

	// Logger provides structured logging. Defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator is the conversation state machine. All public methods are safe
// for concurrent use; each method applies its in-memory mutation in one
// critical section before any storage I/O, so two SendMessage calls against
// the same session serialize and the second observes the first's append.
type Orchestrator struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session

	handlersMu sync.RWMutex
	handlers   map[core.EventType][]core.EventHandler

	store  core.ConversationStore
	logger logging.Logger
}

// New creates an Orchestrator with optional overrides. Defaults are safe for
// local development and testing; production deployments typically supply a
// durable store and a structured logger.
func New(optFns ...func(*Options)) *Orchestrator {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Store == nil {
		opts.Store = store.New(storage.NewInMemoryBackend())
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Orchestrator{
		sessions: make(map[string]*core.Session),
		handlers: make(map[core.EventType][]core.EventHandler),
		store:    opts.Store,
		logger:   opts.Logger,
	}
}

// CreateConfig describes a new conversation. Orchestrator and Context are
// opaque caller payloads stored verbatim and never interpreted.
type CreateConfig struct {
	Title               string
	Description         string
	InitialParticipants []core.AgentID
	Initiator           core.AgentID
	Orchestrator        json.RawMessage
	Context             json.RawMessage
}

// CreateConversation creates an active session, zero-initializes the
// participation counter for each initial participant, persists it and
// returns a clone. Duplicate initial participants collapse to one entry.
func (o *Orchestrator) CreateConversation(ctx context.Context, cfg CreateConfig) (*core.Session, error) {
	session := core.NewSession(core.NewID(), cfg.Title)
	session.Description = cfg.Description
	session.Orchestrator = cfg.Orchestrator
	session.Context = cfg.Context
	for _, p := range cfg.InitialParticipants {
		session.AddParticipant(p)
	}
	session.Initiator = cfg.Initiator
	if session.Initiator == (core.AgentID{}) && len(cfg.InitialParticipants) > 0 {
		session.Initiator = cfg.InitialParticipants[0]
	}

	o.mu.Lock()
	o.sessions[session.ID] = session
	o.mu.Unlock()

	if err := o.store.StoreSession(ctx, session); err != nil {
		return nil, err
	}
	o.logger.Info("conversation created",
		"conversation_id", session.ID, "title", session.Title,
		"participants", len(cfg.InitialParticipants))
	return session.Clone(), nil
}

// cached returns the live session for id. Mutation methods use only this
// lookup: a session that is not live cannot be mutated, even if a durable
// record exists.
func (o *Orchestrator) cached(id string) (*core.Session, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	session, ok := o.sessions[id]
	return session, ok
}

// JoinConversation adds the agent to a live session. Joining twice is a
// no-op. The updated participant list and metrics are persisted.
func (o *Orchestrator) JoinConversation(ctx context.Context, conversationID string, agent core.AgentID) error {
	session, ok := o.cached(conversationID)
	if !ok {
		return fmt.Errorf("join conversation %q: %w", conversationID, core.ErrNotFound)
	}
	if !session.AddParticipant(agent) {
		return nil
	}
	metrics := session.SnapshotMetrics()
	if err := o.store.UpdateSession(ctx, conversationID, core.SessionUpdate{
		Participants: session.SnapshotParticipants(),
		Metrics:      &metrics,
	}); err != nil {
		return err
	}
	o.logger.Debug("agent joined conversation",
		"conversation_id", conversationID, "agent", agent.String())
	return nil
}

// LeaveConversation removes the agent from a live session's participant
// list. The agent's participation counter is retained. Leaving a session the
// agent is not part of is a no-op.
func (o *Orchestrator) LeaveConversation(ctx context.Context, conversationID string, agent core.AgentID) error {
	session, ok := o.cached(conversationID)
	if !ok {
		return fmt.Errorf("leave conversation %q: %w", conversationID, core.ErrNotFound)
	}
	if !session.RemoveParticipant(agent.ID) {
		return nil
	}
	if err := o.store.UpdateSession(ctx, conversationID, core.SessionUpdate{
		Participants: session.SnapshotParticipants(),
	}); err != nil {
		return err
	}
	o.logger.Debug("agent left conversation",
		"conversation_id", conversationID, "agent", agent.String())
	return nil
}

// SendMessage validates and appends the message to its live session, fills
// ID and Timestamp when zero, persists the append and emits an EventMessage
// to all subscribers. Every handler is awaited before SendMessage returns; a
// handler error propagates to the caller. Returns the enriched message.
//
// Fails with core.ErrNotFound for non-live sessions, core.ErrInvalidState
// unless the session is active and core.ErrUnauthorized unless the sender is
// a current participant.
func (o *Orchestrator) SendMessage(ctx context.Context, msg core.Message) (core.Message, error) {
	session, ok := o.cached(msg.ConversationID)
	if !ok {
		return msg, fmt.Errorf("send message to %q: %w", msg.ConversationID, core.ErrNotFound)
	}
	if err := session.RecordMessage(&msg); err != nil {
		return msg, fmt.Errorf("send message to %q: %w", msg.ConversationID, err)
	}
	if err := o.store.AddMessage(ctx, msg.ConversationID, msg); err != nil {
		return msg, err
	}
	ev := core.Event{
		Type:      core.EventMessage,
		Session:   session.Clone(),
		Message:   &msg,
		Timestamp: time.Now().UTC(),
	}
	if err := o.emit(ctx, ev); err != nil {
		return msg, fmt.Errorf("message event handler: %w", err)
	}
	return msg, nil
}

// ModerateConversation applies an administrative action to a live session.
// Pause is unconditional; resume only takes effect on a paused session (a
// silent no-op otherwise); remove delegates to LeaveConversation with the
// action target. The resulting status is persisted.
func (o *Orchestrator) ModerateConversation(ctx context.Context, conversationID string, action core.ModerationAction) error {
	session, ok := o.cached(conversationID)
	if !ok {
		return fmt.Errorf("moderate conversation %q: %w", conversationID, core.ErrNotFound)
	}
	switch action.Type {
	case core.ModerationPause:
		session.Pause()
	case core.ModerationResume:
		session.Resume()
	case core.ModerationRemove:
		if action.Target == nil {
			return fmt.Errorf("moderation action %q requires a target", action.Type)
		}
		return o.LeaveConversation(ctx, conversationID, *action.Target)
	default:
		return fmt.Errorf("unknown moderation action %q", action.Type)
	}
	status := session.CurrentStatus()
	if err := o.store.UpdateSession(ctx, conversationID, core.SessionUpdate{Status: &status}); err != nil {
		return err
	}
	o.logger.Info("conversation moderated",
		"conversation_id", conversationID, "action", string(action.Type), "status", string(status))
	return nil
}

// GetConversationHistory returns a copy of the session's message list, never
// the live slice. Unlike mutation methods it rehydrates the session from the
// store into the cache when it is not live, and only then fails with
// core.ErrNotFound.
func (o *Orchestrator) GetConversationHistory(ctx context.Context, conversationID string) ([]core.Message, error) {
	session, ok := o.cached(conversationID)
	if !ok {
		loaded, err := o.store.GetSession(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		if loaded == nil {
			return nil, fmt.Errorf("conversation history %q: %w", conversationID, core.ErrNotFound)
		}
		o.mu.Lock()
		if existing, live := o.sessions[conversationID]; live {
			session = existing
		} else {
			o.sessions[conversationID] = loaded
			session = loaded
		}
		o.mu.Unlock()
	}
	return session.SnapshotMessages(), nil
}

// TerminateConversation completes a live session: it sets the end time,
// derives outcomes from the message history, finalizes the metrics, persists
// the final state and evicts the session from the cache. The durable record
// remains retrievable through GetSession. Returns the derived outcomes.
func (o *Orchestrator) TerminateConversation(ctx context.Context, conversationID, reason string) ([]core.Outcome, error) {
	session, ok := o.cached(conversationID)
	if !ok {
		return nil, fmt.Errorf("terminate conversation %q: %w", conversationID, core.ErrNotFound)
	}
	end := time.Now().UTC()
	msgs, completed := session.Complete(end)
	if !completed {
		return nil, fmt.Errorf("terminate conversation %q: %w", conversationID, core.ErrInvalidState)
	}

	outcomes := deriveOutcomes(msgs, end)
	metrics := session.SnapshotMetrics()
	metrics.ResolutionTime = end.Sub(session.StartTime)
	metrics.ConsensusScore = consensusScore(msgs)
	metrics.QualityRating = qualityRating(msgs)
	metrics.AverageResponseTime = averageResponseTime(msgs)
	session.SetFinal(outcomes, metrics)

	if err := o.store.StoreSession(ctx, session); err != nil {
		return nil, err
	}

	o.mu.Lock()
	delete(o.sessions, conversationID)
	o.mu.Unlock()

	o.logger.Info("conversation terminated",
		"conversation_id", conversationID, "reason", reason,
		"outcomes", len(outcomes), "messages", len(msgs),
		"resolution_time", metrics.ResolutionTime)
	return outcomes, nil
}

// On registers a handler for the named event type. Multiple handlers per
// type are supported; on emission they run in parallel and are all awaited.
func (o *Orchestrator) On(eventType core.EventType, handler core.EventHandler) {
	o.handlersMu.Lock()
	defer o.handlersMu.Unlock()
	o.handlers[eventType] = append(o.handlers[eventType], handler)
}

func (o *Orchestrator) emit(ctx context.Context, ev core.Event) error {
	o.handlersMu.RLock()
	handlers := append([]core.EventHandler(nil), o.handlers[ev.Type]...)
	o.handlersMu.RUnlock()
	if len(handlers) == 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, handler := range handlers {
		handler := handler
		g.Go(func() error { return handler(ctx, ev) })
	}
	return g.Wait()
}

// GetActiveSessions returns clones of every live, non-completed session.
func (o *Orchestrator) GetActiveSessions() []*core.Session {
	o.mu.RLock()
	defer o.mu.RUnlock()
	sessions := make([]*core.Session, 0, len(o.sessions))
	for _, session := range o.sessions {
		if session.CurrentStatus() == core.StatusCompleted {
			continue
		}
		sessions = append(sessions, session.Clone())
	}
	return sessions
}

// GetSession returns a clone of the live session, or the durable record when
// the session is no longer live (e.g. after termination). Fails with
// core.ErrNotFound when neither exists.
func (o *Orchestrator) GetSession(ctx context.Context, conversationID string) (*core.Session, error) {
	if session, ok := o.cached(conversationID); ok {
		return session.Clone(), nil
	}
	loaded, err := o.store.GetSession(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if loaded == nil {
		return nil, fmt.Errorf("get session %q: %w", conversationID, core.ErrNotFound)
	}
	return loaded, nil
}
