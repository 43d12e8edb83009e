package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/convomesh/core"
	"github.com/hupe1980/convomesh/logging"
)

const (
	sessionKeyPrefix     = "session:"
	participantKeyPrefix = "participant:"
)

func sessionKey(id string) string          { return sessionKeyPrefix + id }
func participantKey(agentID string) string { return participantKeyPrefix + agentID }

// keyedMutex hands out one mutex per key. Entries are never released; the
// population is bounded by session and participant cardinality, which is
// acceptable at conversation-store scale.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// Options configures a Store.
type Options struct {
	// Logger receives structured diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Store is the concrete core.ConversationStore. It is safe for concurrent
// use.
type Store struct {
	backend core.StorageBackend
	logger  logging.Logger
	locks   keyedMutex
}

// Compile-time interface assertion.
var _ core.ConversationStore = (*Store)(nil)

// New creates a Store over the given backend with optional overrides.
func New(backend core.StorageBackend, optFns ...func(*Options)) *Store {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Store{
		backend: backend,
		logger:  opts.Logger,
		locks:   keyedMutex{locks: make(map[string]*sync.Mutex)},
	}
}

// StoreSession serializes the full session under session:{id} and records
// the session id in every current participant's index entry. Index entries
// track "has ever been associated with": they are appended to once and never
// pruned when an agent leaves.
func (s *Store) StoreSession(ctx context.Context, session *core.Session) error {
	snapshot := session.Clone()
	unlock := s.locks.lock(sessionKey(snapshot.ID))
	defer unlock()
	return s.writeSessionLocked(ctx, snapshot)
}

// writeSessionLocked persists the session record and refreshes the
// participant index. The caller must hold the session key lock; the snapshot
// must not be shared with concurrent mutators.
func (s *Store) writeSessionLocked(ctx context.Context, snapshot *core.Session) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("serialize session %q: %w", snapshot.ID, err)
	}
	if err := s.backend.Set(ctx, sessionKey(snapshot.ID), data); err != nil {
		return fmt.Errorf("store session %q: %w", snapshot.ID, err)
	}
	for _, p := range snapshot.Participants {
		if err := s.indexParticipant(ctx, p.ID, snapshot.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) indexParticipant(ctx context.Context, agentID, sessionID string) error {
	unlock := s.locks.lock(participantKey(agentID))
	defer unlock()
	ids, err := s.readIndex(ctx, agentID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == sessionID {
			return nil
		}
	}
	ids = append(ids, sessionID)
	return s.writeIndex(ctx, agentID, ids)
}

func (s *Store) readIndex(ctx context.Context, agentID string) ([]string, error) {
	data, err := s.backend.Get(ctx, participantKey(agentID))
	if errors.Is(err, core.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read participant index %q: %w", agentID, err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode participant index %q: %w", agentID, err)
	}
	return ids, nil
}

func (s *Store) writeIndex(ctx context.Context, agentID string, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode participant index %q: %w", agentID, err)
	}
	if err := s.backend.Set(ctx, participantKey(agentID), data); err != nil {
		return fmt.Errorf("write participant index %q: %w", agentID, err)
	}
	return nil
}

// GetSession reads and deserializes the session, or returns (nil, nil) when
// it does not exist. Deserialization is the exact inverse of StoreSession's
// encoding; a stored session round-trips deep-equal.
func (s *Store) GetSession(ctx context.Context, id string) (*core.Session, error) {
	data, err := s.backend.Get(ctx, sessionKey(id))
	if errors.Is(err, core.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %q: %w", id, err)
	}
	return decodeSession(id, data)
}

func decodeSession(id string, data []byte) (*core.Session, error) {
	var session core.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %q: %w", id, err)
	}
	if session.Metrics.ParticipationByAgent == nil {
		session.Metrics.ParticipationByAgent = map[string]int{}
	}
	return &session, nil
}

// UpdateSession loads the stored session, shallow-merges the partial update
// and stores the result again. Returns core.ErrNotFound when the session is
// not in the store.
func (s *Store) UpdateSession(ctx context.Context, id string, update core.SessionUpdate) error {
	unlock := s.locks.lock(sessionKey(id))
	defer unlock()
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("update session %q: %w", id, core.ErrNotFound)
	}
	applyUpdate(session, update)
	return s.writeSessionLocked(ctx, session)
}

func applyUpdate(session *core.Session, update core.SessionUpdate) {
	if update.Title != nil {
		session.Title = *update.Title
	}
	if update.Description != nil {
		session.Description = *update.Description
	}
	if update.Participants != nil {
		session.Participants = update.Participants
	}
	if update.Status != nil {
		session.Status = *update.Status
	}
	if update.EndTime != nil {
		session.EndTime = update.EndTime
	}
	if update.Messages != nil {
		session.Messages = update.Messages
	}
	if update.Outcomes != nil {
		session.Outcomes = update.Outcomes
	}
	if update.Metrics != nil {
		session.Metrics = *update.Metrics
	}
	if update.Orchestrator != nil {
		session.Orchestrator = update.Orchestrator
	}
	if update.Context != nil {
		session.Context = update.Context
	}
}

// DeleteSession removes the session record and prunes the id from every
// participant index entry, deleting index keys that end up empty. Returns
// core.ErrNotFound when the session is not in the store.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	unlock := s.locks.lock(sessionKey(id))
	defer unlock()
	ok, err := s.backend.Has(ctx, sessionKey(id))
	if err != nil {
		return fmt.Errorf("delete session %q: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("delete session %q: %w", id, core.ErrNotFound)
	}
	if err := s.backend.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("delete session %q: %w", id, err)
	}
	// Former participants reference the session too, so scan the whole index.
	keys, err := s.backend.Keys(ctx, participantKeyPrefix)
	if err != nil {
		return fmt.Errorf("scan participant index: %w", err)
	}
	for _, key := range keys {
		agentID := strings.TrimPrefix(key, participantKeyPrefix)
		if err := s.pruneIndex(ctx, agentID, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) pruneIndex(ctx context.Context, agentID, sessionID string) error {
	unlock := s.locks.lock(participantKey(agentID))
	defer unlock()
	ids, err := s.readIndex(ctx, agentID)
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, id := range ids {
		if id != sessionID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(ids) {
		return nil
	}
	if len(kept) == 0 {
		if err := s.backend.Delete(ctx, participantKey(agentID)); err != nil {
			return fmt.Errorf("delete participant index %q: %w", agentID, err)
		}
		return nil
	}
	return s.writeIndex(ctx, agentID, kept)
}

// AddMessage loads the session, appends the message and recomputes message
// count and sender participation from its own loaded copy before storing
// again. The recomputation is deliberate: the store derives its bookkeeping
// from the record it holds rather than trusting caller-side counters.
func (s *Store) AddMessage(ctx context.Context, id string, msg core.Message) error {
	unlock := s.locks.lock(sessionKey(id))
	defer unlock()
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("add message to session %q: %w", id, core.ErrNotFound)
	}
	session.Messages = append(session.Messages, msg)
	session.Metrics.MessageCount = len(session.Messages)
	session.Metrics.ParticipationByAgent[msg.FromAgent.ID]++
	return s.writeSessionLocked(ctx, session)
}

// GetParticipantSessions returns every session id the agent has ever been
// associated with.
func (s *Store) GetParticipantSessions(ctx context.Context, agentID string) ([]string, error) {
	ids, err := s.readIndex(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// GetAllSessionIDs returns the ids of every stored session.
func (s *Store) GetAllSessionIDs(ctx context.Context) ([]string, error) {
	keys, err := s.backend.Keys(ctx, sessionKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, sessionKeyPrefix))
	}
	return ids, nil
}

// GetSessionsByStatus returns every stored session with the given status.
// This is a full scan over all session ids; fine at conversation-store
// scale, not meant for high-cardinality deployments.
func (s *Store) GetSessionsByStatus(ctx context.Context, status core.Status) ([]*core.Session, error) {
	ids, err := s.GetAllSessionIDs(ctx)
	if err != nil {
		return nil, err
	}
	sessions := make([]*core.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if session != nil && session.Status == status {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

// GetStats scans all sessions and aggregates counts.
func (s *Store) GetStats(ctx context.Context) (core.StoreStats, error) {
	ids, err := s.GetAllSessionIDs(ctx)
	if err != nil {
		return core.StoreStats{}, err
	}
	var stats core.StoreStats
	for _, id := range ids {
		session, err := s.GetSession(ctx, id)
		if err != nil {
			return core.StoreStats{}, err
		}
		if session == nil {
			continue
		}
		stats.TotalSessions++
		switch session.Status {
		case core.StatusActive:
			stats.ActiveSessions++
		case core.StatusCompleted:
			stats.CompletedSessions++
		}
		stats.TotalMessages += len(session.Messages)
	}
	return stats, nil
}
