package core

import (
	"context"
	"encoding/json"
	"time"
)

// StorageBackend is the minimal key-value contract the conversation store
// sits on. Implementations must be safe for concurrent use. Get returns
// ErrKeyNotFound for absent keys; Keys returns all keys with the given
// prefix (pass "" for all keys).
//
// The contract is intentionally tiny so any key-value technology can satisfy
// it; richer capabilities (transactions, TTLs) stay out of the interface.
type StorageBackend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	Keys(ctx context.Context, prefix string) ([]string, error)
	Clear(ctx context.Context) error
}

// SessionUpdate is a partial session mutation applied by
// ConversationStore.UpdateSession. Nil fields are left untouched; non-nil
// fields replace the stored value wholesale (shallow merge).
type SessionUpdate struct {
	Title        *string
	Description  *string
	Participants []AgentID
	Status       *Status
	EndTime      *time.Time
	Messages     []Message
	Outcomes     []Outcome
	Metrics      *Metrics
	Orchestrator json.RawMessage
	Context      json.RawMessage
}

// StoreStats aggregates counts over every stored session.
type StoreStats struct {
	TotalSessions     int `json:"total_sessions"`
	ActiveSessions    int `json:"active_sessions"`
	CompletedSessions int `json:"completed_sessions"`
	TotalMessages     int `json:"total_messages"`
}

// ConversationStore persists sessions and maintains the secondary index from
// participant id to session ids. GetSession returns (nil, nil) when the
// session does not exist; the other session-scoped operations return
// ErrNotFound in that case.
type ConversationStore interface {
	StoreSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	UpdateSession(ctx context.Context, id string, update SessionUpdate) error
	DeleteSession(ctx context.Context, id string) error
	AddMessage(ctx context.Context, id string, msg Message) error
	GetParticipantSessions(ctx context.Context, agentID string) ([]string, error)
	GetAllSessionIDs(ctx context.Context) ([]string, error)
	GetSessionsByStatus(ctx context.Context, status Status) ([]*Session, error)
	GetStats(ctx context.Context) (StoreStats, error)
}
