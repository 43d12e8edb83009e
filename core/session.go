package core

import (
	"encoding/json"
	"sync"
	"time"
)

// Status is the lifecycle state of a conversation session. Transitions are
// one-directional toward StatusCompleted, which is terminal.
type Status string

const (
	// StatusActive accepts messages and participant changes.
	StatusActive Status = "active"
	// StatusPaused rejects messages until resumed.
	StatusPaused Status = "paused"
	// StatusCompleted is terminal; the session only lives on in the store.
	StatusCompleted Status = "completed"
)

// Metrics carries the derived accounting for one session. Participation
// entries exist for every agent that has ever joined, even after leaving.
// ConsensusScore defaults to 0.5 until agreements or disagreements exist;
// AverageResponseTime and ResolutionTime are finalized at termination.
type Metrics struct {
	MessageCount         int            `json:"message_count"`
	ParticipationByAgent map[string]int `json:"participation_by_agent"`
	AverageResponseTime  time.Duration  `json:"average_response_time"`
	ConsensusScore       float64        `json:"consensus_score"`
	QualityRating        float64        `json:"quality_rating"`
	ResolutionTime       time.Duration  `json:"resolution_time"`
}

func (m Metrics) clone() Metrics {
	c := m
	c.ParticipationByAgent = make(map[string]int, len(m.ParticipationByAgent))
	for k, v := range m.ParticipationByAgent {
		c.ParticipationByAgent[k] = v
	}
	return c
}

// Session is the aggregate root for one multi-agent conversation. It is safe
// for concurrent access.
//
// Contract:
//   - Messages is append-only; no message is ever removed or reordered
//   - Participants never contains duplicate agent ids
//   - EndTime and Outcomes are populated exactly once, at termination
//   - Accessors return defensive copies to avoid external mutation
//   - Orchestrator and Context are opaque caller payloads, never interpreted.
type Session struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Participants []AgentID       `json:"participants"`
	Initiator    AgentID         `json:"initiator"`
	Orchestrator json.RawMessage `json:"orchestrator,omitempty"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      *time.Time      `json:"end_time,omitempty"`
	Status       Status          `json:"status"`
	Context      json.RawMessage `json:"context,omitempty"`
	Messages     []Message       `json:"messages"`
	Outcomes     []Outcome       `json:"outcomes"`
	Metrics      Metrics         `json:"metrics"`
	mu           sync.RWMutex
}

// NewSession creates an active session with empty collections and zeroed
// metrics.
func NewSession(id, title string) *Session {
	return &Session{
		ID:           id,
		Title:        title,
		Participants: []AgentID{},
		StartTime:    time.Now().UTC(),
		Status:       StatusActive,
		Messages:     []Message{},
		Outcomes:     []Outcome{},
		Metrics: Metrics{
			ParticipationByAgent: map[string]int{},
			ConsensusScore:       0.5,
		},
	}
}

// HasParticipant reports whether the agent id is a current participant.
func (s *Session) HasParticipant(agentID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOfParticipantLocked(agentID) >= 0
}

func (s *Session) indexOfParticipantLocked(agentID string) int {
	for i, p := range s.Participants {
		if p.ID == agentID {
			return i
		}
	}
	return -1
}

// AddParticipant appends the agent to the participant list and
// zero-initializes its participation counter. Joining twice is idempotent;
// the second call reports false and changes nothing.
func (s *Session) AddParticipant(agent AgentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOfParticipantLocked(agent.ID) >= 0 {
		return false
	}
	s.Participants = append(s.Participants, agent)
	if _, ok := s.Metrics.ParticipationByAgent[agent.ID]; !ok {
		s.Metrics.ParticipationByAgent[agent.ID] = 0
	}
	return true
}

// RemoveParticipant removes the agent from the participant list. The
// participation counter is retained so former participants stay accounted
// for. Reports whether the agent was present.
func (s *Session) RemoveParticipant(agentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfParticipantLocked(agentID)
	if i < 0 {
		return false
	}
	s.Participants = append(s.Participants[:i], s.Participants[i+1:]...)
	return true
}

// RecordMessage validates and appends a message in one critical section so
// that concurrent senders serialize and each observes the previous append.
// It fills ID and Timestamp when zero, increments MessageCount and the
// sender's participation counter. Returns ErrInvalidState unless the session
// is active, ErrUnauthorized unless the sender is a current participant.
func (s *Session) RecordMessage(m *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status != StatusActive {
		return ErrInvalidState
	}
	if s.indexOfParticipantLocked(m.FromAgent.ID) < 0 {
		return ErrUnauthorized
	}
	if m.ID == "" {
		m.ID = NewID()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	m.ConversationID = s.ID
	s.Messages = append(s.Messages, *m)
	s.Metrics.MessageCount++
	s.Metrics.ParticipationByAgent[m.FromAgent.ID]++
	return nil
}

// CurrentStatus returns the session status.
func (s *Session) CurrentStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Pause suspends the session. Pausing is unconditional for non-terminal
// sessions.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status != StatusCompleted {
		s.Status = StatusPaused
	}
}

// Resume reactivates a paused session. Resuming a session that is not paused
// is a no-op; it reports whether the status changed.
func (s *Session) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status != StatusPaused {
		return false
	}
	s.Status = StatusActive
	return true
}

// Complete marks the session terminated at the given time and returns a
// snapshot of its messages for outcome and metric derivation. The second
// return is false if the session was already completed; EndTime is only ever
// written once.
func (s *Session) Complete(end time.Time) ([]Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status == StatusCompleted {
		return nil, false
	}
	s.Status = StatusCompleted
	s.EndTime = &end
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	return msgs, true
}

// SetFinal records the termination artifacts computed from the Complete
// snapshot. Called exactly once, after Complete.
func (s *Session) SetFinal(outcomes []Outcome, m Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Outcomes = outcomes
	s.Metrics = m.clone()
}

// SnapshotMessages returns a copy of the message list; callers can never
// mutate internal state through it.
func (s *Session) SnapshotMessages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	return msgs
}

// SnapshotParticipants returns a copy of the participant list.
func (s *Session) SnapshotParticipants() []AgentID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ps := make([]AgentID, len(s.Participants))
	copy(ps, s.Participants)
	return ps
}

// SnapshotMetrics returns a deep copy of the metrics.
func (s *Session) SnapshotMetrics() Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Metrics.clone()
}

// Clone returns a deep copy of the session safe for independent mutation and
// serialization.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Initiator:   s.Initiator,
		StartTime:   s.StartTime,
		Status:      s.Status,
		Metrics:     s.Metrics.clone(),
	}
	clone.Participants = make([]AgentID, len(s.Participants))
	copy(clone.Participants, s.Participants)
	clone.Messages = make([]Message, len(s.Messages))
	copy(clone.Messages, s.Messages)
	clone.Outcomes = make([]Outcome, len(s.Outcomes))
	copy(clone.Outcomes, s.Outcomes)
	if s.EndTime != nil {
		end := *s.EndTime
		clone.EndTime = &end
	}
	if s.Orchestrator != nil {
		clone.Orchestrator = append(json.RawMessage{}, s.Orchestrator...)
	}
	if s.Context != nil {
		clone.Context = append(json.RawMessage{}, s.Context...)
	}
	return clone
}
