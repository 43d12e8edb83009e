package core

import (
	"time"

	"github.com/google/uuid"
)

// MessageType tags the conversational intent of a message. The constants
// below cover the types the engine interprets (for consensus and outcome
// derivation); other domain tags pass through untouched.
type MessageType string

const (
	// MessageQuestion asks something of the other participants.
	MessageQuestion MessageType = "question"
	// MessageAnswer responds to a question; yields a solution outcome at
	// termination.
	MessageAnswer MessageType = "answer"
	// MessageDecision records a decision; yields a decision outcome at
	// termination.
	MessageDecision MessageType = "decision"
	// MessageAgreement signals agreement and raises the consensus score.
	MessageAgreement MessageType = "agreement"
	// MessageDisagreement signals disagreement and lowers the consensus score.
	MessageDisagreement MessageType = "disagreement"
	// MessageSystemNotification is engine chatter excluded from response-time
	// accounting.
	MessageSystemNotification MessageType = "system_notification"
)

// Message is the primary unit of communication within a conversation. After
// it has been appended to a session it must be treated as immutable; message
// ordering is append order (FIFO per session). ID and Timestamp are generated
// on send when left zero.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	FromAgent      AgentID     `json:"from_agent"`
	Type           MessageType `json:"message_type"`
	Content        string      `json:"content"`
	Timestamp      time.Time   `json:"timestamp"`
}

// NewMessage constructs a message with a fresh id and UTC timestamp.
func NewMessage(conversationID string, from AgentID, mt MessageType, content string) Message {
	return Message{
		ID:             NewID(),
		ConversationID: conversationID,
		FromAgent:      from,
		Type:           mt,
		Content:        content,
		Timestamp:      time.Now().UTC(),
	}
}

// NewID generates a new unique identifier for sessions and messages.
func NewID() string { return uuid.NewString() }
