package testutil

import (
	"time"

	"github.com/hupe1980/convomesh/core"
)

// Agent returns a worker AgentID in the default test swarm.
func Agent(id string) core.AgentID {
	return core.AgentID{ID: id, SwarmID: "swarm-test", Type: "worker", Instance: 0}
}

// Coordinator returns a coordinator AgentID in the default test swarm.
func Coordinator(id string) core.AgentID {
	return core.AgentID{ID: id, SwarmID: "swarm-test", Type: "coordinator", Instance: 0}
}

// MessageBuilder provides a fluent helper for constructing messages in
// tests. Chain only the parts you need; sensible defaults are applied.
//
// Example:
//
//	msg := testutil.NewMessageBuilder(sessionID).From(agent).Type(core.MessageAnswer).Content("done").Build()
type MessageBuilder struct {
	msg core.Message
}

// NewMessageBuilder creates a builder bound to the given conversation.
func NewMessageBuilder(conversationID string) *MessageBuilder {
	return &MessageBuilder{msg: core.Message{
		ConversationID: conversationID,
		Type:           core.MessageQuestion,
		Content:        "test message",
	}}
}

// From sets the sending agent (chainable).
func (b *MessageBuilder) From(agent core.AgentID) *MessageBuilder {
	b.msg.FromAgent = agent
	return b
}

// Type sets the message type (chainable).
func (b *MessageBuilder) Type(mt core.MessageType) *MessageBuilder {
	b.msg.Type = mt
	return b
}

// Content sets the message content (chainable).
func (b *MessageBuilder) Content(content string) *MessageBuilder {
	b.msg.Content = content
	return b
}

// At sets an explicit timestamp (chainable); useful for response-time tests.
func (b *MessageBuilder) At(ts time.Time) *MessageBuilder {
	b.msg.Timestamp = ts
	return b
}

// Build returns the assembled message.
func (b *MessageBuilder) Build() core.Message { return b.msg }
