package core

// ModerationType enumerates administrative operations on a session.
type ModerationType string

const (
	// ModerationPause suspends message flow; the session stops accepting
	// messages until resumed.
	ModerationPause ModerationType = "pause"
	// ModerationResume reactivates a paused session. Resuming a session that
	// is not paused is a no-op, not an error.
	ModerationResume ModerationType = "resume"
	// ModerationRemove ejects the target agent from the participant list.
	ModerationRemove ModerationType = "remove"
)

// ModerationAction describes one administrative operation. Target is required
// for ModerationRemove and ignored otherwise.
type ModerationAction struct {
	Type   ModerationType `json:"type"`
	Target *AgentID       `json:"target,omitempty"`
}
