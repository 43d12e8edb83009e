package core

import "time"

// OutcomeType classifies a derived conversation artifact.
type OutcomeType string

const (
	// OutcomeDecision is derived from decision-typed messages.
	OutcomeDecision OutcomeType = "decision"
	// OutcomeSolution is derived from answer-typed messages.
	OutcomeSolution OutcomeType = "solution"
)

// Outcome is a derived record produced exactly once, at conversation
// termination, and never mutated afterward. Confidence is a 0-1 heuristic
// and Contributors names the agents whose messages produced the artifact.
type Outcome struct {
	Type         OutcomeType `json:"type"`
	Content      string      `json:"content"`
	Confidence   float64     `json:"confidence"`
	Contributors []AgentID   `json:"contributors"`
	Timestamp    time.Time   `json:"timestamp"`
}
