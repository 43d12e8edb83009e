package core

import "fmt"

// AgentID identifies a conversation participant. It is an immutable value
// object: the ID field is the unique handle, SwarmID names the owning group,
// Type carries the role tag (e.g. "coordinator", "worker") and Instance is
// the replica index within the swarm.
type AgentID struct {
	ID       string `json:"id"`
	SwarmID  string `json:"swarm_id"`
	Type     string `json:"type"`
	Instance int    `json:"instance"`
}

// String returns a compact human readable form used in logs and errors.
func (a AgentID) String() string {
	return fmt.Sprintf("%s/%s#%d(%s)", a.SwarmID, a.ID, a.Instance, a.Type)
}
