// Package core provides the foundational domain types, interfaces and error
// taxonomy used by ConvoMesh. It defines the core abstractions for:
//
//   - Agents (participants identified by AgentID value objects)
//   - Sessions (multi-agent conversation aggregates with message history,
//     participation accounting and derived metrics)
//   - Messages (immutable, append-only conversational records)
//   - Outcomes (decision/solution artifacts derived at termination)
//   - Lifecycle events (typed notifications dispatched to subscribers)
//   - Pluggable contracts for durable conversation persistence and the
//     minimal key-value storage backend it sits on
//
// The package intentionally keeps implementation concerns (persistence,
// orchestration, concrete storage backends) out of scope, exposing small
// interfaces to enable custom backends and extensions.
package core
