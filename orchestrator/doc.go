// Package orchestrator implements the conversation state machine and
// business rules. The Orchestrator holds an in-memory cache of live sessions,
// mutates them through the public API, mirrors every mutation to the
// conversation store and emits lifecycle events to registered subscribers.
//
// The cache, not the store, is authoritative for reads while a session is
// live: mutation methods look up the cache only and fail with
// core.ErrNotFound for sessions that are not live, while pure reads
// (GetConversationHistory, GetSession) fall back to the store. Terminated
// sessions are evicted from the cache but remain retrievable from the store.
package orchestrator
