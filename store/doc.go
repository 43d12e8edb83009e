// Package store implements core.ConversationStore on top of any
// core.StorageBackend. It owns the serialization boundary (sessions are
// stored as JSON under session:{id} keys) and the secondary index from
// participant id to session ids (participant:{agentID} keys). Consumers that
// inspect the backend directly must honor this key shape for compatibility.
//
// Writes touching one session id are serialized through a per-key lock so
// in-process read-modify-write sequences cannot lose updates. Cross-process
// writers remain uncoordinated; the store is not a distributed lock.
package store
