// Package storage houses concrete implementations of core.StorageBackend.
// The interface itself lives in the core package to centralize domain
// contracts; keeping only implementations here prevents higher level
// packages (store, orchestrator) from depending on concrete storage.
//
// Two backends ship today: a volatile in-memory map and a durable SQLite
// backed key-value table. Resolve performs the capability probe that picks
// between them, falling back to memory when the durable backend cannot be
// opened. Additional backends (Redis, Postgres, etc.) can be added here
// without changing any calling code.
package storage
