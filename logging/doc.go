// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. A NoOpLogger is the default throughout ConvoMesh so the
// library stays silent unless a logger is wired in explicitly.
package logging
