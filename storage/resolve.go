package storage

import (
	"github.com/hupe1980/convomesh/core"
	"github.com/hupe1980/convomesh/logging"
)

// Config selects the storage backend. An empty Path means in-memory only; a
// non-empty Path requests the durable SQLite backend at that location.
type Config struct {
	Path string `yaml:"path"`
}

// Resolve probes for the durable backend and degrades gracefully: if no path
// is configured, or the SQLite backend fails to open, it returns the
// in-memory backend for the lifetime of the process. The choice is made once
// here, explicitly; callers that want full control can skip Resolve and
// inject any core.StorageBackend directly.
func Resolve(cfg Config, logger logging.Logger) core.StorageBackend {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	if cfg.Path == "" {
		logger.Debug("no storage path configured, using in-memory backend")
		return NewInMemoryBackend()
	}
	backend, err := NewSQLiteBackend(cfg.Path)
	if err != nil {
		logger.Warn("durable storage backend unavailable, falling back to in-memory",
			"path", cfg.Path, "error", err)
		return NewInMemoryBackend()
	}
	logger.Info("using durable storage backend", "path", cfg.Path)
	return backend
}
