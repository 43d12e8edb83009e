package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convomesh.yaml")
	doc := []byte("storage:\n  path: /var/lib/convomesh/kv.db\nlogging:\n  level: debug\n  format: text\n")
	require.NoError(t, os.WriteFile(path, doc, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/convomesh/kv.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_PartialDocumentKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convomesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  path: kv.db\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kv.db", cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoggingConfig_Logger(t *testing.T) {
	assert.NotNil(t, LoggingConfig{Level: "debug", Format: "text"}.Logger())
	assert.NotNil(t, LoggingConfig{Level: "bogus"}.Logger())
}
