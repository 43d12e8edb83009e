package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/convomesh/logging"
	"github.com/hupe1980/convomesh/storage"
)

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Config is the root configuration document.
type Config struct {
	Storage storage.Config `yaml:"storage"`
	Logging LoggingConfig  `yaml:"logging"`
}

// Default returns the zero-configuration defaults: in-memory storage and
// info-level JSON logging.
func Default() Config {
	return Config{Logging: LoggingConfig{Level: "info", Format: "json"}}
}

// Load reads and parses the YAML file at path, layered over Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Logger builds a logging.Logger from the logging section.
func (c LoggingConfig) Logger() logging.Logger {
	var level logging.LogLevel
	switch c.Level {
	case "debug":
		level = logging.LogLevelDebug
	case "warn":
		level = logging.LogLevelWarn
	case "error":
		level = logging.LogLevelError
	default:
		level = logging.LogLevelInfo
	}
	return logging.NewSlogLogger(level, c.Format)
}
