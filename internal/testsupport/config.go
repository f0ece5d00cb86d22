package testsupport

import (
	"path/filepath"
	"testing"

	"hylla/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithTMDBKey sets the TMDB API key on the test config.
func WithTMDBKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.TMDB.APIKey = key
	}
}

// WithNtfyTopic sets the notification topic on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}
