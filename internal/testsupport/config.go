// Package testsupport provides shared helpers for package tests: temp-dir
// seeded configs and in-memory dataset fixtures in both container encodings.
package testsupport

import (
	"path/filepath"
	"testing"

	"audex/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ManifestDB = ""
	cfg.Extract.Workers = 2

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithManifestDB points the config at a manifest database path.
func WithManifestDB(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.ManifestDB = path
	}
}

// WithWorkers overrides the worker width on the test config.
func WithWorkers(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Extract.Workers = n
	}
}
