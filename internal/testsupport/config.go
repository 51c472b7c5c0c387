// Package testsupport provides configuration and synthetic frame helpers
// shared by package tests and the sample data generator.
package testsupport

import (
	"path/filepath"
	"testing"

	"chronophoto/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.TempDir = filepath.Join(base, "tmp")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Processing.Seed = 42
	cfg.Processing.SliceWorkers = 2
	cfg.Processing.PixelWorkers = 2

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithRender overrides the render threshold, background, and outlier settings.
func WithRender(threshold, background, outlier string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Render.Threshold = threshold
		cfg.Render.Background = background
		cfg.Render.Outlier = outlier
	}
}

// WithProcessing overrides the compression and slicing settings.
func WithProcessing(compression, slicing string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Processing.Compression = compression
		cfg.Processing.Slicing = slicing
	}
}
