package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chronophoto/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("exists = true for a missing file")
	}
	if resolved == "" {
		t.Fatal("resolved path should be reported")
	}
	if cfg.Processing.Compression != "gzip/6" {
		t.Fatalf("default compression = %q", cfg.Processing.Compression)
	}
	if cfg.Render.Threshold != "abs/0.05/0.2" {
		t.Fatalf("default threshold = %q", cfg.Render.Threshold)
	}
	if cfg.Render.Quality != 95 {
		t.Fatalf("default quality = %d", cfg.Render.Quality)
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
temp_dir = "` + filepath.Join(dir, "tmp") + `"

[processing]
compression = "zlib/9"
slicing = "pixels/5000"
seed = 7

[render]
background = "median"
quality = 80

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("exists = false for a present file")
	}
	if cfg.Processing.Compression != "zlib/9" || cfg.Processing.Seed != 7 {
		t.Fatalf("processing = %+v", cfg.Processing)
	}
	if cfg.Render.Background != "median" || cfg.Render.Quality != 80 {
		t.Fatalf("render = %+v", cfg.Render)
	}
	// Levels are normalized to lower case.
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Render.Outlier != "extreme" {
		t.Fatalf("outlier = %q", cfg.Render.Outlier)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"compression", func(c *config.Config) { c.Processing.Compression = "lz4/1" }, "processing.compression"},
		{"slicing", func(c *config.Config) { c.Processing.Slicing = "rows/0" }, "processing.slicing"},
		{"threshold", func(c *config.Config) { c.Render.Threshold = "abs/0.3/0.1" }, "render.threshold"},
		{"background", func(c *config.Config) { c.Render.Background = "darkest" }, "render.background"},
		{"outlier", func(c *config.Config) { c.Render.Outlier = "all" }, "render.outlier"},
		{"fade", func(c *config.Config) { c.Render.Fade = "clamp/abs/0:0" }, "render.fade"},
		{"quality", func(c *config.Config) { c.Render.Quality = 101 }, "render.quality"},
		{"workers", func(c *config.Config) { c.Processing.PixelWorkers = -1 }, "worker counts"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tc := range cases {
		cfg := config.Default()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q should mention %q", tc.name, err, tc.want)
		}
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronophoto", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("Load(sample) = exists %v, err %v", exists, err)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := config.ExpandPath("~/x")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "x") {
		t.Fatalf("ExpandPath = %q", got)
	}
}
