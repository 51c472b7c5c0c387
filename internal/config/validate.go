package config

import (
	"errors"
	"fmt"

	"chronophoto/internal/chrono"
	"chronophoto/internal/timeslice"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.TempDir == "" {
		return errors.New("paths.temp_dir must be set")
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if _, err := timeslice.ParseCompression(c.Processing.Compression); err != nil {
		return fmt.Errorf("processing.compression: %w", err)
	}
	if _, err := timeslice.ParseSliceLength(c.Processing.Slicing); err != nil {
		return fmt.Errorf("processing.slicing: %w", err)
	}
	if c.Processing.MaxSamples < 0 {
		return errors.New("processing.max_samples must not be negative")
	}
	if c.Processing.SliceWorkers < 0 || c.Processing.PixelWorkers < 0 {
		return errors.New("processing worker counts must not be negative")
	}
	return nil
}

func (c *Config) validateRender() error {
	if _, err := chrono.ParseThreshold(c.Render.Threshold); err != nil {
		return fmt.Errorf("render.threshold: %w", err)
	}
	if _, err := chrono.ParseBackgroundMode(c.Render.Background); err != nil {
		return fmt.Errorf("render.background: %w", err)
	}
	if _, err := chrono.ParseOutlierMode(c.Render.Outlier); err != nil {
		return fmt.Errorf("render.outlier: %w", err)
	}
	if _, err := chrono.ParseWeights(c.Render.Weights); err != nil {
		return fmt.Errorf("render.weights: %w", err)
	}
	if c.Render.Fade != "" {
		if _, err := chrono.ParseFade(c.Render.Fade); err != nil {
			return fmt.Errorf("render.fade: %w", err)
		}
	}
	if c.Render.Quality < 1 || c.Render.Quality > 100 {
		return errors.New("render.quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
