package pipeline_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"chronophoto/internal/chrono"
	"chronophoto/internal/logging"
	"chronophoto/internal/pipeline"
	"chronophoto/internal/testsupport"
	"chronophoto/internal/timeslice"
)

func renderOptions(t *testing.T, pattern, output string) pipeline.Options {
	t.Helper()

	threshold, err := chrono.ParseThreshold("abs/0.05/0.2")
	if err != nil {
		t.Fatalf("ParseThreshold: %v", err)
	}
	background, err := chrono.ParseBackgroundMode("first")
	if err != nil {
		t.Fatalf("ParseBackgroundMode: %v", err)
	}
	outlier, err := chrono.ParseOutlierMode("extreme")
	if err != nil {
		t.Fatalf("ParseOutlierMode: %v", err)
	}
	weights, err := chrono.ParseWeights("1/1/1")
	if err != nil {
		t.Fatalf("ParseWeights: %v", err)
	}
	compression, err := timeslice.ParseCompression("gzip/6")
	if err != nil {
		t.Fatalf("ParseCompression: %v", err)
	}
	slicing, err := timeslice.ParseSliceLength("rows/4")
	if err != nil {
		t.Fatalf("ParseSliceLength: %v", err)
	}

	return pipeline.Options{
		Pattern:      pattern,
		OutputPath:   output,
		Threshold:    threshold,
		Background:   background,
		Outlier:      outlier,
		Weights:      weights,
		Fade:         chrono.NoFade(),
		Quality:      95,
		Compression:  compression,
		Slicing:      slicing,
		Seed:         42,
		SliceWorkers: 2,
		PixelWorkers: 2,
	}
}

func writeSequence(t *testing.T, frames int) (string, string) {
	t.Helper()
	dir := t.TempDir()
	if _, err := testsupport.WriteSequence(dir, testsupport.SmallSequence(frames)); err != nil {
		t.Fatalf("WriteSequence: %v", err)
	}
	return dir, filepath.Join(dir, "image-*.png")
}

func TestRunSingleImage(t *testing.T) {
	_, pattern := writeSequence(t, 8)
	cfg := testsupport.NewConfig(t)
	outDir := t.TempDir()

	opts := renderOptions(t, pattern, filepath.Join(outDir, "out.png"))
	opts.BlendPath = filepath.Join(outDir, "blend.png")

	summary, err := pipeline.Run(cfg, opts, logging.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.InputFrames != 8 {
		t.Fatalf("InputFrames = %d, want 8", summary.InputFrames)
	}
	if summary.OutputFrames != 1 {
		t.Fatalf("OutputFrames = %d, want 1", summary.OutputFrames)
	}
	if summary.Bands == 0 || summary.BytesWritten == 0 {
		t.Fatalf("store stats missing: bands %d, bytes %d", summary.Bands, summary.BytesWritten)
	}
	if summary.Seed != 42 {
		t.Fatalf("Seed = %d, want 42", summary.Seed)
	}
	for _, path := range []string{opts.OutputPath, opts.BlendPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing output %s: %v", path, err)
		}
	}

	// The moving dot leaves the composited background at every position it
	// covered, so some outliers must have been replaced.
	if summary.OutlierPixels == 0 {
		t.Fatal("expected outlier pixels for the moving dot sequence")
	}
}

func TestRunVideoWritesNumberedFrames(t *testing.T) {
	_, pattern := writeSequence(t, 8)
	cfg := testsupport.NewConfig(t)
	outDir := t.TempDir()

	opts := renderOptions(t, pattern, filepath.Join(outDir, "out.png"))
	opts.VideoFrames = 3
	opts.VideoStride = 2
	opts.Window = 4

	summary, err := pipeline.Run(cfg, opts, logging.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.OutputFrames != 3 {
		t.Fatalf("OutputFrames = %d, want 3", summary.OutputFrames)
	}
	if summary.FailedFrames != 0 {
		t.Fatalf("FailedFrames = %d", summary.FailedFrames)
	}
	for k := 0; k < 3; k++ {
		path := filepath.Join(outDir, fmt.Sprintf("out-%05d.png", k))
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing output frame %d: %v", k, err)
		}
	}
}

func TestRunVideoSkipsEmptyWindows(t *testing.T) {
	_, pattern := writeSequence(t, 8)
	cfg := testsupport.NewConfig(t)
	outDir := t.TempDir()

	opts := renderOptions(t, pattern, filepath.Join(outDir, "out.png"))
	opts.VideoFrames = 5
	opts.VideoStride = 4
	opts.Window = 4

	// Only strides 0 and 1 start inside the 8 frame input.
	summary, err := pipeline.Run(cfg, opts, logging.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.OutputFrames != 2 {
		t.Fatalf("OutputFrames = %d, want 2", summary.OutputFrames)
	}
	if _, err := os.Stat(filepath.Join(outDir, "out-00002.png")); err == nil {
		t.Fatal("skipped window should not produce an output file")
	}
}

func TestRunValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	out := filepath.Join(t.TempDir(), "out.png")

	opts := renderOptions(t, "", out)
	if _, err := pipeline.Run(cfg, opts, logging.NewNop()); !errors.Is(err, pipeline.ErrValidation) {
		t.Fatalf("missing pattern: err = %v", err)
	}

	opts = renderOptions(t, "frames-*.png", "")
	if _, err := pipeline.Run(cfg, opts, logging.NewNop()); !errors.Is(err, pipeline.ErrValidation) {
		t.Fatalf("missing output: err = %v", err)
	}

	opts = renderOptions(t, "frames-*.png", out)
	opts.VideoFrames = 2
	if _, err := pipeline.Run(cfg, opts, logging.NewNop()); !errors.Is(err, pipeline.ErrValidation) {
		t.Fatalf("video without window: err = %v", err)
	}
}

func TestRunSimpleDarkest(t *testing.T) {
	_, pattern := writeSequence(t, 4)
	out := filepath.Join(t.TempDir(), "dark.png")

	weights, err := chrono.ParseWeights("1/1/1")
	if err != nil {
		t.Fatalf("ParseWeights: %v", err)
	}
	opts := pipeline.SimpleOptions{
		Pattern:    pattern,
		OutputPath: out,
		Weights:    weights,
		Fade:       chrono.NoFade(),
		Darker:     true,
		Quality:    95,
	}
	if err := pipeline.RunSimple(opts, logging.NewNop()); err != nil {
		t.Fatalf("RunSimple: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("missing output: %v", err)
	}
}
