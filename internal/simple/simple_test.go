package simple_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"chronophoto/internal/chrono"
	"chronophoto/internal/imgio"
	"chronophoto/internal/raster"
	"chronophoto/internal/simple"
	"chronophoto/internal/timeslice"
)

func writeSolid(t *testing.T, dir string, index int, layout raster.Layout, value uint8) string {
	t.Helper()
	samples := make([]uint8, layout.ByteSize())
	for i := range samples {
		samples[i] = value
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%05d.png", index))
	if err := imgio.Save(path, samples, layout, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path
}

func TestLighterPicksBrightestFrame(t *testing.T) {
	dir := t.TempDir()
	layout := raster.NewLayout(4, 4, 3)
	files := []string{
		writeSolid(t, dir, 0, layout, 50),
		writeSolid(t, dir, 1, layout, 180),
		writeSolid(t, dir, 2, layout, 120),
	}

	proc := simple.NewProcessor(chrono.DefaultWeights(), chrono.NoFade(), false)
	frame, err := proc.Process(files, nil, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	for i, v := range frame.Samples {
		if v != 180 {
			t.Fatalf("Samples[%d] = %d, want brightest 180", i, v)
		}
	}
}

func TestDarkerPicksDarkestFrame(t *testing.T) {
	dir := t.TempDir()
	layout := raster.NewLayout(4, 4, 3)
	files := []string{
		writeSolid(t, dir, 0, layout, 50),
		writeSolid(t, dir, 1, layout, 180),
		writeSolid(t, dir, 2, layout, 20),
	}

	proc := simple.NewProcessor(chrono.DefaultWeights(), chrono.NoFade(), true)
	frame, err := proc.Process(files, nil, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	for i, v := range frame.Samples {
		if v != 20 {
			t.Fatalf("Samples[%d] = %d, want darkest 20", i, v)
		}
	}
}

func TestFadeAttenuatesNewExtremes(t *testing.T) {
	dir := t.TempDir()
	layout := raster.NewLayout(2, 2, 3)
	files := []string{
		writeSolid(t, dir, 0, layout, 50),
		writeSolid(t, dir, 1, layout, 200),
	}

	// Relative indexing: the last frame evaluates at 0, the first at 1.
	fade, err := chrono.ParseFade("clamp/rel/0:0.5/1:1")
	if err != nil {
		t.Fatalf("ParseFade: %v", err)
	}
	proc := simple.NewProcessor(chrono.DefaultWeights(), fade, false)
	frame, err := proc.Process(files, nil, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// Frame 0 blends at 1.0 (pixel becomes 50), frame 1 at 0.5: 125.
	for i, v := range frame.Samples {
		if v != 125 {
			t.Fatalf("Samples[%d] = %d, want 125", i, v)
		}
	}
}

func TestProcessErrors(t *testing.T) {
	proc := simple.NewProcessor(chrono.DefaultWeights(), chrono.NoFade(), false)
	if _, err := proc.Process(nil, nil, nil); !errors.Is(err, timeslice.ErrNoFrames) {
		t.Fatalf("Process(nil) = %v, want ErrNoFrames", err)
	}

	dir := t.TempDir()
	files := []string{
		writeSolid(t, dir, 0, raster.NewLayout(4, 4, 3), 10),
		writeSolid(t, dir, 1, raster.NewLayout(4, 5, 3), 10),
	}
	if _, err := proc.Process(files, nil, nil); !errors.Is(err, timeslice.ErrLayoutMismatch) {
		t.Fatalf("Process = %v, want ErrLayoutMismatch", err)
	}

	if _, err := proc.Process(files, []int{0}, nil); err == nil {
		t.Fatal("expected index length mismatch error")
	}
}
