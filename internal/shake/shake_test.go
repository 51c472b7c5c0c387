package shake_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chronophoto/internal/imgio"
	"chronophoto/internal/raster"
	"chronophoto/internal/shake"
)

func TestParse(t *testing.T) {
	p, err := shake.ParseParams("4/6")
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if p.AnchorRadius != 4 || p.SearchRadius != 6 {
		t.Fatalf("params = %+v", p)
	}
	for _, s := range []string{"", "4", "0/3", "4/0", "x/3"} {
		if _, err := shake.ParseParams(s); err == nil {
			t.Fatalf("ParseParams(%q): expected error", s)
		}
	}

	a, err := shake.ParseAnchor("100/60")
	if err != nil {
		t.Fatalf("ParseAnchor: %v", err)
	}
	if a.X != 100 || a.Y != 60 {
		t.Fatalf("anchor = %+v", a)
	}
	for _, s := range []string{"", "100", "x/60", "100/y"} {
		if _, err := shake.ParseAnchor(s); err == nil {
			t.Fatalf("ParseAnchor(%q): expected error", s)
		}
	}
}

// writePattern renders a frame with a distinctive 5x5 block centered at
// (cx, cy) on a uniform background and saves it as a png.
func writePattern(t *testing.T, dir string, index, cx, cy int) string {
	t.Helper()
	layout := raster.NewLayout(32, 24, 3)
	samples := make([]uint8, layout.ByteSize())
	for i := range samples {
		samples[i] = 100
	}
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			i := layout.Index(cx+dx, cy+dy)
			samples[i] = uint8(10 + (dy+2)*5 + (dx + 2))
			samples[i+1] = uint8(200 - (dy+2)*5 - (dx + 2))
			samples[i+2] = 30
		}
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%05d.png", index))
	if err := imgio.Save(path, samples, layout, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path
}

func TestAnalyzeRecoversKnownShift(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writePattern(t, dir, 0, 15, 12),
		writePattern(t, dir, 1, 17, 13),
		writePattern(t, dir, 2, 14, 12),
	}

	offsets, err := shake.Analyze(files, []shake.Anchor{{X: 15, Y: 12}},
		shake.Params{AnchorRadius: 4, SearchRadius: 3}, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	want := []shake.Offset{
		{},
		{DX: 2, DY: 1},
		{DX: -1},
	}
	if diff := cmp.Diff(want, offsets); diff != "" {
		t.Fatalf("offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeRejectsOutOfBoundsAnchor(t *testing.T) {
	dir := t.TempDir()
	files := []string{writePattern(t, dir, 0, 15, 12)}

	_, err := shake.Analyze(files, []shake.Anchor{{X: 2, Y: 2}},
		shake.Params{AnchorRadius: 4, SearchRadius: 3}, nil)
	if err == nil {
		t.Fatal("expected bounds error")
	}
}

func TestCropsForAlignsSequence(t *testing.T) {
	layout := raster.NewLayout(32, 24, 3)
	offsets := []shake.Offset{
		{},
		{DX: 2, DY: 1},
		{DX: -1, DY: 0},
	}
	crops := shake.CropsFor(offsets, layout)

	want := []raster.Crop{
		{X: 1, Y: 0, Width: 29, Height: 23},
		{X: 3, Y: 1, Width: 29, Height: 23},
		{X: 0, Y: 0, Width: 29, Height: 23},
	}
	if diff := cmp.Diff(want, crops); diff != "" {
		t.Fatalf("crops mismatch (-want +got):\n%s", diff)
	}
}
