package raster_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"chronophoto/internal/raster"
)

func TestLayoutIndexing(t *testing.T) {
	layout := raster.NewLayout(10, 4, 3)
	if layout.WidthStride != 3 || layout.HeightStride != 30 {
		t.Fatalf("strides = (%d, %d), want (3, 30)", layout.WidthStride, layout.HeightStride)
	}
	if got := layout.Index(0, 0); got != 0 {
		t.Fatalf("Index(0,0) = %d", got)
	}
	if got := layout.Index(2, 1); got != 36 {
		t.Fatalf("Index(2,1) = %d, want 36", got)
	}
	if got := layout.ByteSize(); got != 120 {
		t.Fatalf("ByteSize = %d, want 120", got)
	}
}

func TestLayoutSameAs(t *testing.T) {
	a := raster.NewLayout(10, 4, 3)
	b := raster.NewLayout(10, 4, 3)
	c := raster.NewLayout(10, 5, 3)
	if !a.SameAs(b) {
		t.Fatal("identical layouts must compare equal")
	}
	if a.SameAs(c) {
		t.Fatal("different heights must not compare equal")
	}
}

func TestCropApply(t *testing.T) {
	layout := raster.NewLayout(4, 3, 2)
	samples := make([]uint8, layout.ByteSize())
	for i := range samples {
		samples[i] = uint8(i)
	}
	frame := raster.Frame{Layout: layout, Samples: samples}

	crop := raster.Crop{X: 1, Y: 1, Width: 2, Height: 2}
	got := crop.Apply(frame)

	if got.Layout.Width != 2 || got.Layout.Height != 2 || got.Layout.Channels != 2 {
		t.Fatalf("cropped layout = %+v", got.Layout)
	}
	want := []uint8{
		samples[layout.Index(1, 1)], samples[layout.Index(1, 1)+1],
		samples[layout.Index(2, 1)], samples[layout.Index(2, 1)+1],
		samples[layout.Index(1, 2)], samples[layout.Index(1, 2)+1],
		samples[layout.Index(2, 2)], samples[layout.Index(2, 2)+1],
	}
	if diff := cmp.Diff(want, got.Samples); diff != "" {
		t.Fatalf("crop mismatch (-want +got):\n%s", diff)
	}
}

func TestBlendInto(t *testing.T) {
	dst := []uint8{100, 0, 255}
	src := []uint8{200, 10, 0}
	raster.BlendInto(dst, src, 0.5)
	want := []uint8{150, 5, 128}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Fatalf("blend mismatch (-want +got):\n%s", diff)
	}

	dst = []uint8{100}
	raster.BlendInto(dst, []uint8{200}, 0)
	if dst[0] != 100 {
		t.Fatalf("f=0 must not modify dst, got %d", dst[0])
	}
	raster.BlendInto(dst, []uint8{200}, 1)
	if dst[0] != 200 {
		t.Fatalf("f=1 must copy src, got %d", dst[0])
	}
}

func TestRoundToBytesClamps(t *testing.T) {
	dst := make([]uint8, 3)
	raster.RoundToBytes(dst, []float32{-10, 127.5, 300})
	want := []uint8{0, 128, 255}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
