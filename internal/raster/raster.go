// Package raster holds the in-memory representation of decoded image data:
// the sample layout shared by every frame of a run, packed 8-bit sample
// buffers, and the blend arithmetic used when compositing pixels.
package raster

import "fmt"

// Layout describes the sample geometry of a frame. Every frame of a run must
// share one layout; the first decoded frame fixes it.
type Layout struct {
	// Width and Height are the pixel dimensions.
	Width  int
	Height int
	// Channels is the number of interleaved 8-bit channels per pixel (3 or 4).
	Channels int
	// WidthStride is the byte distance between horizontally adjacent pixels.
	WidthStride int
	// HeightStride is the byte distance between vertically adjacent rows.
	HeightStride int
}

// NewLayout builds a packed layout for the given dimensions.
func NewLayout(width, height, channels int) Layout {
	return Layout{
		Width:        width,
		Height:       height,
		Channels:     channels,
		WidthStride:  channels,
		HeightStride: width * channels,
	}
}

// Index returns the byte offset of pixel (x, y).
func (l Layout) Index(x, y int) int {
	return y*l.HeightStride + x*l.WidthStride
}

// ByteSize returns the total sample buffer size for one frame.
func (l Layout) ByteSize() int {
	return l.Height * l.HeightStride
}

// SameAs reports whether two layouts are byte-compatible.
func (l Layout) SameAs(other Layout) bool {
	return l == other
}

func (l Layout) String() string {
	return fmt.Sprintf("%dx%d@%dch", l.Width, l.Height, l.Channels)
}

// Frame couples a layout with its packed sample buffer.
type Frame struct {
	Layout  Layout
	Samples []byte
}

// Crop is a rectangular sub-region of a frame, in pixels. It is produced by
// shake analysis and applied while copying decoded samples, before slicing.
type Crop struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Apply copies the cropped region of the frame into a new packed frame whose
// layout has the crop's dimensions.
func (c Crop) Apply(f Frame) Frame {
	src := f.Layout
	dst := NewLayout(c.Width, c.Height, src.Channels)
	out := make([]byte, dst.ByteSize())
	rowBytes := c.Width * src.WidthStride
	for y := 0; y < c.Height; y++ {
		from := src.Index(c.X, c.Y+y)
		copy(out[y*dst.HeightStride:y*dst.HeightStride+rowBytes], f.Samples[from:from+rowBytes])
	}
	return Frame{Layout: dst, Samples: out}
}
