package timeslice

import (
	"fmt"
	"strconv"
	"strings"

	"chronophoto/internal/raster"
)

// SliceMode selects how the raster is cut into bands.
type SliceMode int

const (
	// SliceRows cuts a fixed number of image rows per band.
	SliceRows SliceMode = iota
	// SlicePixels cuts a fixed number of pixels per band.
	SlicePixels
	// SliceCount cuts the raster into a fixed total number of bands.
	SliceCount
)

// SliceLength is the banding policy for a run. All three modes reduce to an
// equivalent byte range per band for a concrete layout.
type SliceLength struct {
	Mode SliceMode
	N    int
}

// ParseSliceLength parses policy strings like "rows/1", "pixels/40000" or
// "count/16".
func ParseSliceLength(s string) (SliceLength, error) {
	mode, num, ok := strings.Cut(s, "/")
	if !ok {
		return SliceLength{}, fmt.Errorf("slicing %q: expected (rows|pixels|count)/<number>", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return SliceLength{}, fmt.Errorf("slicing %q: invalid count %q", s, num)
	}
	switch mode {
	case "rows":
		return SliceLength{Mode: SliceRows, N: n}, nil
	case "pixels":
		return SliceLength{Mode: SlicePixels, N: n}, nil
	case "count":
		return SliceLength{Mode: SliceCount, N: n}, nil
	default:
		return SliceLength{}, fmt.Errorf("slicing %q: mode must be one of rows, pixels, count", s)
	}
}

// Bytes returns the byte length of one band under the given layout. The last
// band of a frame may be shorter.
func (s SliceLength) Bytes(layout raster.Layout) int {
	switch s.Mode {
	case SlicePixels:
		return s.N * layout.WidthStride
	case SliceCount:
		return ceilDiv(layout.HeightStride*layout.Height, s.N)
	default:
		return s.N * layout.HeightStride
	}
}

// Count returns the number of bands a frame is cut into.
func (s SliceLength) Count(layout raster.Layout) int {
	switch s.Mode {
	case SlicePixels:
		return ceilDiv(layout.Width*layout.Height, s.N)
	case SliceCount:
		return s.N
	default:
		return ceilDiv(layout.Height, s.N)
	}
}

func (s SliceLength) String() string {
	switch s.Mode {
	case SlicePixels:
		return fmt.Sprintf("pixels/%d", s.N)
	case SliceCount:
		return fmt.Sprintf("count/%d", s.N)
	default:
		return fmt.Sprintf("rows/%d", s.N)
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
