// Package shake estimates per-frame camera shake by cross-correlating small
// anchor windows against the first frame, and converts the offsets into a
// common crop rectangle set that aligns the sequence.
package shake

import (
	"fmt"
	"strconv"
	"strings"

	"chronophoto/internal/imgio"
	"chronophoto/internal/raster"
)

// Params holds the window geometry for shake analysis.
type Params struct {
	// AnchorRadius is the half-size of the reference window around an anchor.
	AnchorRadius int
	// SearchRadius is the half-size of the displacement search grid.
	SearchRadius int
}

// ParseParams parses "radius/search-radius".
func ParseParams(s string) (Params, error) {
	rad, search, ok := strings.Cut(s, "/")
	if !ok {
		return Params{}, fmt.Errorf("shake parameters %q: expected <radius>/<search-radius>", s)
	}
	r, err := strconv.Atoi(rad)
	if err != nil || r < 1 {
		return Params{}, fmt.Errorf("shake parameters %q: invalid radius", s)
	}
	sr, err := strconv.Atoi(search)
	if err != nil || sr < 1 {
		return Params{}, fmt.Errorf("shake parameters %q: invalid search radius", s)
	}
	return Params{AnchorRadius: r, SearchRadius: sr}, nil
}

// Anchor is a reference point for shake analysis, in pixels of the first
// frame.
type Anchor struct {
	X int
	Y int
}

// ParseAnchor parses "x/y".
func ParseAnchor(s string) (Anchor, error) {
	xs, ys, ok := strings.Cut(s, "/")
	if !ok {
		return Anchor{}, fmt.Errorf("shake anchor %q: expected x/y", s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return Anchor{}, fmt.Errorf("shake anchor %q: invalid x", s)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Anchor{}, fmt.Errorf("shake anchor %q: invalid y", s)
	}
	return Anchor{X: x, Y: y}, nil
}

// Offset is one frame's estimated displacement relative to the first frame,
// with the sum-of-squared-differences score of the best match.
type Offset struct {
	DX    int
	DY    int
	Score int64
}

// Analyze estimates per-frame offsets. The first frame fixes the reference
// windows; every later frame is searched over the displacement grid for the
// minimum sum of squared differences across all anchors. progress, when
// non-nil, is invoked after each frame.
func Analyze(files []string, anchors []Anchor, params Params, progress func(done, total int)) ([]Offset, error) {
	if len(anchors) == 0 {
		return nil, fmt.Errorf("shake analysis requires at least one anchor")
	}
	searchSize := 2*params.SearchRadius + 1

	var (
		layout  raster.Layout
		windows [][]byte
	)
	diffs := make([]int64, searchSize*searchSize)
	offsets := make([]Offset, 0, len(files))

	for i, path := range files {
		frame, err := imgio.DecodeFrame(path)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			layout = frame.Layout
			for _, a := range anchors {
				if err := checkBounds(a, params, layout); err != nil {
					return nil, err
				}
			}
			windows = make([][]byte, len(anchors))
			for j, a := range anchors {
				windows[j] = copyWindow(frame, a, params.AnchorRadius)
			}
			offsets = append(offsets, Offset{})
		} else {
			if !frame.Layout.SameAs(layout) {
				return nil, fmt.Errorf("frame %d has layout %s, expected %s", i, frame.Layout, layout)
			}
			for d := range diffs {
				diffs[d] = 0
			}
			for j, a := range anchors {
				accumulateDiffs(frame, a, windows[j], diffs, params)
			}
			best := 0
			for d := 1; d < len(diffs); d++ {
				if diffs[d] < diffs[best] {
					best = d
				}
			}
			offsets = append(offsets, Offset{
				DX:    best%searchSize - params.SearchRadius,
				DY:    best/searchSize - params.SearchRadius,
				Score: diffs[best],
			})
		}
		if progress != nil {
			progress(i+1, len(files))
		}
	}
	return offsets, nil
}

func checkBounds(a Anchor, params Params, layout raster.Layout) error {
	reach := params.AnchorRadius + params.SearchRadius
	if a.X-reach < 0 || a.Y-reach < 0 || a.X+reach >= layout.Width || a.Y+reach >= layout.Height {
		return fmt.Errorf("anchor %d/%d with reach %d exceeds frame bounds %s", a.X, a.Y, reach, layout)
	}
	return nil
}

func copyWindow(frame raster.Frame, a Anchor, radius int) []byte {
	size := 2*radius + 1
	ch := frame.Layout.Channels
	win := make([]byte, size*size*ch)
	for dy := 0; dy < size; dy++ {
		y := a.Y + dy - radius
		for dx := 0; dx < size; dx++ {
			x := a.X + dx - radius
			src := frame.Layout.Index(x, y)
			dst := (dy*size + dx) * ch
			copy(win[dst:dst+ch], frame.Samples[src:src+ch])
		}
	}
	return win
}

// accumulateDiffs adds the SSD between the stored reference window and the
// frame window displaced by every position of the search grid.
func accumulateDiffs(frame raster.Frame, a Anchor, win []byte, diffs []int64, params Params) {
	size := 2*params.AnchorRadius + 1
	searchSize := 2*params.SearchRadius + 1
	ch := frame.Layout.Channels
	for oy := 0; oy < searchSize; oy++ {
		for ox := 0; ox < searchSize; ox++ {
			var sum int64
			for dy := 0; dy < size; dy++ {
				y := a.Y + (oy - params.SearchRadius) + dy - params.AnchorRadius
				for dx := 0; dx < size; dx++ {
					x := a.X + (ox - params.SearchRadius) + dx - params.AnchorRadius
					src := frame.Layout.Index(x, y)
					ref := (dy*size + dx) * ch
					for c := 0; c < ch; c++ {
						d := int64(win[ref+c]) - int64(frame.Samples[src+c])
						sum += d * d
					}
				}
			}
			diffs[oy*searchSize+ox] += sum
		}
	}
}

// CropsFor converts per-frame offsets into equal-size crops that align the
// sequence on the common covered region.
func CropsFor(offsets []Offset, layout raster.Layout) []raster.Crop {
	minDX, maxDX := 0, 0
	minDY, maxDY := 0, 0
	for _, o := range offsets {
		if o.DX < minDX {
			minDX = o.DX
		}
		if o.DX > maxDX {
			maxDX = o.DX
		}
		if o.DY < minDY {
			minDY = o.DY
		}
		if o.DY > maxDY {
			maxDY = o.DY
		}
	}
	width := layout.Width - (maxDX - minDX)
	height := layout.Height - (maxDY - minDY)
	crops := make([]raster.Crop, len(offsets))
	for i, o := range offsets {
		crops[i] = raster.Crop{
			X:      o.DX - minDX,
			Y:      o.DY - minDY,
			Width:  width,
			Height: height,
		}
	}
	return crops
}
