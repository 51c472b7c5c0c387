// Package simple implements the single-pass lighter/darker compositor. It
// streams frames one at a time and keeps whichever sample scores the extreme
// weighted channel sum per pixel, so it needs no disk store.
package simple

import (
	"fmt"
	"math"

	"chronophoto/internal/chrono"
	"chronophoto/internal/imgio"
	"chronophoto/internal/raster"
	"chronophoto/internal/timeslice"
)

// Processor selects per-pixel extremes across a frame sequence.
type Processor struct {
	weights chrono.Weights
	fade    chrono.Fade
	darker  bool
}

// NewProcessor builds a compositor. darker selects minima instead of maxima.
func NewProcessor(weights chrono.Weights, fade chrono.Fade, darker bool) *Processor {
	return &Processor{weights: weights, fade: fade, darker: darker}
}

// Process decodes the files in order and returns the composited frame.
// indices, when non-nil, maps local positions to source frame indices for
// absolute fade lookup (files must already be the selected subset).
// progress, when non-nil, is invoked after each frame.
func (p *Processor) Process(files []string, indices []int, progress func(done, total int)) (raster.Frame, error) {
	if len(files) == 0 {
		return raster.Frame{}, timeslice.ErrNoFrames
	}
	if indices != nil && len(indices) != len(files) {
		return raster.Frame{}, fmt.Errorf("got %d frame indices for %d files", len(indices), len(files))
	}
	total := len(files)
	offset := 0
	if indices != nil {
		offset = indices[0]
	}

	var (
		layout   raster.Layout
		out      []byte
		extremes []float32
	)
	for i, path := range files {
		frame, err := imgio.DecodeFrame(path)
		if err != nil {
			return raster.Frame{}, err
		}
		if i == 0 {
			layout = frame.Layout
			out = make([]byte, layout.ByteSize())
			extremes = make([]float32, layout.Width*layout.Height)
			initial := float32(math.Inf(1))
			if !p.darker {
				initial = float32(math.Inf(-1))
			}
			for j := range extremes {
				extremes[j] = initial
			}
		} else if !frame.Layout.SameAs(layout) {
			return raster.Frame{}, fmt.Errorf("%w: frame %d has layout %s, expected %s",
				timeslice.ErrLayoutMismatch, i, frame.Layout, layout)
		}
		p.merge(frame, out, extremes, i, total, offset)
		if progress != nil {
			progress(i+1, total)
		}
	}
	return raster.Frame{Layout: layout, Samples: out}, nil
}

func (p *Processor) merge(frame raster.Frame, out []byte, extremes []float32, index, total, offset int) {
	ch := frame.Layout.Channels
	for px := range extremes {
		sample := frame.Samples[px*ch : px*ch+ch]
		var value float32
		for c := 0; c < ch; c++ {
			value += float32(sample[c]) * p.weights[c]
		}
		extreme := p.darker && value < extremes[px] || !p.darker && value > extremes[px]
		if !extreme {
			continue
		}
		extremes[px] = value
		fade := p.fadeAt(index, total, offset)
		if fade <= 0 {
			continue
		}
		raster.BlendInto(out[px*ch:px*ch+ch], sample, fade)
	}
}

func (p *Processor) fadeAt(frame, total, offset int) float32 {
	if !p.fade.Defined() {
		return 1
	}
	if p.fade.Absolute() {
		return p.fade.Value(offset + frame)
	}
	return p.fade.Value(total - frame - 1)
}
