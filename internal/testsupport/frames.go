package testsupport

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"chronophoto/internal/imgio"
	"chronophoto/internal/raster"
)

// SequenceOptions controls the synthetic frame generator: a noisy bright
// background with a dark square dot moving diagonally across the frames.
type SequenceOptions struct {
	Width     int
	Height    int
	Channels  int
	Frames    int
	DotRadius int
	DotStartX int
	DotStartY int
	DotStepX  int
	DotStepY  int
	Seed      int64
}

// DefaultSequence returns the generator settings used by the sample command.
func DefaultSequence() SequenceOptions {
	return SequenceOptions{
		Width:     1024,
		Height:    768,
		Channels:  4,
		Frames:    25,
		DotRadius: 8,
		DotStartX: 100,
		DotStartY: 768 / 3,
		DotStepX:  10,
		DotStepY:  5,
		Seed:      1,
	}
}

// SmallSequence returns settings sized for fast tests.
func SmallSequence(frames int) SequenceOptions {
	return SequenceOptions{
		Width:     32,
		Height:    24,
		Channels:  4,
		Frames:    frames,
		DotRadius: 2,
		DotStartX: 4,
		DotStartY: 8,
		DotStepX:  2,
		DotStepY:  1,
		Seed:      1,
	}
}

// GenerateSequence renders all frames of the sequence in memory.
func GenerateSequence(opts SequenceOptions) []raster.Frame {
	rng := rand.New(rand.NewSource(opts.Seed))
	frames := make([]raster.Frame, opts.Frames)
	for i := range frames {
		frames[i] = generateFrame(opts, i, rng)
	}
	return frames
}

// WriteSequence renders the sequence into dir as image-00000.png and so on,
// returning the written paths in frame order.
func WriteSequence(dir string, opts SequenceOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sample directory: %w", err)
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	paths := make([]string, 0, opts.Frames)
	for i := 0; i < opts.Frames; i++ {
		frame := generateFrame(opts, i, rng)
		path := filepath.Join(dir, fmt.Sprintf("image-%05d.png", i))
		if err := imgio.Save(path, frame.Samples, frame.Layout, 0); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func generateFrame(opts SequenceOptions, index int, rng *rand.Rand) raster.Frame {
	layout := raster.NewLayout(opts.Width, opts.Height, opts.Channels)
	samples := make([]uint8, layout.ByteSize())
	for i := range samples {
		if i%opts.Channels == 2 {
			samples[i] = uint8(140 + rng.Intn(10))
		} else {
			samples[i] = uint8(240 + rng.Intn(10))
		}
	}

	cx := opts.DotStartX + index*opts.DotStepX
	cy := opts.DotStartY + index*opts.DotStepY
	for y := cy - opts.DotRadius; y <= cy+opts.DotRadius; y++ {
		if y < 0 || y >= opts.Height {
			continue
		}
		for x := cx - opts.DotRadius; x <= cx+opts.DotRadius; x++ {
			if x < 0 || x >= opts.Width {
				continue
			}
			idx := layout.Index(x, y)
			for c := 0; c < opts.Channels && c < 3; c++ {
				samples[idx+c] = 0
			}
		}
	}

	if opts.Channels == 4 {
		for i := 3; i < len(samples); i += 4 {
			samples[i] = 255
		}
	}

	return raster.Frame{Layout: layout, Samples: samples}
}
