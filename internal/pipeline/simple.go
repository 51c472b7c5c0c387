package pipeline

import (
	"log/slog"

	"chronophoto/internal/chrono"
	"chronophoto/internal/imgio"
	"chronophoto/internal/simple"
)

// SimpleOptions carries the settings for a lighter/darker run.
type SimpleOptions struct {
	Pattern    string
	Frames     *imgio.FrameRange
	OutputPath string
	Weights    chrono.Weights
	Fade       chrono.Fade
	Darker     bool
	Quality    int
	Progress   bool
}

// RunSimple executes the streaming extreme-value compositor. It needs no
// temp directory or lock since nothing is written besides the output image.
func RunSimple(opts SimpleOptions, logger *slog.Logger) error {
	files, indices, err := imgio.ListIndexed(opts.Pattern, opts.Frames)
	if err != nil {
		return Wrap(ErrValidation, "list", "", err)
	}
	logger.Info("input frames listed", "pattern", opts.Pattern, "frames", len(files))

	proc := simple.NewProcessor(opts.Weights, opts.Fade, opts.Darker)
	bar := newBar(opts.Progress, len(files), "compositing")
	frame, err := proc.Process(files, indices, func(done, total int) {
		barSet(bar, done)
	})
	barFinish(bar)
	if err != nil {
		return Wrap(ErrProcessing, "composite", "", err)
	}

	if err := imgio.Save(opts.OutputPath, frame.Samples, frame.Layout, opts.Quality); err != nil {
		return Wrap(ErrProcessing, "save", opts.OutputPath, err)
	}
	logger.Info("output written", "path", opts.OutputPath)
	return nil
}
