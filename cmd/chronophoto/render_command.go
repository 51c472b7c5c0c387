package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chronophoto/internal/chrono"
	"chronophoto/internal/config"
	"chronophoto/internal/imgio"
	"chronophoto/internal/pipeline"
	"chronophoto/internal/shake"
	"chronophoto/internal/timeslice"
)

type renderFlags struct {
	input       string
	output      string
	blendOutput string
	frames      string
	threshold   string
	background  string
	outlier     string
	fade        string
	weights     string
	quality     int
	compression string
	slicing     string
	seed        int64
	maxSamples  int
	sliceWork   int
	pixelWork   int
	videoFrames int
	videoStride int
	window      int
	shakeAnchor []string
	shakeRadius string
	noProgress  bool
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Composite an image sequence via per-pixel outlier analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts, err := flags.pipelineOptions(cfg)
			if err != nil {
				return err
			}

			summary, err := pipeline.Run(cfg, opts, logger)
			if summary != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Input file glob pattern, e.g. 'frames/*.png'")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output image path")
	cmd.Flags().StringVar(&flags.blendOutput, "blend-output", "", "Also write the blend diagnostic image to this path")
	cmd.Flags().StringVar(&flags.frames, "frames", "", "Frame selection start/end/step, e.g. 0/./2")
	cmd.Flags().StringVar(&flags.threshold, "threshold", "", "Outlier threshold, e.g. abs/0.05/0.2")
	cmd.Flags().StringVar(&flags.background, "background", "", "Background mode: first|random|average|median")
	cmd.Flags().StringVar(&flags.outlier, "outlier", "", "Outlier selection: first|last|extreme|average|forward|backward")
	cmd.Flags().StringVar(&flags.fade, "fade", "", "Fade curve, e.g. clamp/rel/0:0/5:1 ('none' disables)")
	cmd.Flags().StringVar(&flags.weights, "weights", "", "Per-channel distance weights, e.g. 1/1/1/0")
	cmd.Flags().IntVar(&flags.quality, "quality", 0, "Lossy encoder quality 1-100")
	cmd.Flags().StringVar(&flags.compression, "compression", "", "Band chunk codec, e.g. gzip/6")
	cmd.Flags().StringVar(&flags.slicing, "slicing", "", "Banding policy, e.g. rows/4")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "Run RNG seed (0 seeds from the clock)")
	cmd.Flags().IntVar(&flags.maxSamples, "max-samples", 0, "Frame cap for center estimation (0 = all)")
	cmd.Flags().IntVar(&flags.sliceWork, "slice-workers", 0, "Band fan-out workers (0 = one per CPU)")
	cmd.Flags().IntVar(&flags.pixelWork, "pixel-workers", 0, "Pixel workers (0 = one per CPU)")
	cmd.Flags().IntVar(&flags.videoFrames, "video-frames", 0, "Number of output frames for video synthesis")
	cmd.Flags().IntVar(&flags.videoStride, "video-stride", 1, "Source frames advanced per output frame")
	cmd.Flags().IntVar(&flags.window, "window", 0, "Source frames composited per output frame")
	cmd.Flags().StringSliceVar(&flags.shakeAnchor, "shake-anchor", nil, "Shake anchor x/y (repeatable)")
	cmd.Flags().StringVar(&flags.shakeRadius, "shake-radius", "", "Shake anchor/search radius r/s")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Disable progress bars")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// pipelineOptions resolves flags against the config defaults and parses the
// enum and curve strings.
func (f *renderFlags) pipelineOptions(cfg *config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		Pattern:      f.input,
		OutputPath:   f.output,
		BlendPath:    f.blendOutput,
		Quality:      pick(f.quality, cfg.Render.Quality),
		Seed:         f.seed,
		MaxSamples:   pick(f.maxSamples, cfg.Processing.MaxSamples),
		SliceWorkers: pick(f.sliceWork, cfg.Processing.SliceWorkers),
		PixelWorkers: pick(f.pixelWork, cfg.Processing.PixelWorkers),
		VideoFrames:  f.videoFrames,
		VideoStride:  f.videoStride,
		Window:       f.window,
		Progress:     !f.noProgress,
	}
	if opts.Seed == 0 {
		opts.Seed = cfg.Processing.Seed
	}

	var err error
	if f.frames != "" {
		fr, err := imgio.ParseFrameRange(f.frames)
		if err != nil {
			return opts, err
		}
		opts.Frames = &fr
	}
	if opts.Threshold, err = chrono.ParseThreshold(pickStr(f.threshold, cfg.Render.Threshold)); err != nil {
		return opts, err
	}
	if opts.Background, err = chrono.ParseBackgroundMode(pickStr(f.background, cfg.Render.Background)); err != nil {
		return opts, err
	}
	if opts.Outlier, err = chrono.ParseOutlierMode(pickStr(f.outlier, cfg.Render.Outlier)); err != nil {
		return opts, err
	}
	if opts.Weights, err = chrono.ParseWeights(pickStr(f.weights, cfg.Render.Weights)); err != nil {
		return opts, err
	}
	if opts.Fade, err = parseFade(pickStr(f.fade, cfg.Render.Fade)); err != nil {
		return opts, err
	}
	if opts.Compression, err = timeslice.ParseCompression(pickStr(f.compression, cfg.Processing.Compression)); err != nil {
		return opts, err
	}
	if opts.Slicing, err = timeslice.ParseSliceLength(pickStr(f.slicing, cfg.Processing.Slicing)); err != nil {
		return opts, err
	}
	if opts.ShakeAnchors, opts.ShakeParams, err = parseShake(f.shakeAnchor, f.shakeRadius); err != nil {
		return opts, err
	}
	return opts, nil
}

func parseFade(s string) (chrono.Fade, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return chrono.NoFade(), nil
	}
	return chrono.ParseFade(s)
}

func parseShake(anchors []string, radius string) ([]shake.Anchor, shake.Params, error) {
	if len(anchors) == 0 {
		if strings.TrimSpace(radius) != "" {
			return nil, shake.Params{}, fmt.Errorf("a shake radius requires at least one anchor")
		}
		return nil, shake.Params{}, nil
	}
	if strings.TrimSpace(radius) == "" {
		return nil, shake.Params{}, fmt.Errorf("shake anchors require a radius")
	}
	params, err := shake.ParseParams(radius)
	if err != nil {
		return nil, shake.Params{}, err
	}
	parsed := make([]shake.Anchor, 0, len(anchors))
	for _, a := range anchors {
		anchor, err := shake.ParseAnchor(a)
		if err != nil {
			return nil, shake.Params{}, err
		}
		parsed = append(parsed, anchor)
	}
	return parsed, params, nil
}

func renderSummary(s *pipeline.Summary) string {
	rows := [][]string{
		{"Input frames", strconv.Itoa(s.InputFrames)},
		{"Output frames", strconv.Itoa(s.OutputFrames)},
		{"Bands", strconv.Itoa(s.Bands)},
		{"Band bytes", strconv.FormatInt(s.BytesWritten, 10)},
		{"Outlier pixels", strconv.FormatInt(s.OutlierPixels, 10)},
		{"Warning pixels", strconv.FormatInt(s.Warnings, 10)},
		{"Seed", strconv.FormatInt(s.Seed, 10)},
		{"Elapsed", s.Elapsed.Round(time.Millisecond).String()},
	}
	if s.FailedFrames > 0 {
		rows = append(rows, []string{"Failed frames", strconv.Itoa(s.FailedFrames)})
	}
	return renderTable([]string{"Metric", "Value"}, rows, 1)
}

func pick(flag, fallback int) int {
	if flag != 0 {
		return flag
	}
	return fallback
}

func pickStr(flag, fallback string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	return fallback
}
