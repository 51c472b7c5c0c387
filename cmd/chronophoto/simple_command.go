package main

import (
	"github.com/spf13/cobra"

	"chronophoto/internal/chrono"
	"chronophoto/internal/imgio"
	"chronophoto/internal/pipeline"
)

func newSimpleCommand(ctx *commandContext) *cobra.Command {
	var (
		input      string
		output     string
		frames     string
		weights    string
		fade       string
		darker     bool
		quality    int
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "simple",
		Short: "Composite by per-pixel lighter or darker selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts := pipeline.SimpleOptions{
				Pattern:    input,
				OutputPath: output,
				Darker:     darker,
				Quality:    pick(quality, cfg.Render.Quality),
				Progress:   !noProgress,
			}
			if frames != "" {
				fr, err := imgio.ParseFrameRange(frames)
				if err != nil {
					return err
				}
				opts.Frames = &fr
			}
			if opts.Weights, err = chrono.ParseWeights(pickStr(weights, cfg.Render.Weights)); err != nil {
				return err
			}
			if opts.Fade, err = parseFade(pickStr(fade, cfg.Render.Fade)); err != nil {
				return err
			}

			return pipeline.RunSimple(opts, logger)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file glob pattern")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output image path")
	cmd.Flags().StringVar(&frames, "frames", "", "Frame selection start/end/step")
	cmd.Flags().StringVar(&weights, "weights", "", "Per-channel weights, e.g. 1/1/1/0")
	cmd.Flags().StringVar(&fade, "fade", "", "Fade curve ('none' disables)")
	cmd.Flags().BoolVar(&darker, "darker", false, "Keep the darkest sample instead of the lightest")
	cmd.Flags().IntVar(&quality, "quality", 0, "Lossy encoder quality 1-100")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable progress bars")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
