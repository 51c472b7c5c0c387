package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chronophoto/internal/testsupport"
)

func newSampleCommand(ctx *commandContext) *cobra.Command {
	var (
		output string
		frames int
		width  int
		height int
		seed   int64
	)

	cmd := &cobra.Command{
		Use:         "sample",
		Short:       "Generate a synthetic test image sequence",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := testsupport.DefaultSequence()
			if frames > 0 {
				opts.Frames = frames
			}
			if width > 0 {
				opts.Width = width
			}
			if height > 0 {
				opts.Height = height
				opts.DotStartY = height / 3
			}
			if seed != 0 {
				opts.Seed = seed
			}

			paths, err := testsupport.WriteSequence(output, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d frames to %s\n", len(paths), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "test_data/generated", "Output directory")
	cmd.Flags().IntVar(&frames, "frames", 0, "Number of frames to generate")
	cmd.Flags().IntVar(&width, "width", 0, "Frame width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Frame height in pixels")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Generator seed")

	return cmd
}
