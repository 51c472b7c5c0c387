package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"chronophoto/internal/imgio"
	"chronophoto/internal/shake"
)

func newShakeCommand(ctx *commandContext) *cobra.Command {
	var (
		input   string
		frames  string
		anchors []string
		radius  string
	)

	cmd := &cobra.Command{
		Use:   "shake",
		Short: "Report per-frame camera shake offsets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}

			parsedAnchors, params, err := parseShake(anchors, radius)
			if err != nil {
				return err
			}
			if len(parsedAnchors) == 0 {
				return fmt.Errorf("at least one --anchor is required")
			}

			var fr *imgio.FrameRange
			if frames != "" {
				parsed, err := imgio.ParseFrameRange(frames)
				if err != nil {
					return err
				}
				fr = &parsed
			}
			files, err := imgio.List(input, fr)
			if err != nil {
				return err
			}

			offsets, err := shake.Analyze(files, parsedAnchors, params, nil)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(offsets))
			for i, off := range offsets {
				rows = append(rows, []string{
					strconv.Itoa(i),
					strconv.Itoa(off.DX),
					strconv.Itoa(off.DY),
					strconv.FormatInt(off.Score, 10),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Frame", "DX", "DY", "Score"}, rows, 0, 1, 2, 3))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file glob pattern")
	cmd.Flags().StringVar(&frames, "frames", "", "Frame selection start/end/step")
	cmd.Flags().StringSliceVar(&anchors, "anchor", nil, "Anchor x/y (repeatable)")
	cmd.Flags().StringVar(&radius, "radius", "", "Anchor/search radius r/s")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
