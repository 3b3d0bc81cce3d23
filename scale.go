package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sketchpad/internal/imaging"
)

func newScaleCmd() *cobra.Command {
	var (
		scale int
		out   string
	)

	cmd := &cobra.Command{
		Use:   "scale FILENAME",
		Short: "Scale an image by an integer factor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Opening %s...\n", filename)
			fmt.Fprintf(w, "Scaling %s to %dx size... \n", filename, scale)

			if out == "" {
				return nil
			}

			img, err := imaging.Load(filename)
			if err != nil {
				return err
			}

			scaled, err := imaging.Scale(img, scale)
			if err != nil {
				return err
			}
			return imaging.Save(out, scaled)
		},
	}

	cmd.Flags().IntVar(&scale, "scale", 3, "Scale Factor")
	cmd.Flags().StringVar(&out, "out", "", "write the scaled image to this PNG file")
	return cmd
}
