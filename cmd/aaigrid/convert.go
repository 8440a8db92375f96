package main

import (
	"runtime"
	"time"

	"github.com/gruppe-adler/aaigrid"
	"github.com/gruppe-adler/aaigrid/internal/utils"
	"github.com/gruppe-adler/aaigrid/internal/validate"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newConvertCommand(c *cli) *cobra.Command {
	var (
		outputDirectory string
		detectType      bool
		gzip            bool
	)

	cmd := &cobra.Command{
		Use:   "convert --out DIR FILE...",
		Short: "Rewrite AAIGrid files with explicit dx/dy headers.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()

			if err := validate.InputFiles(args); err != nil {
				return err
			}
			if err := validate.OutputDirectory(outputDirectory, args, gzip); err != nil {
				return err
			}
			c.done("Validated input files and output directory")

			opts := aaigrid.EncodeOptions{DetectType: detectType}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(runtime.NumCPU())

			for _, p := range args {
				p := p
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}

					timer := time.Now()
					c.step("Converting %s", p)

					grid, h, err := aaigrid.ReadFile(p, false, aaigrid.WithLogger(c.log.With("file", p)))
					if err != nil {
						return err
					}

					dest, err := aaigrid.WriteFile(utils.OutputPath(outputDirectory, p, gzip), grid, h, opts)
					if err != nil {
						return err
					}

					c.done("Converted %s to %s (%d of %d cells valid) in %s",
						p, dest, grid.ValidCount(h.NoDataValue), h.Nrows*h.Ncols, time.Since(timer))
					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}

			c.info("Finished %d files in %s", len(args), time.Since(start))
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDirectory, "out", "", "Path to output directory")
	cmd.Flags().BoolVar(&detectType, "detect-type", false, "Write integer grids as integers instead of floats")
	cmd.Flags().BoolVar(&gzip, "gzip", false, "Compress the output files")
	cmd.MarkFlagRequired("out")

	return cmd
}
