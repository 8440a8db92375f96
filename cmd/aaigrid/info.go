package main

import (
	"context"
	"encoding/json"
	"runtime"

	"github.com/gruppe-adler/aaigrid"
	"github.com/gruppe-adler/aaigrid/internal/validate"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newInfoCommand(c *cli) *cobra.Command {
	var asGeoJSON bool

	cmd := &cobra.Command{
		Use:   "info FILE...",
		Short: "Print the header of AAIGrid files without reading the grid.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.InputFiles(args); err != nil {
				return err
			}

			headers, err := readHeaders(cmd.Context(), c, args)
			if err != nil {
				return err
			}

			if asGeoJSON {
				bytes, err := json.MarshalIndent(footprints(args, headers), "", "    ")
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(append(bytes, '\n'))
				return err
			}

			for i, h := range headers {
				c.info("%s: %dx%d cells at (%g, %g), cell size %gx%g, nodata %g, type %s",
					args[i], h.Ncols, h.Nrows, h.XllCorner, h.YllCorner, h.Dx, h.Dy, h.NoDataValue, h.Type)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asGeoJSON, "geojson", false, "Print the footprints as GeoJSON feature collection")

	return cmd
}

// readHeaders lazily decodes all files in parallel. The headers are returned
// in the order of paths.
func readHeaders(ctx context.Context, c *cli, paths []string) ([]*aaigrid.Header, error) {
	headers := make([]*aaigrid.Header, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			_, h, err := aaigrid.ReadFile(p, true, aaigrid.WithLogger(c.log.With("file", p)))
			if err != nil {
				return err
			}
			headers[i] = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return headers, nil
}

func footprints(paths []string, headers []*aaigrid.Header) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i, h := range headers {
		feature := geojson.NewFeature(h.Bound().ToPolygon())
		feature.Properties["file"] = paths[i]
		feature.Properties["ncols"] = h.Ncols
		feature.Properties["nrows"] = h.Nrows
		feature.Properties["dx"] = h.Dx
		feature.Properties["dy"] = h.Dy
		feature.Properties["nodata"] = h.NoDataValue
		feature.Properties["type"] = h.Type.String()

		fc.Append(feature)
	}

	return fc
}
