package client

import (
	"fmt"
	"strconv"

	"github.com/mwantia/gostash/pkg/geo"
	"github.com/spf13/cobra"
)

func NewNearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "near <latitude> <longitude> <radius-km>",
		Short: "Find files taken near a location",
		Long:  "List files whose embedded GPS position lies within the given radius around a point. Files without GPS metadata are never listed.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q: %w", args[0], err)
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q: %w", args[1], err)
			}
			radius, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid radius %q: %w", args[2], err)
			}

			st, cleanup, err := openStash(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			center := geo.Location{Latitude: lat, Longitude: lon}
			files, err := st.FilesNear(cmd.Context(), center, radius)
			if err != nil {
				return err
			}

			for _, file := range files {
				name, err := file.Name(cmd.Context())
				if err != nil {
					return err
				}

				location, _ := file.Location(cmd.Context())
				distance := geo.Distance(center, location)
				fmt.Printf("%6d  %s (%.1f km)\n", file.ID(), name, distance)
			}

			return nil
		},
	}

	return cmd
}
