// Package geocode implements the reverse geocoding command.
package geocode

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/carriermap/internal/cmd/application"
	"github.com/agentstation/carriermap/internal/cmd/globals"
	"github.com/agentstation/carriermap/internal/cmd/output"
	"github.com/agentstation/carriermap/internal/geocode"
	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/geo"
	"github.com/agentstation/carriermap/pkg/logging"
)

// NewCommand creates the geocode command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "geocode <lat> <lng>",
		GroupID: "lookup",
		Short:   "Reverse geocode a coordinate to a country",
		Long: `Geocode asks the Nominatim service which country and state contain a
coordinate. Hong Kong, Macao and Taiwan are reported under their own codes.`,
		Example: `  carriermap geocode 48.8584 2.2945
  carriermap geocode -- 22.1987 113.5439 -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := parse(args[0], args[1])
			if err != nil {
				return err
			}

			cfg := app.Config()
			client := geocode.New(
				geocode.WithURL(cfg.NominatimURL),
				geocode.WithTimeout(cfg.RequestTimeout),
			)
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			loc, err := client.Reverse(ctx, coord.Lat, coord.Lng)
			if err != nil {
				return err
			}
			return output.FormatLocation(cmd.OutOrStdout(), loc, &globals.Flags{Output: app.OutputFormat()})
		},
	}
}

func parse(lat, lng string) (geo.Coordinate, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return geo.Coordinate{}, errors.NewValidationError("lat", lat, "must be a number")
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return geo.Coordinate{}, errors.NewValidationError("lng", lng, "must be a number")
	}
	c := geo.Coordinate{Lat: la, Lng: ln}
	if !c.IsValid() {
		return geo.Coordinate{}, errors.NewValidationError("coordinate", c.String(), "out of range")
	}
	return c, nil
}
