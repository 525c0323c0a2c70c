// Package resolve implements the command that expands a map link.
package resolve

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/carriermap/internal/cmd/application"
	"github.com/agentstation/carriermap/internal/cmd/globals"
	"github.com/agentstation/carriermap/internal/cmd/output"
	"github.com/agentstation/carriermap/internal/resolver"
	"github.com/agentstation/carriermap/pkg/logging"
)

// View is the printed form of a resolution.
type View struct {
	ExpandedURL string `json:"expandedUrl" yaml:"expanded_url"`
	Lat         string `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lng         string `json:"lng,omitempty" yaml:"lng,omitempty"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewCommand creates the resolve command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "resolve <url>",
		Aliases: []string{"expand"},
		GroupID: "lookup",
		Short:   "Expand a map link and extract its coordinates",
		Long: `Resolve follows a map link's redirects, unwraps consent pages and looks
for a coordinate in the final URL. When the URL carries none, the page is
fetched and searched for location meta tags and embedded coordinates.`,
		Example: `  carriermap resolve https://maps.app.goo.gl/abc123
  carriermap resolve "https://www.google.com/maps/@48.8584,2.2945,17z" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()
			ctx := logging.WithLogger(cmd.Context(), app.Logger())

			r := resolver.New(resolver.WithTimeout(cfg.RequestTimeout))
			result, err := r.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			return output.FormatAny(cmd.OutOrStdout(), NewView(result), &globals.Flags{Output: app.OutputFormat()})
		},
	}
}

// NewView converts a resolver result for printing.
func NewView(r resolver.Result) View {
	v := View{ExpandedURL: r.FinalURL}
	if !r.Found() {
		v.Error = "Could not find coordinates"
		return v
	}
	v.Lat = strconv.FormatFloat(r.Coords.Lat, 'f', -1, 64)
	v.Lng = strconv.FormatFloat(r.Coords.Lng, 'f', -1, 64)
	v.Source = r.Source
	return v
}
