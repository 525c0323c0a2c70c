// Package update implements the command that rebuilds the operators artifact.
package update

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/carriermap/internal/cmd/application"
)

// Flags are the update command options.
type Flags struct {
	Output    string
	Delay     time.Duration
	Countries []string
	DryRun    bool
}

// NewCommand creates the update command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "update",
		GroupID: "core",
		Short:   "Rebuild the operators dataset from the registry and coverage listings",
		Long: `Update fetches the GSMA operator registry, then walks every supported
country and fetches its nPerf coverage listing, pausing between countries.
Listings are matched to registry operators by normalized name; registry
operators no listing claimed are added with a GSMA_ prefixed id.

Upstream failures are logged and skipped. The command fails only when the
dataset cannot be written.`,
		Example: `  carriermap update                          # Write operators.json
  carriermap update --output data/ops.json   # Write elsewhere
  carriermap update --countries FR,DE        # Only some countries
  carriermap update --dry-run -o table       # Print per-country counts only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), cmd.OutOrStdout(), app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Output, "output", "", "artifact path (default OPERATORS_FILE or operators.json)")
	cmd.Flags().DurationVar(&flags.Delay, "delay", -1, "pause after each country fetch (default API_DELAY or 50ms)")
	cmd.Flags().StringSliceVar(&flags.Countries, "countries", nil, "restrict the run to these ISO2 codes")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "build the dataset without writing it")

	return cmd
}
