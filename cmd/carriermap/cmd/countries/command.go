// Package countries implements the command that prints the country table.
package countries

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/carriermap/internal/cmd/application"
	"github.com/agentstation/carriermap/internal/cmd/globals"
	"github.com/agentstation/carriermap/internal/cmd/output"
	"github.com/agentstation/carriermap/pkg/countries"
)

// NewCommand creates the countries command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "countries",
		GroupID: "lookup",
		Short:   "List the country codes walked by update",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return output.FormatCountries(cmd.OutOrStdout(), countries.Codes(), &globals.Flags{Output: app.OutputFormat()})
		},
	}
}
