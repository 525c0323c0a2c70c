// Package list implements the command that prints the operators dataset.
package list

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/carriermap/internal/cmd/application"
	"github.com/agentstation/carriermap/internal/cmd/globals"
	"github.com/agentstation/carriermap/internal/cmd/output"
	"github.com/agentstation/carriermap/internal/persistence"
	"github.com/agentstation/carriermap/pkg/errors"
)

// NewCommand creates the list command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		country string
		path    string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: "core",
		Short:   "Print the operators dataset",
		Example: `  carriermap list
  carriermap list --country fr -o wide
  carriermap list -o yaml --file data/ops.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = app.Config().OperatorsFile
			}
			records, err := persistence.Load(path)
			if err != nil {
				if errors.IsNotFound(err) {
					return fmt.Errorf("%s does not exist, run 'carriermap update' first", path)
				}
				return err
			}
			if country = strings.TrimSpace(country); country != "" {
				records = records.FilterCountry(country)
			}
			app.Logger().Debug().Int("operators", len(records)).Str("path", path).Msg("Loaded operators")
			return output.FormatOperators(cmd.OutOrStdout(), records, &globals.Flags{Output: app.OutputFormat()})
		},
	}

	cmd.Flags().StringVarP(&country, "country", "c", "", "only operators of this ISO2 country code")
	cmd.Flags().StringVar(&path, "file", "", "artifact path (default OPERATORS_FILE or operators.json)")

	return cmd
}
