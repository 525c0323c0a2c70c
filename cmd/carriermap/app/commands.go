package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/carriermap/cmd/carriermap/cmd/countries"
	"github.com/agentstation/carriermap/cmd/carriermap/cmd/geocode"
	"github.com/agentstation/carriermap/cmd/carriermap/cmd/list"
	"github.com/agentstation/carriermap/cmd/carriermap/cmd/resolve"
	"github.com/agentstation/carriermap/cmd/carriermap/cmd/serve"
	"github.com/agentstation/carriermap/cmd/carriermap/cmd/update"
	"github.com/agentstation/carriermap/cmd/carriermap/cmd/version"
)

func (a *App) registerCommands(root *cobra.Command) {
	root.AddCommand(update.NewCommand(a))
	root.AddCommand(serve.NewCommand(a))
	root.AddCommand(list.NewCommand(a))

	root.AddCommand(resolve.NewCommand(a))
	root.AddCommand(geocode.NewCommand(a))
	root.AddCommand(countries.NewCommand(a))

	root.AddCommand(version.NewCommand(a))
}
