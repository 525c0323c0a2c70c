package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/carriermap/internal/cmd/globals"
	"github.com/agentstation/carriermap/internal/config"
	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/logging"
)

// Execute runs the CLI with args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.createRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "carriermap",
		Short:   "Mobile operator coverage dataset and lookup service",
		Version: a.version,
		Long: `carriermap builds a dataset of mobile network operators by reconciling
the GSMA operator registry with nPerf coverage listings, and serves it over
HTTP together with map link expansion and reverse geocoding.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	root.AddGroup(&cobra.Group{ID: "lookup", Title: "Lookup Commands:"})

	a.flags = globals.AddFlags(root)
	root.SetVersionTemplate("carriermap {{.Version}}\n")

	a.registerCommands(root)
	return root
}

// setupCommand reloads configuration when --config is set and rebuilds the
// logger from the parsed flags. The rebuilt logger also becomes the default
// for code that logs through a context without one.
func (a *App) setupCommand(_ *cobra.Command, _ []string) error {
	if a.flags.ConfigFile != "" {
		cfg, err := config.Load(a.flags.ConfigFile)
		if err != nil {
			return &errors.ConfigError{Component: "app", Message: "load " + a.flags.ConfigFile, Err: err}
		}
		a.config = cfg
	}
	if !a.fixedLogger {
		logger := NewLogger(a.config, a.flags)
		a.logger = &logger
		logging.SetDefault(logger)
	}
	return nil
}

// ExitOnError prints err to stderr and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
