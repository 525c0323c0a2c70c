// Package globals holds the persistent flags shared by every command.
package globals

import "github.com/spf13/cobra"

// Flags are the root persistent flags.
type Flags struct {
	ConfigFile string
	Output     string
	LogLevel   string
	Quiet      bool
	Verbose    bool
	NoColor    bool
}

// AddFlags registers the persistent flags on cmd and returns the struct
// they are bound to.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}
	pf := cmd.PersistentFlags()

	pf.StringVar(&flags.ConfigFile, "config", "", "config file (default is ./.carriermap.yaml or $HOME/.carriermap.yaml)")
	pf.StringVarP(&flags.Output, "format", "o", "", "output format: table, json, yaml, wide")
	// --fmt is a hidden alias for --format.
	pf.StringVar(&flags.Output, "fmt", "", "")
	_ = pf.MarkHidden("fmt")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVar(&flags.NoColor, "no-color", false, "disable colored output")

	return flags
}

// Parse reads the persistent flags back from the root of cmd's hierarchy.
func Parse(cmd *cobra.Command) *Flags {
	root := cmd.Root()
	pf := root.PersistentFlags()

	configFile, _ := pf.GetString("config")
	output, _ := pf.GetString("format")
	logLevel, _ := pf.GetString("log-level")
	quiet, _ := pf.GetBool("quiet")
	verbose, _ := pf.GetBool("verbose")
	noColor, _ := pf.GetBool("no-color")

	return &Flags{
		ConfigFile: configFile,
		Output:     output,
		LogLevel:   logLevel,
		Quiet:      quiet,
		Verbose:    verbose,
		NoColor:    noColor,
	}
}
