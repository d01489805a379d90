package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose    bool
	configPath string
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "dagengine",
		Short:         "dagengine compiles and runs dataflow graphs of registered blocks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfigFile(app, flags.configPath)
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML manager config file (blueprint_cache_size, pool_size, workers, timeout_seconds)")

	cmd.AddCommand(newBlocksCmd(app))
	cmd.AddCommand(newRunCmd(app, flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
