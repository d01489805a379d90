package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type blocksListOptions struct {
	jsonOutput bool
}

func newBlocksCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Inspect the registered block catalogue",
	}
	cmd.AddCommand(newBlocksListCmd(app))
	return cmd
}

func newBlocksListCmd(app *AppContext) *cobra.Command {
	opts := &blocksListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered block descriptors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlocksList(cmd, app, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func runBlocksList(cmd *cobra.Command, app *AppContext, opts *blocksListOptions) error {
	descriptors := app.Registry.ExportConfig()

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(descriptors)
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tINPUTS\tOUTPUTS\tOPTIONS")
	for _, d := range descriptors {
		fmt.Fprintf(writer, "%s\t%d\t%d\t%d\n", d.Name, len(d.Inputs), len(d.Outputs), len(d.Options))
	}
	return writer.Flush()
}
