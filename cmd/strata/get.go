package main

import (
	"github.com/spf13/cobra"

	"github.com/strata-config/strata/pkg/cli"
	"github.com/strata-config/strata/pkg/loader"
)

var getFlags struct {
	format string
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value by dotted path",
	Long: `Resolve the configuration and print the value at a dotted path.

Examples:
  # Read a scalar
  strata get server.port --config config/app.json

  # Read a subtree as YAML
  strata get database --config config/app.json --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getFlags.format, "format", "f", "text", "output format (text, json, yaml)")
}

func runGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	formatter, err := cli.NewFormatter(cli.OutputFormat(getFlags.format))
	if err != nil {
		return err
	}

	cfg, err := loader.Load(cmd.Context(), cfgPath, loadOptions())
	if err != nil {
		return cli.NewCommandError("get", err)
	}

	value, ok := cfg.Get(key)
	if !ok {
		return cli.NewUsageError("key %q not found in resolved configuration", key)
	}

	return formatter.FormatTo(cmd.OutOrStdout(), value)
}
