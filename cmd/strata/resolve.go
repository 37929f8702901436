package main

import (
	"github.com/spf13/cobra"

	"github.com/strata-config/strata/pkg/cli"
	"github.com/strata-config/strata/pkg/loader"
	"github.com/strata-config/strata/pkg/telemetry/logging"
)

var resolveFlags struct {
	format string
	redact bool
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the fully resolved configuration",
	Long: `Resolve the full configuration stack for a path and print the result.

Examples:
  # Resolve with defaults
  strata resolve --config config/app.json

  # Resolve for production as YAML
  strata resolve --config config/app.json --env production --format yaml

  # Mask secret-looking values before printing
  strata resolve --config config/app.json --redact`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveFlags.format, "format", "f", "json", "output format (text, json, yaml)")
	resolveCmd.Flags().BoolVar(&resolveFlags.redact, "redact", false, "mask secret-looking values")
}

func runResolve(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(cli.OutputFormat(resolveFlags.format))
	if err != nil {
		return err
	}

	data, err := loader.LoadMap(cmd.Context(), cfgPath, loadOptions())
	if err != nil {
		return cli.NewCommandError("resolve", err)
	}

	if resolveFlags.redact {
		data = logging.NewRedactor().RedactConfig(data)
	}

	return formatter.FormatTo(cmd.OutOrStdout(), data)
}
