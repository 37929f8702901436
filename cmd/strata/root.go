package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/strata-config/strata/pkg/cli"
	"github.com/strata-config/strata/pkg/loader"
	"github.com/strata-config/strata/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgPath string
	envName string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Strata - layered configuration resolver",
	Long: `Strata resolves layered configuration for services and tooling.

It loads an ordered stack of configuration files (defaults, base,
environment, local, process overrides), deep-merges them with later-wins
semantics, and resolves embedded protocol tags:
  - file:, path:, base64: for content and path expansion
  - env: and require: for environment and document lookups
  - exec: for command output
  - import: for nested configurations with their own layer stacks

Process-level overrides come from the STRATA_CONFIG environment variable
or the --STRATA_CONFIG=<json> flag, and STRATA_ENV selects the
environment layer.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config/app.json", "configuration path")
	rootCmd.PersistentFlags().StringVarP(&envName, "env", "e", "", "environment name (overrides STRATA_ENV)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the command logger from the verbose flag.
func newLogger() *slog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:  level,
		Format: "text",
		Writer: os.Stderr,
	})
	if err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return logger
}

// loadOptions builds the load options shared by all commands.
func loadOptions() *loader.Options {
	return &loader.Options{
		Environment: envName,
		Logger:      newLogger(),
	}
}
