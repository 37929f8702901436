/*
Package cli provides command-line utilities for the strata command.

Output Formatting:

Resolved configuration can be rendered as flattened text, JSON, or YAML:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, cfg.Map()); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext()
	defer stop()
*/
package cli
