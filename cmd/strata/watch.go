package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/strata-config/strata/pkg/cli"
	"github.com/strata-config/strata/pkg/loader"
	"github.com/strata-config/strata/pkg/snapshot"
	"github.com/strata-config/strata/pkg/telemetry/metrics"
	"github.com/strata-config/strata/pkg/watch"
)

var watchFlags struct {
	metricsAddr string
	snapshotDB  string
	refresh     string
	debounce    time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload configuration on file changes",
	Long: `Watch the configuration directory and re-resolve on every change.

Reload failures keep the previous configuration. Optionally exposes
Prometheus metrics, records a SQLite snapshot per successful reload, and
forces periodic reloads on a cron schedule.

Examples:
  # Watch with metrics
  strata watch --config config/app.json --metrics-addr :9090

  # Record an audit trail of resolved configurations
  strata watch --config config/app.json --snapshot-db data/snapshots.db

  # Also refresh every five minutes
  strata watch --config config/app.json --refresh "@every 5m"`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (empty disables)")
	watchCmd.Flags().StringVar(&watchFlags.snapshotDB, "snapshot-db", "", "SQLite file recording a snapshot per reload (empty disables)")
	watchCmd.Flags().StringVar(&watchFlags.refresh, "refresh", "", `cron schedule forcing periodic reloads, e.g. "@every 5m"`)
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 250*time.Millisecond, "quiet period after a file event before reloading")
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	loaderMetrics := metrics.NewLoaderMetrics("strata", nil)
	opts := loadOptions()
	opts.Observer = loaderMetrics

	var store snapshot.Store
	if watchFlags.snapshotDB != "" {
		var err error
		store, err = snapshot.NewSQLiteStore(&snapshot.SQLiteConfig{
			Path:        watchFlags.snapshotDB,
			BusyTimeout: 5 * time.Second,
			WALMode:     true,
		})
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer store.Close()
	}

	watcher, err := watch.New(&watch.Config{
		Path:             cfgPath,
		Options:          opts,
		DebounceInterval: watchFlags.debounce,
		RefreshSchedule:  watchFlags.refresh,
		Store:            store,
		OnReload:         loaderMetrics.RecordReload,
		Logger:           logger,
	})
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	watcher.Subscribe(func(cfg *loader.Config) {
		logger.Info("configuration updated", "path", cfgPath)
	})

	if watchFlags.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", loaderMetrics.Handler())
		go func() {
			logger.Info("metrics server listening", "addr", watchFlags.metricsAddr)
			if err := http.ListenAndServe(watchFlags.metricsAddr, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", cfgPath)

	if err := watcher.Run(ctx); err != nil {
		watcher.Stop()
		return cli.NewCommandError("watch", err)
	}
	return watcher.Stop()
}
