package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/strata-config/strata/pkg/loader"
	"github.com/strata-config/strata/pkg/snapshot"
)

// watchedExtensions are the file extensions whose changes trigger a reload.
var watchedExtensions = []string{".json", ".jsonc", ".yaml", ".yml"}

// Config contains configuration for a Watcher.
type Config struct {
	// Path is the configuration path passed to the loader.
	Path string

	// Options are the load options re-applied on every reload.
	Options *loader.Options

	// DebounceInterval is the quiet period after a file event before a
	// reload runs (default: 250ms).
	DebounceInterval time.Duration

	// RefreshSchedule is an optional cron expression forcing periodic
	// reloads, for example "@every 5m". Empty disables periodic refresh.
	RefreshSchedule string

	// Store optionally records a snapshot of every successful reload.
	Store snapshot.Store

	// OnReload is called after every reload attempt with its error, nil
	// on success. Used for metrics.
	OnReload func(error)

	// Logger receives watcher lifecycle and reload events.
	Logger *slog.Logger
}

// Watcher reloads a configuration path when its files change.
type Watcher struct {
	config   *Config
	logger   *slog.Logger
	notify   *fsnotify.Watcher
	cron     *cron.Cron
	debounce *debouncer

	mu          sync.RWMutex
	running     bool
	current     *loader.Config
	subscribers []func(*loader.Config)

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a watcher for the given configuration. The initial load
// happens in Run, not here.
func New(config *Config) (*Watcher, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("watch: configuration path is required")
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 250 * time.Millisecond
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		config:   config,
		logger:   logger,
		notify:   notify,
		debounce: newDebouncer(config.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Current returns the most recently loaded configuration, or nil before
// the first successful load.
func (w *Watcher) Current() *loader.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Subscribe registers a callback invoked with every successfully
// reloaded configuration. Callbacks run on the watcher goroutine and
// must not block.
func (w *Watcher) Subscribe(fn func(*loader.Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subscribers = append(w.subscribers, fn)
}

// Run performs the initial load and then blocks processing file events
// until the context is cancelled or Stop is called. The initial load
// must succeed; reload failures afterwards keep the previous
// configuration.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.reload(ctx); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}

	absPath, err := filepath.Abs(w.config.Path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)
	if err := w.notify.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	if w.config.RefreshSchedule != "" {
		w.cron = cron.New()
		_, err := w.cron.AddFunc(w.config.RefreshSchedule, func() {
			w.logger.Debug("periodic refresh", "schedule", w.config.RefreshSchedule)
			w.reload(ctx)
		})
		if err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", w.config.RefreshSchedule, err)
		}
		w.cron.Start()
		defer w.cron.Stop()
	}

	w.logger.Info("configuration watcher started",
		"dir", dir,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("configuration watcher stopped", "reason", "context cancelled")
			return nil

		case <-w.stopCh:
			w.logger.Info("configuration watcher stopped")
			return nil

		case event, ok := <-w.notify.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !shouldProcessEvent(event) {
				continue
			}
			w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			w.debounce.trigger(func() {
				w.reload(ctx)
			})

		case err, ok := <-w.notify.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep watching despite errors.
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and waits for Run to return.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.debounce.stop()
		return w.notify.Close()
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.debounce.stop()
	return w.notify.Close()
}

// reload re-runs the load pipeline. On success the new configuration
// replaces the current one and subscribers are notified; on failure the
// previous configuration stays in place.
func (w *Watcher) reload(ctx context.Context) error {
	cfg, err := loader.Load(ctx, w.config.Path, w.config.Options)
	if w.config.OnReload != nil {
		w.config.OnReload(err)
	}
	if err != nil {
		w.logger.Error("configuration reload failed, keeping previous configuration",
			"path", w.config.Path,
			"error", err,
		)
		return err
	}

	w.mu.Lock()
	w.current = cfg
	subscribers := make([]func(*loader.Config), len(w.subscribers))
	copy(subscribers, w.subscribers)
	w.mu.Unlock()

	w.logger.Info("configuration reloaded", "path", w.config.Path)

	if w.config.Store != nil {
		record := &snapshot.Record{
			Path:        w.config.Path,
			Environment: w.environment(),
			Data:        cfg.Map(),
		}
		if err := w.config.Store.Save(ctx, record); err != nil {
			w.logger.Error("failed to record configuration snapshot", "error", err)
		}
	}

	for _, fn := range subscribers {
		fn(cfg)
	}
	return nil
}

// environment mirrors the loader's environment resolution for snapshot
// records.
func (w *Watcher) environment() string {
	if w.config.Options != nil && w.config.Options.Environment != "" {
		return loader.NormalizeEnvironment(w.config.Options.Environment)
	}
	snap := loader.ProcessSnapshot()
	if w.config.Options != nil && w.config.Options.Snapshot != nil {
		snap = w.config.Options.Snapshot
	}
	if name, ok := snap.EnvironmentName(); ok {
		return loader.NormalizeEnvironment(name)
	}
	return loader.NormalizeEnvironment("")
}

// shouldProcessEvent filters out events that cannot change the resolved
// configuration.
func shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, watched := range watchedExtensions {
		if ext == watched {
			return true
		}
	}
	return false
}
