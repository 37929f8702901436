package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/strata-config/strata/pkg/protocol"
)

// Load runs the full pipeline against path and returns the resolved
// configuration wrapped in a *Config with the dotted-path accessor.
//
// The pipeline: build the source list, resolve sources strictly in
// order into one merged map, rewrite protocol-tagged strings, then run
// the Finalize hook if present. Any failure aborts the remaining steps;
// no partial result is returned.
func Load(ctx context.Context, path string, opts *Options) (*Config, error) {
	data, err := LoadMap(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return NewConfig(data), nil
}

// LoadMap runs the same pipeline as Load but returns the plain resolved
// map, with no accessor wrapper attached. Imported configurations are
// always loaded this way: they are plain data inside the parent tree.
func LoadMap(ctx context.Context, path string, opts *Options) (map[string]any, error) {
	opts = opts.clone()
	logger := opts.logger()

	snap := opts.Snapshot
	if snap == nil {
		snap = ProcessSnapshot()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration path %q: %w", path, err)
	}
	dir := filepath.Dir(absPath)

	ctx, err = pushLoadPath(ctx, absPath)
	if err != nil {
		return nil, err
	}

	environment := resolveEnvironment(opts, snap)
	loadID := uuid.NewString()
	logger = logger.With("load_id", loadID, "path", path, "environment", environment)
	opts.Logger = logger

	if opts.Observer != nil {
		opts.Observer.LoadStarted(path, environment)
	}
	start := time.Now()

	data, err := runPipeline(ctx, path, dir, environment, opts, snap)

	if opts.Observer != nil {
		opts.Observer.LoadFinished(path, time.Since(start), err)
	}
	if err != nil {
		logger.Error("configuration load failed", "error", err)
		return nil, err
	}
	logger.Debug("configuration loaded", "duration", time.Since(start))
	return data, nil
}

func runPipeline(ctx context.Context, path, dir, environment string, opts *Options, snap *Snapshot) (map[string]any, error) {
	sources, err := buildSources(path, environment, opts, snap)
	if err != nil {
		return nil, err
	}

	merged, err := resolveSources(ctx, sources, map[string]any{}, opts)
	if err != nil {
		return nil, err
	}

	handlers := buildHandlers(environment, opts)
	resolved, err := protocol.Resolve(ctx, merged, dir, handlers)
	if err != nil {
		return nil, err
	}
	data := resolved.(map[string]any)

	if opts.Finalize != nil {
		replacement, err := opts.Finalize(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("finalize hook failed: %w", err)
		}
		if replacement != nil {
			data = replacement
		}
	}
	return data, nil
}

// buildHandlers assembles the protocol handler map for one load call:
// built-ins, then the import handler, then user handlers, user entries
// winning on name collision. Every handler is wrapped for observation.
func buildHandlers(environment string, opts *Options) map[string]protocol.Handler {
	handlers := protocol.Builtins(opts.Runtime)
	handlers["import"] = importHandler(environment, opts)
	for name, handler := range opts.Protocols {
		handlers[name] = handler
	}

	if opts.Observer != nil {
		for name, handler := range handlers {
			handlers[name] = observed(name, handler, opts.Observer)
		}
	}
	return handlers
}

func observed(name string, h protocol.Handler, obs Observer) protocol.Handler {
	return func(ctx context.Context, payload, dir string) (any, error) {
		value, err := h(ctx, payload, dir)
		if err == nil {
			obs.ProtocolResolved(name)
		}
		return value, err
	}
}

// importHandler re-enters the whole pipeline on another file. The child
// load retains the environment and user protocols; defaults, overrides,
// the Sources hook and the Finalize hook are dropped, and the
// process-level overrides are suppressed: they apply exactly once, at
// the outermost call. The imported result is plain data.
func importHandler(environment string, parent *Options) protocol.Handler {
	return func(ctx context.Context, payload, dir string) (any, error) {
		target := payload
		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}

		child := &Options{
			Environment: environment,
			Protocols:   parent.Protocols,
			Exclude: Exclude{
				CommandLine: true,
				Env:         true,
			},
			Snapshot: parent.Snapshot,
			Runtime:  parent.Runtime,
			Logger:   parent.Logger,
			Observer: parent.Observer,
		}
		return LoadMap(ctx, target, child)
	}
}

// loadPathsKey carries the set of absolute paths currently being loaded
// within one top-level call, so cyclic imports fail fast instead of
// recursing until resource exhaustion.
type loadPathsKey struct{}

func pushLoadPath(ctx context.Context, absPath string) (context.Context, error) {
	inFlight, _ := ctx.Value(loadPathsKey{}).(map[string]bool)
	if inFlight[absPath] {
		return nil, &ImportCycleError{Path: absPath}
	}

	next := make(map[string]bool, len(inFlight)+1)
	for p := range inFlight {
		next[p] = true
	}
	next[absPath] = true
	return context.WithValue(ctx, loadPathsKey{}, next), nil
}
