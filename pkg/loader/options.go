package loader

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/strata-config/strata/pkg/external"
	"github.com/strata-config/strata/pkg/protocol"
)

// Handler is the protocol handler type, aliased so callers registering
// user protocols need not import the protocol package.
type Handler = protocol.Handler

// Exclude disables individual built-in sources of the load order.
type Exclude struct {
	// CommandLine disables the --STRATA_CONFIG=<json> flag source.
	CommandLine bool

	// Env disables the STRATA_CONFIG environment variable source.
	Env bool

	// EnvFile disables the {base}-{environment}{ext} file source.
	EnvFile bool

	// LocalFile disables the {base}-local{ext} file source.
	LocalFile bool
}

// Options controls a single load call. The zero value loads the default
// source list with built-in protocols against the process environment.
type Options struct {
	// Defaults are sources prepended before the built-in list.
	Defaults []Source

	// Overrides are sources appended after the built-in list.
	Overrides []Source

	// Sources, when set, receives the built source list and may return a
	// replacement list. A nil return keeps the built list.
	Sources func(sources []Source) []Source

	// Environment is the explicit environment name. When empty the name
	// is read from STRATA_ENV and normalized ("prod" to "production",
	// "dev" to "development", absent to "development").
	Environment string

	// Exclude disables individual built-in sources.
	Exclude Exclude

	// Protocols are user protocol handlers, merged over the built-ins.
	// A user entry overrides a built-in of the same name.
	Protocols map[string]Handler

	// Finalize, when set, runs after protocol resolution with the
	// resolved configuration. A non-nil return replaces the result;
	// a nil return keeps the configuration as mutated by the hook.
	Finalize func(ctx context.Context, cfg map[string]any) (map[string]any, error)

	// Snapshot overrides the process-wide environment snapshot. Tests
	// inject a fresh snapshot here to avoid process-global state.
	Snapshot *Snapshot

	// Runtime overrides the OS-backed external capabilities.
	Runtime *external.Runtime

	// Logger receives pipeline debug and completion logs. Nil discards.
	Logger *slog.Logger

	// Observer receives pipeline instrumentation callbacks. Nil ignores.
	Observer Observer
}

// Observer receives instrumentation callbacks from the pipeline. All
// methods may be called from the goroutine running the load.
type Observer interface {
	// LoadStarted is called once per load call, before any source is
	// resolved.
	LoadStarted(path, environment string)

	// LoadFinished is called once per load call with its total duration
	// and outcome.
	LoadFinished(path string, duration time.Duration, err error)

	// SourceResolved is called after each source contributes, with the
	// source variant name ("file", "inline", "provider", "list").
	SourceResolved(kind string)

	// ProtocolResolved is called after each successful protocol handler
	// invocation, with the protocol name.
	ProtocolResolved(name string)
}

// clone returns a shallow defensive copy of the options, so the pipeline
// never mutates a caller-owned Options value. A nil receiver clones to
// the zero options.
func (o *Options) clone() *Options {
	if o == nil {
		return &Options{}
	}
	copied := *o
	return &copied
}

// logger returns the configured logger or a discarding one.
func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
